package httpapi

import (
	"net/http"
	"strings"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"

	"github.com/google/uuid"
)

// pathID rejects malformed ids before they reach the store, where a bad
// uuid cast would read as an internal error instead of a client one.
func pathID(r *http.Request, name string) (string, error) {
	id := strings.TrimSpace(r.PathValue(name))
	if uuid.Validate(id) != nil {
		return "", domain.NewValidationError(map[string]string{name: "must be a valid id"})
	}
	return id, nil
}

func (a *api) handleUsersSearch(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	out, err := a.usersSvc.Search(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if out == nil {
		out = []domain.UserSummary{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"users": out})
}

// handleUsersGet returns another user's profile summary together with the
// viewer's connection state toward them.
func (a *api) handleUsersGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	targetID, err := pathID(r, "id")
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	u, err := a.usersSvc.Get(r.Context(), targetID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	state, err := a.connectionsSvc.Status(r.Context(), userID, targetID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"user": u, "connection": state})
}
