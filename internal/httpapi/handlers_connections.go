package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type sendConnectionRequest struct {
	RecipientID string `json:"recipient_id"`
}

func (a *api) handleConnectionsSend(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req sendConnectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if uuid.Validate(req.RecipientID) != nil {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"recipient_id": "must be a valid id"}))
		return
	}

	conn, err := a.connectionsSvc.SendRequest(r.Context(), userID, req.RecipientID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"connection": conn})
}

type resolveConnectionRequest struct {
	ConnectionID string `json:"connection_id"`
}

func (a *api) handleConnectionsAccept(w http.ResponseWriter, r *http.Request) {
	a.resolveConnection(w, r, a.connectionsSvc.Accept)
}

func (a *api) handleConnectionsReject(w http.ResponseWriter, r *http.Request) {
	a.resolveConnection(w, r, a.connectionsSvc.Reject)
}

func (a *api) resolveConnection(w http.ResponseWriter, r *http.Request, resolve func(ctx context.Context, connectionID, actingUserID string) (domain.Connection, error)) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req resolveConnectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}
	if uuid.Validate(req.ConnectionID) != nil {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"connection_id": "must be a valid id"}))
		return
	}

	conn, err := resolve(r.Context(), req.ConnectionID, userID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"connection": conn})
}

func (a *api) handleConnectionsRemove(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if err := a.connectionsSvc.Remove(r.Context(), id, userID); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleConnectionsList(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	out, err := a.connectionsSvc.ListAccepted(r.Context(), userID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if out == nil {
		out = []domain.ConnectionWithUser{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"connections": out})
}

func (a *api) handleConnectionsPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	out, err := a.connectionsSvc.ListPendingReceived(r.Context(), userID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if out == nil {
		out = []domain.ConnectionWithUser{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"requests": out})
}

func (a *api) handleConnectionsStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	otherID, err := pathID(r, "otherUserID")
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	state, err := a.connectionsSvc.Status(r.Context(), userID, otherID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, state)
}
