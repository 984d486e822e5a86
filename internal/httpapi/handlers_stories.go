package httpapi

import (
	"net/http"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type createStoryRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
}

func (a *api) handleStoriesCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	var req createStoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	story, err := a.storiesSvc.Create(r.Context(), userID, req.Content, req.ImageURL)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"story": story})
}

func (a *api) handleStoriesList(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUserID(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	stories, err := a.storiesSvc.ListActive(r.Context())
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if stories == nil {
		stories = []domain.StoryWithUser{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"stories": stories})
}

func (a *api) handleStoriesView(w http.ResponseWriter, r *http.Request) {
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

	if err := a.storiesSvc.View(r.Context(), id, userID); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
