package httpapi

import (
	"net/http"
	"strconv"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/service"
)

type createPostRequest struct {
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Privacy   string   `json:"privacy"`
	ImageURLs []string `json:"image_urls"`
}

func (a *api) handlePostsCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	post, err := a.postsSvc.Create(r.Context(), userID, service.CreatePostParams{
		Content:   req.Content,
		Category:  req.Category,
		Privacy:   domain.PostPrivacy(req.Privacy),
		ImageURLs: req.ImageURLs,
	})
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"post": post})
}

func (a *api) handlePostsFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			WriteDomainError(w, domain.NewValidationError(map[string]string{"limit": "must be a number"}))
			return
		}
		limit = n
	}

	posts, err := a.postsSvc.GetFeed(r.Context(), userID, limit)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if posts == nil {
		posts = []domain.FeedPost{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"posts": posts})
}

func (a *api) handlePostsGet(w http.ResponseWriter, r *http.Request) {
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

	post, err := a.postsSvc.Get(r.Context(), userID, id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"post": post})
}

func (a *api) handlePostsDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := a.postsSvc.Delete(r.Context(), id, userID); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handlePostsLike(w http.ResponseWriter, r *http.Request) {
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

	if err := a.postsSvc.Like(r.Context(), id, userID); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (a *api) handlePostsUnlike(w http.ResponseWriter, r *http.Request) {
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

	if err := a.postsSvc.Unlike(r.Context(), id, userID); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type sharePostRequest struct {
	Content string `json:"content"`
}

func (a *api) handlePostsShare(w http.ResponseWriter, r *http.Request) {
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

	var req sharePostRequest
	if err := decodeJSONAllowEmpty(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	post, err := a.postsSvc.Share(r.Context(), id, userID, req.Content)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"post": post})
}

type createCommentRequest struct {
	Content string `json:"content"`
}

func (a *api) handlePostsCommentCreate(w http.ResponseWriter, r *http.Request) {
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

	var req createCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	comment, err := a.postsSvc.CreateComment(r.Context(), id, userID, req.Content)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"comment": comment})
}

func (a *api) handlePostsCommentsList(w http.ResponseWriter, r *http.Request) {
	if _, ok := CurrentUserID(r.Context()); !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	comments, err := a.postsSvc.ListComments(r.Context(), id)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if comments == nil {
		comments = []domain.CommentWithUser{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"comments": comments})
}
