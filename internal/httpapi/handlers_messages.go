package httpapi

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type sendMessageRequest struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

func (a *api) handleMessagesSend(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	if uuid.Validate(req.ReceiverID) != nil {
		WriteDomainError(w, domain.NewValidationError(map[string]string{"receiver_id": "must be a valid id"}))
		return
	}

	msg, err := a.messagesSvc.Send(r.Context(), userID, req.ReceiverID, req.Content)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"message": msg})
}

func (a *api) handleMessagesConversation(w http.ResponseWriter, r *http.Request) {
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

	view, err := a.messagesSvc.GetConversation(r.Context(), userID, otherID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if view.Messages == nil {
		view.Messages = []domain.Message{}
	}
	WriteJSON(w, http.StatusOK, view)
}

func (a *api) handleMessagesConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	out, err := a.messagesSvc.ListConversations(r.Context(), userID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if out == nil {
		out = []domain.Conversation{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"conversations": out})
}

func (a *api) handleMessagesMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}
	senderID, err := pathID(r, "senderID")
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if err := a.messagesSvc.MarkRead(r.Context(), userID, senderID); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleMessagesUnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, ok := CurrentUserID(r.Context())
	if !ok {
		WriteDomainError(w, domain.ErrUnauthorized)
		return
	}

	n, err := a.messagesSvc.UnreadCount(r.Context(), userID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"count": n})
}

func (a *api) handleMessagesDelete(w http.ResponseWriter, r *http.Request) {
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

	if err := a.messagesSvc.Delete(r.Context(), id, userID); err != nil {
		WriteDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
