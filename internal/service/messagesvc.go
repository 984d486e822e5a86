package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type MessagesStore interface {
	CreateMessage(ctx context.Context, senderID, receiverID, content string) (domain.Message, error)
	GetMessage(ctx context.Context, id string) (domain.Message, error)
	ListPair(ctx context.Context, a, b string) ([]domain.Message, error)
	MarkReadFrom(ctx context.Context, senderID, receiverID string, when time.Time) (int64, error)
	ListConversations(ctx context.Context, viewerID string) ([]domain.Conversation, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	DeleteMessage(ctx context.Context, id string) error
}

type MessagesService struct {
	Messages MessagesStore
	Users    UsersStore
	Notifier Notifier
	Now      func() time.Time
}

type ConversationView struct {
	Messages  []domain.Message   `json:"messages"`
	OtherUser domain.UserSummary `json:"other_user"`
}

// Send persists the message unread and notifies the receiver. There is no
// connection-graph gate: any user may message any other user.
func (s *MessagesService) Send(ctx context.Context, senderID, receiverID, content string) (domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Message{}, domain.NewValidationError(map[string]string{"content": "required"})
	}
	if receiverID == "" {
		return domain.Message{}, domain.NewValidationError(map[string]string{"receiver_id": "required"})
	}

	if _, err := s.Users.GetUserByID(ctx, receiverID); err != nil {
		return domain.Message{}, err
	}

	msg, err := s.Messages.CreateMessage(ctx, senderID, receiverID, content)
	if err != nil {
		return domain.Message{}, err
	}

	sender, err := s.Users.GetUserByID(ctx, senderID)
	if err != nil {
		return domain.Message{}, err
	}
	err = s.Notifier.Notify(ctx, NotifyParams{
		RecipientID:   receiverID,
		SenderID:      senderID,
		Type:          domain.NotificationMessage,
		Message:       fmt.Sprintf("%s sent you a message", displayOrUsername(sender)),
		ReferenceID:   msg.ID,
		ReferenceType: "message",
	})
	if err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// GetConversation returns the full thread with the other user, oldest
// first. Opening the thread acknowledges it: every unread message from the
// other side is flipped to read before the list is built, so the returned
// messages reflect the acknowledged state and a second call is a pure read.
func (s *MessagesService) GetConversation(ctx context.Context, viewerID, otherUserID string) (ConversationView, error) {
	other, err := s.Users.GetUserByID(ctx, otherUserID)
	if err != nil {
		return ConversationView{}, err
	}

	if _, err := s.Messages.MarkReadFrom(ctx, otherUserID, viewerID, s.now()); err != nil {
		return ConversationView{}, err
	}

	msgs, err := s.Messages.ListPair(ctx, viewerID, otherUserID)
	if err != nil {
		return ConversationView{}, err
	}
	return ConversationView{Messages: msgs, OtherUser: other.Summary()}, nil
}

func (s *MessagesService) ListConversations(ctx context.Context, viewerID string) ([]domain.Conversation, error) {
	return s.Messages.ListConversations(ctx, viewerID)
}

// MarkRead bulk-acknowledges everything from one sender without fetching
// the thread.
func (s *MessagesService) MarkRead(ctx context.Context, viewerID, senderID string) error {
	_, err := s.Messages.MarkReadFrom(ctx, senderID, viewerID, s.now())
	return err
}

func (s *MessagesService) UnreadCount(ctx context.Context, viewerID string) (int, error) {
	return s.Messages.UnreadCount(ctx, viewerID)
}

// Delete removes a single message; only its sender may do so. No
// notification is issued and nothing else is touched.
func (s *MessagesService) Delete(ctx context.Context, messageID, actingUserID string) error {
	msg, err := s.Messages.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != actingUserID {
		return domain.ErrForbidden
	}
	return s.Messages.DeleteMessage(ctx, messageID)
}

func (s *MessagesService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
