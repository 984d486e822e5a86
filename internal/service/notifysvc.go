package service

import (
	"context"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type NotificationsStore interface {
	CreateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error)
	ListNotifications(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id, recipientID string, when time.Time) error
	MarkAllRead(ctx context.Context, recipientID string, when time.Time) error
	DeleteNotification(ctx context.Context, id, recipientID string) error
	UnreadCount(ctx context.Context, recipientID string) (int, error)
}

type NotifyParams struct {
	RecipientID   string
	SenderID      string
	Type          domain.NotificationType
	Message       string
	ReferenceID   string
	ReferenceType string
}

// Notifier is the single fan-out entry point every side-effecting action
// routes through.
type Notifier interface {
	Notify(ctx context.Context, p NotifyParams) error
}

const defaultNotificationLimit = 50
const maxNotificationLimit = 100

type NotificationService struct {
	Store NotificationsStore
	Now   func() time.Time
}

// Notify persists an unread notification for the counterpart of an action.
// A self-directed notification is a no-op, not an error; the guard lives
// here and nowhere else.
func (s *NotificationService) Notify(ctx context.Context, p NotifyParams) error {
	if p.RecipientID == p.SenderID {
		return nil
	}

	_, err := s.Store.CreateNotification(ctx, domain.Notification{
		RecipientID:   p.RecipientID,
		SenderID:      p.SenderID,
		Type:          p.Type,
		Message:       p.Message,
		ReferenceID:   p.ReferenceID,
		ReferenceType: p.ReferenceType,
	})
	return err
}

func (s *NotificationService) List(ctx context.Context, userID string, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	return s.Store.ListNotifications(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID string) error {
	return s.Store.MarkRead(ctx, notificationID, userID, s.now())
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.Store.MarkAllRead(ctx, userID, s.now())
}

func (s *NotificationService) Delete(ctx context.Context, notificationID, userID string) error {
	return s.Store.DeleteNotification(ctx, notificationID, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.Store.UnreadCount(ctx, userID)
}

func (s *NotificationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
