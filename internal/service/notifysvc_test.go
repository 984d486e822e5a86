package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type stubNotificationsStore struct {
	createFunc      func(context.Context, domain.Notification) (domain.Notification, error)
	listFunc        func(context.Context, string, int) ([]domain.Notification, error)
	markReadFunc    func(context.Context, string, string, time.Time) error
	markAllReadFunc func(context.Context, string, time.Time) error
	deleteFunc      func(context.Context, string, string) error
	unreadFunc      func(context.Context, string) (int, error)
}

func (s *stubNotificationsStore) CreateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if s.createFunc != nil {
		return s.createFunc(ctx, n)
	}
	return domain.Notification{}, errors.New("create notification not stubbed")
}

func (s *stubNotificationsStore) ListNotifications(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	if s.listFunc != nil {
		return s.listFunc(ctx, recipientID, limit)
	}
	return nil, errors.New("list notifications not stubbed")
}

func (s *stubNotificationsStore) MarkRead(ctx context.Context, id, recipientID string, when time.Time) error {
	if s.markReadFunc != nil {
		return s.markReadFunc(ctx, id, recipientID, when)
	}
	return errors.New("mark read not stubbed")
}

func (s *stubNotificationsStore) MarkAllRead(ctx context.Context, recipientID string, when time.Time) error {
	if s.markAllReadFunc != nil {
		return s.markAllReadFunc(ctx, recipientID, when)
	}
	return errors.New("mark all read not stubbed")
}

func (s *stubNotificationsStore) DeleteNotification(ctx context.Context, id, recipientID string) error {
	if s.deleteFunc != nil {
		return s.deleteFunc(ctx, id, recipientID)
	}
	return errors.New("delete notification not stubbed")
}

func (s *stubNotificationsStore) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	if s.unreadFunc != nil {
		return s.unreadFunc(ctx, recipientID)
	}
	return 0, errors.New("unread count not stubbed")
}

func TestNotifySelfIsNoOp(t *testing.T) {
	store := &stubNotificationsStore{
		createFunc: func(_ context.Context, n domain.Notification) (domain.Notification, error) {
			t.Fatalf("store should not be touched for a self notification")
			return domain.Notification{}, nil
		},
	}
	svc := &NotificationService{Store: store}

	err := svc.Notify(context.Background(), NotifyParams{
		RecipientID: "user-1",
		SenderID:    "user-1",
		Type:        domain.NotificationLike,
		Message:     "you liked your own post",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNotifyPersistsUnread(t *testing.T) {
	var got domain.Notification
	store := &stubNotificationsStore{
		createFunc: func(_ context.Context, n domain.Notification) (domain.Notification, error) {
			got = n
			return n, nil
		},
	}
	svc := &NotificationService{Store: store}

	err := svc.Notify(context.Background(), NotifyParams{
		RecipientID:   "user-2",
		SenderID:      "user-1",
		Type:          domain.NotificationComment,
		Message:       "alice commented on your post",
		ReferenceID:   "post-1",
		ReferenceType: "post",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.RecipientID != "user-2" || got.SenderID != "user-1" {
		t.Fatalf("unexpected notification: %+v", got)
	}
	if got.Read {
		t.Fatalf("new notifications must start unread")
	}
	if got.ReferenceID != "post-1" || got.ReferenceType != "post" {
		t.Fatalf("unexpected reference: %+v", got)
	}
}

func TestNotificationsListLimits(t *testing.T) {
	var gotLimit int
	store := &stubNotificationsStore{
		listFunc: func(_ context.Context, recipientID string, limit int) ([]domain.Notification, error) {
			gotLimit = limit
			return nil, nil
		},
	}
	svc := &NotificationService{Store: store}

	if _, err := svc.List(context.Background(), "user-1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != defaultNotificationLimit {
		t.Fatalf("expected default limit %d, got %d", defaultNotificationLimit, gotLimit)
	}

	if _, err := svc.List(context.Background(), "user-1", 9999); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != maxNotificationLimit {
		t.Fatalf("expected capped limit %d, got %d", maxNotificationLimit, gotLimit)
	}
}

func TestNotificationsMarkReadUsesClock(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := &stubNotificationsStore{
		markReadFunc: func(_ context.Context, id, recipientID string, when time.Time) error {
			if id != "notif-1" || recipientID != "user-1" {
				t.Fatalf("unexpected args: %s %s", id, recipientID)
			}
			if !when.Equal(now) {
				t.Fatalf("unexpected timestamp: %v", when)
			}
			return nil
		},
	}
	svc := &NotificationService{Store: store, Now: func() time.Time { return now }}

	if err := svc.MarkRead(context.Background(), "notif-1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
