package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationsStore struct {
	pool *pgxpool.Pool
}

func NewNotificationsStore(pool *pgxpool.Pool) *NotificationsStore {
	return &NotificationsStore{pool: pool}
}

func (s *NotificationsStore) CreateNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	const q = `
		INSERT INTO notifications (recipient_id, sender_id, type, message, reference_id, reference_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	var idUUID pgtype.UUID
	err := s.pool.QueryRow(ctx, q,
		n.RecipientID, n.SenderID, string(n.Type), n.Message,
		nullIfEmpty(n.ReferenceID), n.ReferenceType,
	).Scan(&idUUID, &n.CreatedAt)
	if err != nil {
		return domain.Notification{}, fmt.Errorf("create notification: %w", err)
	}
	n.ID = uuidOrEmpty(idUUID)
	return n, nil
}

func (s *NotificationsStore) ListNotifications(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	const q = `
		SELECT id, recipient_id, sender_id, type, message, reference_id, reference_type,
		       read, read_at, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, q, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []domain.Notification
	for rows.Next() {
		var (
			n        domain.Notification
			idUUID   pgtype.UUID
			recUUID  pgtype.UUID
			sndUUID  pgtype.UUID
			refUUID  pgtype.UUID
			refType  pgtype.Text
			readAtTS pgtype.Timestamptz
		)
		err := rows.Scan(
			&idUUID, &recUUID, &sndUUID, &n.Type, &n.Message, &refUUID, &refType,
			&n.Read, &readAtTS, &n.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.ID = uuidOrEmpty(idUUID)
		n.RecipientID = uuidOrEmpty(recUUID)
		n.SenderID = uuidOrEmpty(sndUUID)
		n.ReferenceID = uuidOrEmpty(refUUID)
		n.ReferenceType = textOrEmpty(refType)
		n.ReadAt = timestamptzPtr(readAtTS)
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

// MarkRead is scoped to the owning recipient; a miss on either id or
// ownership reads the same as absence.
func (s *NotificationsStore) MarkRead(ctx context.Context, id, recipientID string, when time.Time) error {
	const q = `
		UPDATE notifications
		SET read = true, read_at = $3
		WHERE id = $1 AND recipient_id = $2 AND NOT read
	`

	ct, err := s.pool.Exec(ctx, q, id, recipientID, when)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return s.checkExists(ctx, id, recipientID)
	}
	return nil
}

// checkExists distinguishes "already read" (fine) from "not yours / gone".
func (s *NotificationsStore) checkExists(ctx context.Context, id, recipientID string) error {
	const q = `SELECT 1 FROM notifications WHERE id = $1 AND recipient_id = $2`

	var one int
	err := s.pool.QueryRow(ctx, q, id, recipientID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("check notification: %w", err)
	}
	return nil
}

func (s *NotificationsStore) MarkAllRead(ctx context.Context, recipientID string, when time.Time) error {
	const q = `
		UPDATE notifications
		SET read = true, read_at = $2
		WHERE recipient_id = $1 AND NOT read
	`
	if _, err := s.pool.Exec(ctx, q, recipientID, when); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

func (s *NotificationsStore) DeleteNotification(ctx context.Context, id, recipientID string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM notifications WHERE id = $1 AND recipient_id = $2`, id, recipientID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *NotificationsStore) UnreadCount(ctx context.Context, recipientID string) (int, error) {
	const q = `SELECT count(*) FROM notifications WHERE recipient_id = $1 AND NOT read`

	var n int
	if err := s.pool.QueryRow(ctx, q, recipientID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}
