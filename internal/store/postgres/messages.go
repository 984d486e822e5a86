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

type MessagesStore struct {
	pool *pgxpool.Pool
}

func NewMessagesStore(pool *pgxpool.Pool) *MessagesStore {
	return &MessagesStore{pool: pool}
}

func (s *MessagesStore) CreateMessage(ctx context.Context, senderID, receiverID, content string) (domain.Message, error) {
	const q = `
		INSERT INTO messages (sender_id, receiver_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	m := domain.Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	var idUUID pgtype.UUID
	if err := s.pool.QueryRow(ctx, q, senderID, receiverID, content).Scan(&idUUID, &m.CreatedAt); err != nil {
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}
	m.ID = uuidOrEmpty(idUUID)
	return m, nil
}

func (s *MessagesStore) GetMessage(ctx context.Context, id string) (domain.Message, error) {
	const q = `
		SELECT id, sender_id, receiver_id, content, read, read_at, created_at
		FROM messages
		WHERE id = $1
	`

	m, err := scanMessage(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Message{}, domain.ErrNotFound
		}
		return domain.Message{}, fmt.Errorf("get message: %w", err)
	}
	return m, nil
}

// ListPair returns the full thread for the unordered pair {a, b},
// oldest-first.
func (s *MessagesStore) ListPair(ctx context.Context, a, b string) ([]domain.Message, error) {
	const q = `
		SELECT id, sender_id, receiver_id, content, read, read_at, created_at
		FROM messages
		WHERE least(sender_id, receiver_id) = least($1::uuid, $2::uuid)
		  AND greatest(sender_id, receiver_id) = greatest($1::uuid, $2::uuid)
		ORDER BY created_at ASC
	`

	rows, err := s.pool.Query(ctx, q, a, b)
	if err != nil {
		return nil, fmt.Errorf("list conversation messages: %w", err)
	}
	defer rows.Close()

	var out []domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversation messages: %w", err)
	}
	return out, nil
}

// MarkReadFrom flips every unread message from senderID to receiverID in
// one statement and reports how many were flipped.
func (s *MessagesStore) MarkReadFrom(ctx context.Context, senderID, receiverID string, when time.Time) (int64, error) {
	const q = `
		UPDATE messages
		SET read = true, read_at = $3
		WHERE sender_id = $1 AND receiver_id = $2 AND NOT read
	`

	ct, err := s.pool.Exec(ctx, q, senderID, receiverID, when)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return ct.RowsAffected(), nil
}

// ListConversations derives one row per conversation partner: the latest
// message for the normalized pair plus the viewer's unread count for that
// partner.
func (s *MessagesStore) ListConversations(ctx context.Context, viewerID string) ([]domain.Conversation, error) {
	const q = `
		SELECT m.id, m.sender_id, m.receiver_id, m.content, m.read, m.read_at, m.created_at,
		       u.id, u.username, u.display_name, u.avatar_url,
		       (SELECT count(*) FROM messages x
		        WHERE x.sender_id = u.id AND x.receiver_id = $1 AND NOT x.read) AS unread_count
		FROM (
			SELECT DISTINCT ON (least(sender_id, receiver_id), greatest(sender_id, receiver_id)) *
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
			ORDER BY least(sender_id, receiver_id), greatest(sender_id, receiver_id), created_at DESC
		) m
		JOIN users u ON u.id = CASE
			WHEN m.sender_id = $1 THEN m.receiver_id
			ELSE m.sender_id
		END
		ORDER BY m.created_at DESC
	`

	rows, err := s.pool.Query(ctx, q, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var out []domain.Conversation
	for rows.Next() {
		var (
			c           domain.Conversation
			idUUID      pgtype.UUID
			senderUUID  pgtype.UUID
			recvUUID    pgtype.UUID
			readAt      pgtype.Timestamptz
			userUUID    pgtype.UUID
			displayName pgtype.Text
			avatarURL   pgtype.Text
		)
		err := rows.Scan(
			&idUUID, &senderUUID, &recvUUID, &c.LastMessage.Content,
			&c.LastMessage.Read, &readAt, &c.LastMessage.CreatedAt,
			&userUUID, &c.User.Username, &displayName, &avatarURL,
			&c.UnreadCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		c.LastMessage.ID = uuidOrEmpty(idUUID)
		c.LastMessage.SenderID = uuidOrEmpty(senderUUID)
		c.LastMessage.ReceiverID = uuidOrEmpty(recvUUID)
		c.LastMessage.ReadAt = timestamptzPtr(readAt)
		c.User.ID = uuidOrEmpty(userUUID)
		c.User.DisplayName = textOrEmpty(displayName)
		c.User.AvatarURL = textOrEmpty(avatarURL)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return out, nil
}

func (s *MessagesStore) UnreadCount(ctx context.Context, userID string) (int, error) {
	const q = `SELECT count(*) FROM messages WHERE receiver_id = $1 AND NOT read`

	var n int
	if err := s.pool.QueryRow(ctx, q, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}

func (s *MessagesStore) DeleteMessage(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMessage(row pgx.Row) (domain.Message, error) {
	var (
		m          domain.Message
		idUUID     pgtype.UUID
		senderUUID pgtype.UUID
		recvUUID   pgtype.UUID
		readAt     pgtype.Timestamptz
	)
	if err := row.Scan(&idUUID, &senderUUID, &recvUUID, &m.Content, &m.Read, &readAt, &m.CreatedAt); err != nil {
		return domain.Message{}, err
	}
	m.ID = uuidOrEmpty(idUUID)
	m.SenderID = uuidOrEmpty(senderUUID)
	m.ReceiverID = uuidOrEmpty(recvUUID)
	m.ReadAt = timestamptzPtr(readAt)
	return m, nil
}
