package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ConnectionsStore struct {
	pool *pgxpool.Pool
}

func NewConnectionsStore(pool *pgxpool.Pool) *ConnectionsStore {
	return &ConnectionsStore{pool: pool}
}

const connectionColumns = `id, requester_id, recipient_id, status, created_at, updated_at`

// Create inserts a fresh pending record. The connections_pair_uq index is
// the authoritative guard against two records for the same pair; a
// violation surfaces as ErrConnectionExists even when the concurrent
// request came from the other side.
func (s *ConnectionsStore) Create(ctx context.Context, requesterID, recipientID string) (domain.Connection, error) {
	const q = `
		INSERT INTO connections (requester_id, recipient_id, status)
		VALUES ($1, $2, 'pending')
		RETURNING ` + connectionColumns + `
	`

	c, err := scanConnection(s.pool.QueryRow(ctx, q, requesterID, recipientID))
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "connections_pair_uq" {
			return domain.Connection{}, domain.ErrConnectionExists
		}
		return domain.Connection{}, fmt.Errorf("create connection: %w", err)
	}
	return c, nil
}

func (s *ConnectionsStore) GetByID(ctx context.Context, id string) (domain.Connection, error) {
	const q = `SELECT ` + connectionColumns + ` FROM connections WHERE id = $1`

	c, err := scanConnection(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Connection{}, domain.ErrNotFound
		}
		return domain.Connection{}, fmt.Errorf("get connection: %w", err)
	}
	return c, nil
}

// GetByPair looks up the record for the unordered pair {a, b}, regardless
// of which side sent the request.
func (s *ConnectionsStore) GetByPair(ctx context.Context, a, b string) (domain.Connection, error) {
	const q = `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE least(requester_id, recipient_id) = least($1::uuid, $2::uuid)
		  AND greatest(requester_id, recipient_id) = greatest($1::uuid, $2::uuid)
	`

	c, err := scanConnection(s.pool.QueryRow(ctx, q, a, b))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Connection{}, domain.ErrNotFound
		}
		return domain.Connection{}, fmt.Errorf("get connection by pair: %w", err)
	}
	return c, nil
}

// ResetPending resurrects a rejected record as a fresh pending request,
// overwriting the requester/recipient ordering. The status guard keeps a
// concurrent resolution from being clobbered.
func (s *ConnectionsStore) ResetPending(ctx context.Context, id, requesterID, recipientID string, when time.Time) (domain.Connection, error) {
	const q = `
		UPDATE connections
		SET requester_id = $2, recipient_id = $3, status = 'pending', updated_at = $4
		WHERE id = $1 AND status = 'rejected'
		RETURNING ` + connectionColumns + `
	`

	c, err := scanConnection(s.pool.QueryRow(ctx, q, id, requesterID, recipientID, when))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Connection{}, domain.ErrConnectionExists
		}
		return domain.Connection{}, fmt.Errorf("reset connection: %w", err)
	}
	return c, nil
}

// SetStatus resolves a pending record. No rows affected means the record
// was resolved (or re-reset) concurrently.
func (s *ConnectionsStore) SetStatus(ctx context.Context, id string, status domain.ConnectionStatus, when time.Time) (domain.Connection, error) {
	const q = `
		UPDATE connections
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + connectionColumns + `
	`

	c, err := scanConnection(s.pool.QueryRow(ctx, q, id, string(status), when))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Connection{}, domain.ErrConnectionResolved
		}
		return domain.Connection{}, fmt.Errorf("set connection status: %w", err)
	}
	return c, nil
}

func (s *ConnectionsStore) Delete(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete connection: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *ConnectionsStore) ListAccepted(ctx context.Context, userID string) ([]domain.ConnectionWithUser, error) {
	const q = `
		SELECT c.id, c.requester_id, c.recipient_id, c.status, c.created_at, c.updated_at,
		       u.id, u.username, u.display_name, u.avatar_url
		FROM connections c
		JOIN users u ON u.id = CASE
			WHEN c.requester_id = $1 THEN c.recipient_id
			ELSE c.requester_id
		END
		WHERE c.status = 'accepted' AND (c.requester_id = $1 OR c.recipient_id = $1)
		ORDER BY u.username ASC
	`
	return s.listWithUser(ctx, q, userID)
}

func (s *ConnectionsStore) ListPendingReceived(ctx context.Context, userID string) ([]domain.ConnectionWithUser, error) {
	const q = `
		SELECT c.id, c.requester_id, c.recipient_id, c.status, c.created_at, c.updated_at,
		       u.id, u.username, u.display_name, u.avatar_url
		FROM connections c
		JOIN users u ON u.id = c.requester_id
		WHERE c.status = 'pending' AND c.recipient_id = $1
		ORDER BY c.created_at DESC
	`
	return s.listWithUser(ctx, q, userID)
}

func (s *ConnectionsStore) listWithUser(ctx context.Context, q, userID string) ([]domain.ConnectionWithUser, error) {
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	var out []domain.ConnectionWithUser
	for rows.Next() {
		var (
			c           domain.ConnectionWithUser
			idUUID      pgtype.UUID
			reqUUID     pgtype.UUID
			recUUID     pgtype.UUID
			userUUID    pgtype.UUID
			displayName pgtype.Text
			avatarURL   pgtype.Text
		)
		err := rows.Scan(
			&idUUID, &reqUUID, &recUUID, &c.Status, &c.CreatedAt, &c.UpdatedAt,
			&userUUID, &c.User.Username, &displayName, &avatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan connection: %w", err)
		}
		c.ID = uuidOrEmpty(idUUID)
		c.RequesterID = uuidOrEmpty(reqUUID)
		c.RecipientID = uuidOrEmpty(recUUID)
		c.User.ID = uuidOrEmpty(userUUID)
		c.User.DisplayName = textOrEmpty(displayName)
		c.User.AvatarURL = textOrEmpty(avatarURL)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return out, nil
}

func scanConnection(row pgx.Row) (domain.Connection, error) {
	var (
		c       domain.Connection
		idUUID  pgtype.UUID
		reqUUID pgtype.UUID
		recUUID pgtype.UUID
	)
	if err := row.Scan(&idUUID, &reqUUID, &recUUID, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return domain.Connection{}, err
	}
	c.ID = uuidOrEmpty(idUUID)
	c.RequesterID = uuidOrEmpty(reqUUID)
	c.RecipientID = uuidOrEmpty(recUUID)
	return c, nil
}
