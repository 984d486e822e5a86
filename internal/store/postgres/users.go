package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersStore struct {
	pool *pgxpool.Pool
}

func NewUsersStore(pool *pgxpool.Pool) *UsersStore {
	return &UsersStore{pool: pool}
}

const userColumns = `id, email, username, display_name, avatar_url, bio, created_at, updated_at`

func (s *UsersStore) CreateUser(ctx context.Context, email, username, passwordHash string) (domain.User, error) {
	const q = `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns + `
	`

	u, err := scanUser(s.pool.QueryRow(ctx, q, email, username, passwordHash))
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" {
			switch pgerr.ConstraintName {
			case "users_username_uq":
				return domain.User{}, domain.ErrUsernameTaken
			case "users_email_uq":
				return domain.User{}, domain.ErrEmailTaken
			}
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

func (s *UsersStore) GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error) {
	const q = `
		SELECT ` + userColumns + `, password_hash
		FROM users
		WHERE lower(username) = lower($1) OR lower(email) = lower($1)
		ORDER BY (lower(username) = lower($1)) DESC
		LIMIT 1
	`

	var (
		u           domain.UserWithPassword
		idUUID      pgtype.UUID
		displayName pgtype.Text
		avatarURL   pgtype.Text
		bio         pgtype.Text
	)
	err := s.pool.QueryRow(ctx, q, login).Scan(
		&idUUID,
		&u.Email,
		&u.Username,
		&displayName,
		&avatarURL,
		&bio,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.PasswordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		}
		return domain.UserWithPassword{}, fmt.Errorf("get user by login: %w", err)
	}

	u.ID = uuidOrEmpty(idUUID)
	u.DisplayName = textOrEmpty(displayName)
	u.AvatarURL = textOrEmpty(avatarURL)
	u.Bio = textOrEmpty(bio)
	return u, nil
}

func (s *UsersStore) SearchUsers(ctx context.Context, viewerID, query string, limit int) ([]domain.UserSummary, error) {
	const q = `
		SELECT id, username, display_name, avatar_url
		FROM users
		WHERE id <> $1
		  AND (username ILIKE $2 || '%' OR display_name ILIKE $2 || '%')
		ORDER BY username ASC
		LIMIT $3
	`

	rows, err := s.pool.Query(ctx, q, viewerID, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	var out []domain.UserSummary
	for rows.Next() {
		u, err := scanUserSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	return out, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u           domain.User
		idUUID      pgtype.UUID
		displayName pgtype.Text
		avatarURL   pgtype.Text
		bio         pgtype.Text
	)
	err := row.Scan(
		&idUUID,
		&u.Email,
		&u.Username,
		&displayName,
		&avatarURL,
		&bio,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.ID = uuidOrEmpty(idUUID)
	u.DisplayName = textOrEmpty(displayName)
	u.AvatarURL = textOrEmpty(avatarURL)
	u.Bio = textOrEmpty(bio)
	return u, nil
}

func scanUserSummary(row pgx.Row) (domain.UserSummary, error) {
	var (
		u           domain.UserSummary
		idUUID      pgtype.UUID
		displayName pgtype.Text
		avatarURL   pgtype.Text
	)
	if err := row.Scan(&idUUID, &u.Username, &displayName, &avatarURL); err != nil {
		return domain.UserSummary{}, err
	}
	u.ID = uuidOrEmpty(idUUID)
	u.DisplayName = textOrEmpty(displayName)
	u.AvatarURL = textOrEmpty(avatarURL)
	return u, nil
}
