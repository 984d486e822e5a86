package postgres

import (
	"context"
	"fmt"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CommentsStore struct {
	pool *pgxpool.Pool
}

func NewCommentsStore(pool *pgxpool.Pool) *CommentsStore {
	return &CommentsStore{pool: pool}
}

func (s *CommentsStore) CreateComment(ctx context.Context, postID, userID, content string) (domain.Comment, error) {
	const q = `
		INSERT INTO comments (post_id, user_id, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	c := domain.Comment{PostID: postID, UserID: userID, Content: content}
	var idUUID pgtype.UUID
	if err := s.pool.QueryRow(ctx, q, postID, userID, content).Scan(&idUUID, &c.CreatedAt); err != nil {
		return domain.Comment{}, fmt.Errorf("create comment: %w", err)
	}
	c.ID = uuidOrEmpty(idUUID)
	return c, nil
}

func (s *CommentsStore) ListComments(ctx context.Context, postID string) ([]domain.CommentWithUser, error) {
	const q = `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
		       u.username, u.display_name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`

	rows, err := s.pool.Query(ctx, q, postID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var out []domain.CommentWithUser
	for rows.Next() {
		var (
			c           domain.CommentWithUser
			idUUID      pgtype.UUID
			postUUID    pgtype.UUID
			userUUID    pgtype.UUID
			displayName pgtype.Text
			avatarURL   pgtype.Text
		)
		err := rows.Scan(
			&idUUID, &postUUID, &userUUID, &c.Content, &c.CreatedAt,
			&c.User.Username, &displayName, &avatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.ID = uuidOrEmpty(idUUID)
		c.PostID = uuidOrEmpty(postUUID)
		c.UserID = uuidOrEmpty(userUUID)
		c.User.ID = c.UserID
		c.User.DisplayName = textOrEmpty(displayName)
		c.User.AvatarURL = textOrEmpty(avatarURL)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return out, nil
}
