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

type StoriesStore struct {
	pool *pgxpool.Pool
}

func NewStoriesStore(pool *pgxpool.Pool) *StoriesStore {
	return &StoriesStore{pool: pool}
}

func (s *StoriesStore) CreateStory(ctx context.Context, userID, content, imageURL string, expiresAt time.Time) (domain.Story, error) {
	const q = `
		INSERT INTO stories (user_id, content, image_url, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	st := domain.Story{UserID: userID, Content: content, ImageURL: imageURL, ExpiresAt: expiresAt}
	var idUUID pgtype.UUID
	if err := s.pool.QueryRow(ctx, q, userID, content, imageURL, expiresAt).Scan(&idUUID, &st.CreatedAt); err != nil {
		return domain.Story{}, fmt.Errorf("create story: %w", err)
	}
	st.ID = uuidOrEmpty(idUUID)
	return st, nil
}

// GetActiveStory returns the story only while it has not expired; an
// expired story reads the same as a deleted one.
func (s *StoriesStore) GetActiveStory(ctx context.Context, id string, now time.Time) (domain.Story, error) {
	const q = `
		SELECT id, user_id, content, image_url, views_count, created_at, expires_at
		FROM stories
		WHERE id = $1 AND expires_at > $2
	`

	var (
		st       domain.Story
		idUUID   pgtype.UUID
		userUUID pgtype.UUID
		content  pgtype.Text
		imageURL pgtype.Text
	)
	err := s.pool.QueryRow(ctx, q, id, now).Scan(
		&idUUID, &userUUID, &content, &imageURL, &st.ViewsCount, &st.CreatedAt, &st.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Story{}, domain.ErrNotFound
		}
		return domain.Story{}, fmt.Errorf("get story: %w", err)
	}
	st.ID = uuidOrEmpty(idUUID)
	st.UserID = uuidOrEmpty(userUUID)
	st.Content = textOrEmpty(content)
	st.ImageURL = textOrEmpty(imageURL)
	return st, nil
}

func (s *StoriesStore) ListActiveStories(ctx context.Context, now time.Time) ([]domain.StoryWithUser, error) {
	const q = `
		SELECT s.id, s.user_id, s.content, s.image_url, s.views_count, s.created_at, s.expires_at,
		       u.username, u.display_name, u.avatar_url
		FROM stories s
		JOIN users u ON u.id = s.user_id
		WHERE s.expires_at > $1
		ORDER BY s.created_at DESC
	`

	rows, err := s.pool.Query(ctx, q, now)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	var out []domain.StoryWithUser
	for rows.Next() {
		var (
			st          domain.StoryWithUser
			idUUID      pgtype.UUID
			userUUID    pgtype.UUID
			content     pgtype.Text
			imageURL    pgtype.Text
			displayName pgtype.Text
			avatarURL   pgtype.Text
		)
		err := rows.Scan(
			&idUUID, &userUUID, &content, &imageURL, &st.ViewsCount, &st.CreatedAt, &st.ExpiresAt,
			&st.User.Username, &displayName, &avatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		st.ID = uuidOrEmpty(idUUID)
		st.UserID = uuidOrEmpty(userUUID)
		st.Content = textOrEmpty(content)
		st.ImageURL = textOrEmpty(imageURL)
		st.User.ID = st.UserID
		st.User.DisplayName = textOrEmpty(displayName)
		st.User.AvatarURL = textOrEmpty(avatarURL)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return out, nil
}

func (s *StoriesStore) IncrementViews(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `UPDATE stories SET views_count = views_count + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment story views: %w", err)
	}
	return nil
}
