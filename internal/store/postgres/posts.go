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

type PostsStore struct {
	pool *pgxpool.Pool
}

func NewPostsStore(pool *pgxpool.Pool) *PostsStore {
	return &PostsStore{pool: pool}
}

const feedPostSelect = `
	SELECT p.id, p.author_id, p.content, p.category, p.privacy, p.image_urls,
	       p.shared_post_id, p.likes_count, p.comments_count, p.shares_count, p.created_at,
	       a.username, a.display_name, a.avatar_url,
	       sp.id, sp.content, sp.image_urls, sp.created_at,
	       sa.id, sa.username, sa.display_name, sa.avatar_url
	FROM posts p
	JOIN users a ON a.id = p.author_id
	LEFT JOIN posts sp ON sp.id = p.shared_post_id
	LEFT JOIN users sa ON sa.id = sp.author_id
`

func (s *PostsStore) CreatePost(ctx context.Context, authorID, content, category string, privacy domain.PostPrivacy, imageURLs []string, sharedPostID string) (domain.Post, error) {
	const q = `
		INSERT INTO posts (author_id, content, category, privacy, image_urls, shared_post_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	p := domain.Post{
		AuthorID:     authorID,
		Content:      content,
		Category:     category,
		Privacy:      privacy,
		ImageURLs:    imageURLs,
		SharedPostID: sharedPostID,
	}
	var idUUID pgtype.UUID
	err := s.pool.QueryRow(ctx, q,
		authorID, content, category, string(privacy),
		pgtype.FlatArray[string](imageURLs), nullIfEmpty(sharedPostID),
	).Scan(&idUUID, &p.CreatedAt)
	if err != nil {
		return domain.Post{}, fmt.Errorf("create post: %w", err)
	}
	p.ID = uuidOrEmpty(idUUID)
	return p, nil
}

func (s *PostsStore) GetPost(ctx context.Context, id string) (domain.FeedPost, error) {
	q := feedPostSelect + ` WHERE p.id = $1`

	p, err := scanFeedPost(s.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.FeedPost{}, domain.ErrNotFound
		}
		return domain.FeedPost{}, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// ListPublicPosts is the raw feed: public posts newest-first with author and
// shared-post display fields resolved. Like-state is stamped by the caller.
func (s *PostsStore) ListPublicPosts(ctx context.Context, limit int) ([]domain.FeedPost, error) {
	q := feedPostSelect + `
		WHERE p.privacy = 'public'
		ORDER BY p.created_at DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed posts: %w", err)
	}
	defer rows.Close()

	var out []domain.FeedPost
	for rows.Next() {
		p, err := scanFeedPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feed post: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list feed posts: %w", err)
	}
	return out, nil
}

// LikedPostIDs returns which of postIDs the user has liked, in one query.
func (s *PostsStore) LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	if len(postIDs) == 0 {
		return map[string]bool{}, nil
	}

	const q = `SELECT post_id FROM likes WHERE user_id = $1 AND post_id = ANY($2::uuid[])`

	rows, err := s.pool.Query(ctx, q, userID, postIDs)
	if err != nil {
		return nil, fmt.Errorf("list liked post ids: %w", err)
	}
	defer rows.Close()

	liked := make(map[string]bool, len(postIDs))
	for rows.Next() {
		var idUUID pgtype.UUID
		if err := rows.Scan(&idUUID); err != nil {
			return nil, fmt.Errorf("scan liked post id: %w", err)
		}
		liked[uuidOrEmpty(idUUID)] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list liked post ids: %w", err)
	}
	return liked, nil
}

// InsertLike relies on likes_post_user_uq as the only duplicate guard; the
// constraint violation is the authoritative conflict signal.
func (s *PostsStore) InsertLike(ctx context.Context, postID, userID string) (domain.Like, error) {
	const q = `
		INSERT INTO likes (post_id, user_id)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	l := domain.Like{PostID: postID, UserID: userID}
	var idUUID pgtype.UUID
	err := s.pool.QueryRow(ctx, q, postID, userID).Scan(&idUUID, &l.CreatedAt)
	if err != nil {
		var pgerr *pgconn.PgError
		if errors.As(err, &pgerr) && pgerr.Code == "23505" && pgerr.ConstraintName == "likes_post_user_uq" {
			return domain.Like{}, domain.ErrAlreadyLiked
		}
		return domain.Like{}, fmt.Errorf("insert like: %w", err)
	}
	l.ID = uuidOrEmpty(idUUID)
	return l, nil
}

// DeleteLike reports whether a row was actually removed, so the caller
// only decrements the counter for a real deletion.
func (s *PostsStore) DeleteLike(ctx context.Context, postID, userID string) (bool, error) {
	ct, err := s.pool.Exec(ctx, `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return false, fmt.Errorf("delete like: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// IncrementCounter applies a relative update at the store so concurrent
// writers cannot lose each other's increments.
func (s *PostsStore) IncrementCounter(ctx context.Context, postID string, counter domain.PostCounter, delta int) error {
	var q string
	switch counter {
	case domain.CounterLikes:
		q = `UPDATE posts SET likes_count = likes_count + $2 WHERE id = $1`
	case domain.CounterComments:
		q = `UPDATE posts SET comments_count = comments_count + $2 WHERE id = $1`
	case domain.CounterShares:
		q = `UPDATE posts SET shares_count = shares_count + $2 WHERE id = $1`
	default:
		return fmt.Errorf("unknown post counter %q", counter)
	}

	if _, err := s.pool.Exec(ctx, q, postID, delta); err != nil {
		return fmt.Errorf("increment %s: %w", counter, err)
	}
	return nil
}

// DeletePost removes the post; likes and comments go with it via FK
// cascade, and posts sharing it get their shared_post_id nulled out.
func (s *PostsStore) DeletePost(ctx context.Context, id string) error {
	ct, err := s.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanFeedPost(row pgx.Row) (domain.FeedPost, error) {
	var (
		p            domain.FeedPost
		idUUID       pgtype.UUID
		authorUUID   pgtype.UUID
		category     pgtype.Text
		imageURLs    pgtype.FlatArray[string]
		sharedUUID   pgtype.UUID
		authorDN     pgtype.Text
		authorAvatar pgtype.Text

		spID        pgtype.UUID
		spContent   pgtype.Text
		spImageURLs pgtype.FlatArray[string]
		spCreatedAt pgtype.Timestamptz
		saID        pgtype.UUID
		saUsername  pgtype.Text
		saDN        pgtype.Text
		saAvatar    pgtype.Text
	)
	err := row.Scan(
		&idUUID, &authorUUID, &p.Content, &category, &p.Privacy, &imageURLs,
		&sharedUUID, &p.LikesCount, &p.CommentsCount, &p.SharesCount, &p.CreatedAt,
		&p.Author.Username, &authorDN, &authorAvatar,
		&spID, &spContent, &spImageURLs, &spCreatedAt,
		&saID, &saUsername, &saDN, &saAvatar,
	)
	if err != nil {
		return domain.FeedPost{}, err
	}

	p.ID = uuidOrEmpty(idUUID)
	p.AuthorID = uuidOrEmpty(authorUUID)
	p.Category = textOrEmpty(category)
	p.ImageURLs = textArrayOrEmpty(imageURLs)
	p.SharedPostID = uuidOrEmpty(sharedUUID)
	p.Author.ID = p.AuthorID
	p.Author.DisplayName = textOrEmpty(authorDN)
	p.Author.AvatarURL = textOrEmpty(authorAvatar)

	// A share whose original is gone keeps shared_post null rather than
	// failing the whole read.
	if spID.Valid && saID.Valid {
		p.SharedPost = &domain.SharedPostSummary{
			ID:      uuidOrEmpty(spID),
			Content: textOrEmpty(spContent),
			Author: domain.UserSummary{
				ID:          uuidOrEmpty(saID),
				Username:    textOrEmpty(saUsername),
				DisplayName: textOrEmpty(saDN),
				AvatarURL:   textOrEmpty(saAvatar),
			},
			ImageURLs: textArrayOrEmpty(spImageURLs),
		}
		if spCreatedAt.Valid {
			p.SharedPost.CreatedAt = spCreatedAt.Time
		}
	}
	return p, nil
}
