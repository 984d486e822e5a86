package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type PostsStore interface {
	CreatePost(ctx context.Context, authorID, content, category string, privacy domain.PostPrivacy, imageURLs []string, sharedPostID string) (domain.Post, error)
	GetPost(ctx context.Context, id string) (domain.FeedPost, error)
	ListPublicPosts(ctx context.Context, limit int) ([]domain.FeedPost, error)
	LikedPostIDs(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	InsertLike(ctx context.Context, postID, userID string) (domain.Like, error)
	DeleteLike(ctx context.Context, postID, userID string) (bool, error)
	IncrementCounter(ctx context.Context, postID string, counter domain.PostCounter, delta int) error
	DeletePost(ctx context.Context, id string) error
}

type CommentsStore interface {
	CreateComment(ctx context.Context, postID, userID, content string) (domain.Comment, error)
	ListComments(ctx context.Context, postID string) ([]domain.CommentWithUser, error)
}

const defaultFeedLimit = 20
const maxFeedLimit = 100

type PostsService struct {
	Posts    PostsStore
	Comments CommentsStore
	Users    UsersStore
	Notifier Notifier
}

type CreatePostParams struct {
	Content   string
	Category  string
	Privacy   domain.PostPrivacy
	ImageURLs []string
}

func (s *PostsService) Create(ctx context.Context, authorID string, p CreatePostParams) (domain.FeedPost, error) {
	p.Content = strings.TrimSpace(p.Content)
	if p.Content == "" && len(p.ImageURLs) == 0 {
		return domain.FeedPost{}, domain.NewValidationError(map[string]string{"content": "content or images required"})
	}
	if p.Privacy == "" {
		p.Privacy = domain.PrivacyPublic
	}
	switch p.Privacy {
	case domain.PrivacyPublic, domain.PrivacyConnections:
	default:
		return domain.FeedPost{}, domain.NewValidationError(map[string]string{"privacy": "must be public or connections"})
	}

	created, err := s.Posts.CreatePost(ctx, authorID, p.Content, strings.TrimSpace(p.Category), p.Privacy, p.ImageURLs, "")
	if err != nil {
		return domain.FeedPost{}, err
	}
	return s.Posts.GetPost(ctx, created.ID)
}

// GetFeed materializes the viewer's feed: public posts newest-first, each
// stamped with the viewer's like-state from one batched query. The two
// reads are not isolated against each other; a like landing between them
// can stale a single is_liked until the next poll.
func (s *PostsService) GetFeed(ctx context.Context, viewerID string, limit int) ([]domain.FeedPost, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	posts, err := s.Posts.ListPublicPosts(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	liked, err := s.Posts.LikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].IsLiked = liked[posts[i].ID]
	}
	return posts, nil
}

func (s *PostsService) Get(ctx context.Context, viewerID, postID string) (domain.FeedPost, error) {
	post, err := s.Posts.GetPost(ctx, postID)
	if err != nil {
		return domain.FeedPost{}, err
	}
	liked, err := s.Posts.LikedPostIDs(ctx, viewerID, []string{postID})
	if err != nil {
		return domain.FeedPost{}, err
	}
	post.IsLiked = liked[postID]
	return post, nil
}

// Like inserts into the like set, bumps the counter, and notifies the
// author. The unique pair constraint is the sole double-count guard: a
// duplicate fails before the counter is touched.
func (s *PostsService) Like(ctx context.Context, postID, userID string) error {
	post, err := s.Posts.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	like, err := s.Posts.InsertLike(ctx, postID, userID)
	if err != nil {
		return err
	}
	if err := s.Posts.IncrementCounter(ctx, postID, domain.CounterLikes, 1); err != nil {
		return err
	}

	liker, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.Notifier.Notify(ctx, NotifyParams{
		RecipientID:   post.AuthorID,
		SenderID:      userID,
		Type:          domain.NotificationLike,
		Message:       fmt.Sprintf("%s liked your post", displayOrUsername(liker)),
		ReferenceID:   like.PostID,
		ReferenceType: "post",
	})
}

// Unlike is idempotent: the counter only moves when a like row actually
// went away.
func (s *PostsService) Unlike(ctx context.Context, postID, userID string) error {
	deleted, err := s.Posts.DeleteLike(ctx, postID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return nil
	}
	return s.Posts.IncrementCounter(ctx, postID, domain.CounterLikes, -1)
}

// Share creates a new post referencing the original; content and media
// are not copied.
func (s *PostsService) Share(ctx context.Context, postID, userID, comment string) (domain.FeedPost, error) {
	original, err := s.Posts.GetPost(ctx, postID)
	if err != nil {
		return domain.FeedPost{}, err
	}

	created, err := s.Posts.CreatePost(ctx, userID, strings.TrimSpace(comment), original.Category, domain.PrivacyPublic, nil, original.ID)
	if err != nil {
		return domain.FeedPost{}, err
	}
	if err := s.Posts.IncrementCounter(ctx, original.ID, domain.CounterShares, 1); err != nil {
		return domain.FeedPost{}, err
	}
	return s.Posts.GetPost(ctx, created.ID)
}

func (s *PostsService) Delete(ctx context.Context, postID, userID string) error {
	post, err := s.Posts.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return domain.ErrForbidden
	}
	return s.Posts.DeletePost(ctx, postID)
}

func (s *PostsService) CreateComment(ctx context.Context, postID, userID, content string) (domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Comment{}, domain.NewValidationError(map[string]string{"content": "required"})
	}

	post, err := s.Posts.GetPost(ctx, postID)
	if err != nil {
		return domain.Comment{}, err
	}

	comment, err := s.Comments.CreateComment(ctx, postID, userID, content)
	if err != nil {
		return domain.Comment{}, err
	}
	if err := s.Posts.IncrementCounter(ctx, postID, domain.CounterComments, 1); err != nil {
		return domain.Comment{}, err
	}

	commenter, err := s.Users.GetUserByID(ctx, userID)
	if err != nil {
		return domain.Comment{}, err
	}
	err = s.Notifier.Notify(ctx, NotifyParams{
		RecipientID:   post.AuthorID,
		SenderID:      userID,
		Type:          domain.NotificationComment,
		Message:       fmt.Sprintf("%s commented on your post", displayOrUsername(commenter)),
		ReferenceID:   postID,
		ReferenceType: "post",
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}

func (s *PostsService) ListComments(ctx context.Context, postID string) ([]domain.CommentWithUser, error) {
	if _, err := s.Posts.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.Comments.ListComments(ctx, postID)
}
