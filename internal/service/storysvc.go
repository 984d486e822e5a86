package service

import (
	"context"
	"strings"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type StoriesStore interface {
	CreateStory(ctx context.Context, userID, content, imageURL string, expiresAt time.Time) (domain.Story, error)
	GetActiveStory(ctx context.Context, id string, now time.Time) (domain.Story, error)
	ListActiveStories(ctx context.Context, now time.Time) ([]domain.StoryWithUser, error)
	IncrementViews(ctx context.Context, id string) error
}

const storyTTL = 24 * time.Hour

type StoriesService struct {
	Stories StoriesStore
	Now     func() time.Time
}

func (s *StoriesService) Create(ctx context.Context, userID, content, imageURL string) (domain.Story, error) {
	content = strings.TrimSpace(content)
	imageURL = strings.TrimSpace(imageURL)
	if content == "" && imageURL == "" {
		return domain.Story{}, domain.NewValidationError(map[string]string{"content": "content or image required"})
	}
	return s.Stories.CreateStory(ctx, userID, content, imageURL, s.now().Add(storyTTL))
}

func (s *StoriesService) ListActive(ctx context.Context) ([]domain.StoryWithUser, error) {
	return s.Stories.ListActiveStories(ctx, s.now())
}

// View counts one view per call, atomically at the store. Viewing your own
// story does not count.
func (s *StoriesService) View(ctx context.Context, storyID, viewerID string) error {
	story, err := s.Stories.GetActiveStory(ctx, storyID, s.now())
	if err != nil {
		return err
	}
	if story.UserID == viewerID {
		return nil
	}
	return s.Stories.IncrementViews(ctx, storyID)
}

func (s *StoriesService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
