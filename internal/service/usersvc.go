package service

import (
	"context"
	"strings"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

const searchLimit = 20

type UsersService struct {
	Users UsersStore
}

func (s *UsersService) Search(ctx context.Context, viewerID, query string) ([]domain.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError(map[string]string{"q": "required"})
	}
	return s.Users.SearchUsers(ctx, viewerID, query, searchLimit)
}

func (s *UsersService) Get(ctx context.Context, id string) (domain.UserSummary, error) {
	u, err := s.Users.GetUserByID(ctx, id)
	if err != nil {
		return domain.UserSummary{}, err
	}
	return u.Summary(), nil
}
