package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/auth"
	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type UsersStore interface {
	CreateUser(ctx context.Context, email, username, passwordHash string) (domain.User, error)
	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error)
	SearchUsers(ctx context.Context, viewerID, query string, limit int) ([]domain.UserSummary, error)
}

type AuthService struct {
	Users  UsersStore
	Tokens *auth.TokenCodec
}

type AuthResult struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

func (s *AuthService) Register(ctx context.Context, email, username, password string) (AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	username = strings.TrimSpace(username)

	fields := map[string]string{}
	if _, err := mail.ParseAddress(email); email == "" || err != nil {
		fields["email"] = "must be a valid email address"
	}
	if len(username) < 3 || len(username) > 30 {
		fields["username"] = "must be 3-30 characters"
	}
	if len(password) < 8 {
		fields["password"] = "must be at least 8 characters"
	}
	if len(fields) > 0 {
		return AuthResult{}, domain.NewValidationError(fields)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return AuthResult{}, err
	}

	u, err := s.Users.CreateUser(ctx, email, username, hash)
	if err != nil {
		return AuthResult{}, err
	}

	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u, Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, login, password string) (AuthResult, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return AuthResult{}, domain.NewValidationError(map[string]string{"login": "required", "password": "required"})
	}

	u, err := s.Users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, domain.ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	ok, err := auth.VerifyPassword(u.PasswordHash, password)
	if err != nil || !ok {
		return AuthResult{}, domain.ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: u.User, Token: token}, nil
}

// GetUser resolves the opaque user id a verified token yields.
func (s *AuthService) GetUser(ctx context.Context, id string) (domain.User, error) {
	return s.Users.GetUserByID(ctx, id)
}
