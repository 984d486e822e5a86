package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/auth"
	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type stubAuthUsersStore struct {
	createFunc  func(context.Context, string, string, string) (domain.User, error)
	byLoginFunc func(context.Context, string) (domain.UserWithPassword, error)
}

func (s *stubAuthUsersStore) CreateUser(ctx context.Context, email, username, passwordHash string) (domain.User, error) {
	if s.createFunc != nil {
		return s.createFunc(ctx, email, username, passwordHash)
	}
	return domain.User{}, errors.New("create user not stubbed")
}

func (s *stubAuthUsersStore) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return domain.User{}, errors.New("get user not stubbed")
}

func (s *stubAuthUsersStore) GetUserByLogin(ctx context.Context, login string) (domain.UserWithPassword, error) {
	if s.byLoginFunc != nil {
		return s.byLoginFunc(ctx, login)
	}
	return domain.UserWithPassword{}, errors.New("get by login not stubbed")
}

func (s *stubAuthUsersStore) SearchUsers(ctx context.Context, viewerID, query string, limit int) ([]domain.UserSummary, error) {
	return nil, errors.New("search not stubbed")
}

func testTokenCodec() *auth.TokenCodec {
	return auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
}

func TestAuthRegisterValidation(t *testing.T) {
	svc := &AuthService{Users: &stubAuthUsersStore{}, Tokens: testTokenCodec()}

	cases := []struct {
		name     string
		email    string
		username string
		password string
		field    string
	}{
		{"bad email", "not-an-email", "alice", "password123", "email"},
		{"short username", "alice@example.com", "al", "password123", "username"},
		{"short password", "alice@example.com", "alice", "short", "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.email, tc.username, tc.password)
			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Fatalf("expected field %q in %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestAuthRegisterIssuesToken(t *testing.T) {
	users := &stubAuthUsersStore{
		createFunc: func(_ context.Context, email, username, passwordHash string) (domain.User, error) {
			if email != "alice@example.com" {
				t.Fatalf("expected lowercased email, got %q", email)
			}
			if passwordHash == "password123" {
				t.Fatalf("password stored unhashed")
			}
			return domain.User{ID: "user-1", Email: email, Username: username}, nil
		},
	}
	codec := testTokenCodec()
	svc := &AuthService{Users: users, Tokens: codec}

	res, err := svc.Register(context.Background(), " Alice@Example.com ", "alice", "password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.User.ID != "user-1" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	id, ok := codec.UserID(res.Token)
	if !ok || id != "user-1" {
		t.Fatalf("token does not verify back to the user: %v %v", id, ok)
	}
}

func TestAuthLoginWrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := &stubAuthUsersStore{
		byLoginFunc: func(_ context.Context, login string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{
				User:         domain.User{ID: "user-1", Username: "alice"},
				PasswordHash: hash,
			}, nil
		},
	}
	svc := &AuthService{Users: users, Tokens: testTokenCodec()}

	_, err = svc.Login(context.Background(), "alice", "wrong-password")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthLoginUnknownUser(t *testing.T) {
	users := &stubAuthUsersStore{
		byLoginFunc: func(_ context.Context, login string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{}, domain.ErrNotFound
		},
	}
	svc := &AuthService{Users: users, Tokens: testTokenCodec()}

	// Unknown user and wrong password must be indistinguishable.
	_, err := svc.Login(context.Background(), "nobody", "password123")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestAuthLoginSuccess(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	users := &stubAuthUsersStore{
		byLoginFunc: func(_ context.Context, login string) (domain.UserWithPassword, error) {
			return domain.UserWithPassword{
				User:         domain.User{ID: "user-1", Username: "alice"},
				PasswordHash: hash,
			}, nil
		},
	}
	codec := testTokenCodec()
	svc := &AuthService{Users: users, Tokens: codec}

	res, err := svc.Login(context.Background(), "alice", "correct-horse")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id, ok := codec.UserID(res.Token); !ok || id != "user-1" {
		t.Fatalf("token does not verify back to the user: %v %v", id, ok)
	}
}
