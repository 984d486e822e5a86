package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/auth"
	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/service"
)

func testRouter(t *testing.T, tokens TokenVerifier, users service.UsersStore) http.Handler {
	t.Helper()
	return NewRouter(RouterOpts{
		Tokens:        tokens,
		Auth:          &service.AuthService{Users: users},
		Users:         &service.UsersService{Users: users},
		Connections:   &service.ConnectionsService{Users: users},
		Posts:         &service.PostsService{Users: users},
		Messages:      &service.MessagesService{Users: users},
		Notifications: &service.NotificationService{},
		Stories:       &service.StoriesService{},
	})
}

func TestRouterRequiresBearerToken(t *testing.T) {
	codec := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	h := testRouter(t, codec, &stubUsersStore{t: t})

	req := httptest.NewRequest(http.MethodGet, "/notifications", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d body %s", rr.Code, rr.Body.String())
	}
	if env := decodeError(t, rr); env.Code != "unauthorized" {
		t.Fatalf("unexpected error body: %+v", env)
	}
}

func TestRouterAcceptsValidToken(t *testing.T) {
	codec := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	token, err := codec.Issue(testUser1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	users := &stubUsersStore{
		t: t,
		getByIDFunc: func(_ context.Context, id string) (domain.User, error) {
			if id != testUser1 {
				t.Fatalf("unexpected user id: %s", id)
			}
			return domain.User{ID: id, Username: "alice"}, nil
		},
	}
	h := testRouter(t, codec, users)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body %s", rr.Code, rr.Body.String())
	}
}

func TestRouterRejectsExpiredToken(t *testing.T) {
	issuer := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), -time.Hour)
	token, err := issuer.Issue(testUser1)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	codec := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	h := testRouter(t, codec, &stubUsersStore{t: t})

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d body %s", rr.Code, rr.Body.String())
	}
}

func TestRouterUnknownPathIsJSON(t *testing.T) {
	codec := auth.NewTokenCodec([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	h := testRouter(t, codec, &stubUsersStore{t: t})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rr.Code)
	}
	if env := decodeError(t, rr); env.Code != "not_found" {
		t.Fatalf("unexpected error body: %+v", env)
	}
}

func TestRouterHealthz(t *testing.T) {
	down := errors.New("down")
	for _, tc := range []struct {
		name   string
		ping   func(context.Context) error
		status int
		body   string
	}{
		{"no db wired", nil, http.StatusOK, "ok"},
		{"db up", func(context.Context) error { return nil }, http.StatusOK, "ok"},
		{"db down", func(context.Context) error { return down }, http.StatusServiceUnavailable, "db down"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			h := NewRouter(RouterOpts{
				DBPing: tc.ping,
				Auth:   &service.AuthService{},
			})

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tc.status {
				t.Fatalf("unexpected status: %d", rr.Code)
			}
			body, _ := io.ReadAll(rr.Body)
			if string(body) != tc.body {
				t.Fatalf("unexpected body: %q", body)
			}
		})
	}
}
