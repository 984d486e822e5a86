package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/Avengers-Limited/CampusLinkv2-sub001/internal/domain"
)

type authCtxKey int

const authUserIDKey authCtxKey = iota

// TokenVerifier is the authentication boundary this API consumes: a bearer
// token either yields an opaque user id or it does not.
type TokenVerifier interface {
	UserID(token string) (string, bool)
}

func (a *api) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(raw, "Bearer ")
		if !ok || token == "" {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}

		userID, ok := a.tokens.UserID(token)
		if !ok {
			WriteDomainError(w, domain.ErrUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), authUserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(authUserIDKey).(string)
	return id, ok
}
