package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/blog-publishing-api/internal/api/httpx"
	"github.com/blog-publishing-api/internal/apperr"
	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/metrics"
)

type ctxKey string

const ctxSubjectKey ctxKey = "subject"

// SubjectFrom returns the authenticated subject, or the anonymous subject
// when the request carried no (valid) token.
func SubjectFrom(ctx context.Context) auth.Subject {
	if s, ok := ctx.Value(ctxSubjectKey).(auth.Subject); ok {
		return s
	}
	return auth.Anonymous
}

// SubjectResolver turns a verified token's user id into a live subject;
// implemented by the user service so deleted users lose access immediately.
type SubjectResolver interface {
	Subject(ctx context.Context, userID string) (auth.Subject, error)
}

type AuthMiddleware struct {
	TM       *auth.TokenManager
	Resolver SubjectResolver
}

func NewAuthMiddleware(tm *auth.TokenManager, r SubjectResolver) *AuthMiddleware {
	return &AuthMiddleware{TM: tm, Resolver: r}
}

// Require rejects requests without a valid bearer token; expired and
// malformed tokens both yield 401 but with distinct messages.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ah := r.Header.Get("Authorization")
		if ah == "" || !strings.HasPrefix(strings.ToLower(ah), "bearer ") {
			httpx.Error(w, apperr.Unauthenticated("missing bearer token"))
			return
		}
		token := strings.TrimSpace(ah[len("Bearer "):])

		uid, err := m.TM.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				metrics.AuthFailures.WithLabelValues("token_expired").Inc()
				httpx.Error(w, apperr.Unauthenticated("token expired"))
				return
			}
			metrics.AuthFailures.WithLabelValues("token_invalid").Inc()
			httpx.Error(w, apperr.Unauthenticated("invalid token"))
			return
		}

		sub, err := m.Resolver.Subject(r.Context(), uid)
		if err != nil {
			httpx.Error(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), ctxSubjectKey, sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates the user-management surface. It runs after Require, so
// an unauthenticated request never reaches it.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.CanManageUsers(SubjectFrom(r.Context())) {
			httpx.Error(w, apperr.Forbidden("access denied: admins only"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
