package middleware

import (
	"log/slog"
	"net/http"

	"github.com/blog-publishing-api/internal/api/httpx"
	"github.com/blog-publishing-api/internal/apperr"
)

func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic", "err", rec, "path", r.URL.Path)
				httpx.Error(w, apperr.Internal("internal server error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
