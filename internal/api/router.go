package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/blog-publishing-api/internal/api/handlers"
	"github.com/blog-publishing-api/internal/config"
	"github.com/blog-publishing-api/internal/metrics"
	"github.com/blog-publishing-api/internal/middleware"
	"github.com/blog-publishing-api/internal/services"
)

func NewRouter(cfg config.Config, us *services.UserService, ps *services.PostService, cs *services.CommentService, am *middleware.AuthMiddleware) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.HTTPMetrics, middleware.RateLimit(cfg.RateRPS))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("ok")) })
	r.Handle("/metrics", metrics.Handler())

	ah := handlers.NewAuthHandler(us)
	ph := handlers.NewPostHandler(ps)
	ch := handlers.NewCommentHandler(cs)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", ah.Register)
			r.Post("/login", ah.Login)

			// user management, admins only
			r.Group(func(r chi.Router) {
				r.Use(am.Require, middleware.RequireAdmin)
				r.Get("/all-users", ah.AllUsers)
				r.Delete("/delete/{id}", ah.DeleteUser)
				r.Get("/count", ah.Count)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			// public reads
			r.Get("/", ph.List)
			r.Get("/{id}", ph.Get)

			r.Group(func(r chi.Router) {
				r.Use(am.Require)
				r.Post("/", ph.Create)
				r.Put("/{id}", ph.Update)
				r.Delete("/{id}", ph.Delete)
			})
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/", ch.List)
			r.Get("/{id}", ch.Get)

			r.Group(func(r chi.Router) {
				r.Use(am.Require)
				r.Post("/", ch.Create)
				r.Put("/{id}", ch.Update)
				r.Delete("/{id}", ch.Delete)
			})
		})
	})

	return r
}
