package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blog-publishing-api/internal/api"
	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/config"
	"github.com/blog-publishing-api/internal/db"
	"github.com/blog-publishing-api/internal/logger"
	"github.com/blog-publishing-api/internal/metrics"
	"github.com/blog-publishing-api/internal/middleware"
	"github.com/blog-publishing-api/internal/repository/postgres"
	"github.com/blog-publishing-api/internal/services"
	"github.com/blog-publishing-api/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	aud := services.NewAuditor(repos.AuditLogs, wp)
	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userSvc := services.NewUserService(repos.Users, tm, cfg.BcryptCost, aud)
	postSvc := services.NewPostService(repos.Posts, aud)
	commentSvc := services.NewCommentService(repos.Comments, repos.Posts, aud)

	if err := userSvc.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Warn("admin bootstrap", "err", err)
	}

	am := middleware.NewAuthMiddleware(tm, userSvc)
	r := api.NewRouter(cfg, userSvc, postSvc, commentSvc, am)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
