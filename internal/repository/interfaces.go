package repository

import (
	"context"

	"github.com/blog-publishing-api/internal/models"
)

// Stores return apperr values for not-found and duplicate-identity cases so
// callers never have to inspect driver errors.

type Users interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	// GetByEmail matches case-insensitively.
	GetByEmail(ctx context.Context, email string) (models.User, error)
	// ExistsByIdentity reports whether a user with the username (exact) or
	// email (case-insensitive) already exists.
	ExistsByIdentity(ctx context.Context, username, email string) (bool, error)
	List(ctx context.Context) ([]models.User, error)
	SetAdmin(ctx context.Context, id string, isAdmin bool) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type Posts interface {
	Create(ctx context.Context, p models.Post) (models.Post, error)
	GetByID(ctx context.Context, id string) (models.Post, error)
	// List returns a page ordered newest-first plus the unpaged total.
	List(ctx context.Context, limit, offset int) ([]models.Post, int64, error)
	Update(ctx context.Context, id string, upd models.PostUpdate) (models.Post, error)
	// DeleteCascade removes the post and every comment referencing it in a
	// single transaction.
	DeleteCascade(ctx context.Context, id string) error
}

type Comments interface {
	Create(ctx context.Context, c models.Comment) (models.Comment, error)
	GetByID(ctx context.Context, id string) (models.Comment, error)
	// List filters by postID when non-empty.
	List(ctx context.Context, postID string, limit, offset int) ([]models.Comment, int64, error)
	UpdateContent(ctx context.Context, id, content string) (models.Comment, error)
	Delete(ctx context.Context, id string) error
	CountByPost(ctx context.Context, postID string) (int64, error)
}

type AuditLogs interface {
	Create(ctx context.Context, l models.AuditLog) error
}
