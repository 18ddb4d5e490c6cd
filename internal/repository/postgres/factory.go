package postgres

import (
	repo "github.com/blog-publishing-api/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users     repo.Users
	Posts     repo.Posts
	Comments  repo.Comments
	AuditLogs repo.AuditLogs
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:     &usersRepo{pool},
		Posts:     &postsRepo{pool},
		Comments:  &commentsRepo{pool},
		AuditLogs: &auditLogsRepo{pool},
	}
}
