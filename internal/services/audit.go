package services

import (
	"context"
	"log/slog"

	"github.com/blog-publishing-api/internal/auth"
	"github.com/blog-publishing-api/internal/models"
	repo "github.com/blog-publishing-api/internal/repository"
	"github.com/blog-publishing-api/internal/worker"
)

// Auditor records mutation events off the request path. Failures are logged
// and never surfaced to the caller.
type Auditor struct {
	logs repo.AuditLogs
	wp   *worker.Pool
}

func NewAuditor(logs repo.AuditLogs, wp *worker.Pool) *Auditor {
	return &Auditor{logs: logs, wp: wp}
}

func (a *Auditor) Record(entityType, entityID string, actor auth.Subject, action string, details map[string]any) {
	if a == nil || a.logs == nil {
		return
	}
	l := models.AuditLog{
		EntityType: entityType,
		Action:     action,
		Details:    details,
	}
	if entityID != "" {
		l.EntityID = &entityID
	}
	if actor.Authenticated() {
		id := actor.ID
		l.ActorID = &id
	}
	write := func() {
		if err := a.logs.Create(context.Background(), l); err != nil {
			slog.Error("audit write failed", "action", action, "err", err)
		}
	}
	if a.wp != nil {
		a.wp.Submit(write)
		return
	}
	write()
}
