package repository

import (
	"context"

	"app/internal/domain/model"
)

type AuditLogFilter struct {
	ActorUserID *int64
	Action      string
	Limit       int
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
