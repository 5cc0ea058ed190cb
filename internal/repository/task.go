package repository

import (
	"context"

	"tasktracker/internal/domain"
)

// TaskRepository exposes persistence operations for Task aggregates. Every
// read and write is scoped to an owner; a task belonging to someone else is
// indistinguishable from one that does not exist.
type TaskRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, task *domain.Task) error
	GetForOwner(ctx context.Context, ownerID, id string) (*domain.Task, error)
	UpdateStatusForOwner(ctx context.Context, ownerID, id string, status domain.TaskStatus) error
	ListByOwner(ctx context.Context, ownerID string, statuses ...domain.TaskStatus) ([]domain.Task, error)
	CountByStatus(ctx context.Context, ownerID string) (map[domain.TaskStatus]int, error)
}
