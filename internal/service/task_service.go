package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"tasktracker/internal/domain"
	"tasktracker/internal/repository"
)

// TaskService applies ownership and status rules on top of the task store.
//
// Lookups that miss, whether the task does not exist or belongs to someone
// else, are reported as a nil task with a nil error so callers cannot tell
// the two apart.
type TaskService interface {
	List(ctx context.Context, identity domain.Identity, filter domain.TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, identity domain.Identity, title string) (*domain.Task, error)
	Complete(ctx context.Context, identity domain.Identity, taskID string) (*domain.Task, error)
	Delete(ctx context.Context, identity domain.Identity, taskID string) (*domain.Task, error)
	Counts(ctx context.Context, identity domain.Identity) (domain.TaskCounts, error)
}

type taskService struct {
	tasks repository.TaskRepository
}

func NewTaskService(tasks repository.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

func (s *taskService) List(ctx context.Context, identity domain.Identity, filter domain.TaskFilter) ([]domain.Task, error) {
	if !identity.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	return s.tasks.ListByOwner(ctx, identity.UserID, domain.ParseTaskFilter(string(filter)).Statuses()...)
}

func (s *taskService) Create(ctx context.Context, identity domain.Identity, title string) (*domain.Task, error) {
	if !identity.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(title) > domain.TitleMaxLength {
		return nil, domain.ErrInvalidTitle
	}

	task := &domain.Task{
		ID:      uuid.NewString(),
		Title:   title,
		Status:  domain.TaskStatusPending,
		OwnerID: identity.UserID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Complete marks the task completed. It does not guard against a task that
// was already deleted; that transition is currently permitted.
func (s *taskService) Complete(ctx context.Context, identity domain.Identity, taskID string) (*domain.Task, error) {
	return s.transition(ctx, identity, taskID, domain.TaskStatusCompleted)
}

func (s *taskService) Delete(ctx context.Context, identity domain.Identity, taskID string) (*domain.Task, error) {
	return s.transition(ctx, identity, taskID, domain.TaskStatusDeleted)
}

func (s *taskService) Counts(ctx context.Context, identity domain.Identity) (domain.TaskCounts, error) {
	if !identity.Authenticated() {
		return domain.TaskCounts{}, domain.ErrUnauthenticated
	}
	byStatus, err := s.tasks.CountByStatus(ctx, identity.UserID)
	if err != nil {
		return domain.TaskCounts{}, err
	}
	return domain.TaskCounts{
		Pending:   byStatus[domain.TaskStatusPending],
		Completed: byStatus[domain.TaskStatusCompleted],
	}, nil
}

func (s *taskService) transition(ctx context.Context, identity domain.Identity, taskID string, status domain.TaskStatus) (*domain.Task, error) {
	if !identity.Authenticated() {
		return nil, domain.ErrUnauthenticated
	}
	taskID = strings.TrimSpace(taskID)
	if taskID == "" {
		return nil, nil
	}

	if err := s.tasks.UpdateStatusForOwner(ctx, identity.UserID, taskID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	task, err := s.tasks.GetForOwner(ctx, identity.UserID, taskID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return task, nil
}
