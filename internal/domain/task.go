package domain

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusDeleted   TaskStatus = "deleted"
)

// TitleMaxLength is measured in runes.
const TitleMaxLength = 200

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID        string
	Title     string
	Status    TaskStatus
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TaskFilter selects which statuses a listing returns.
type TaskFilter string

const (
	TaskFilterAll       TaskFilter = "all"
	TaskFilterPending   TaskFilter = "pending"
	TaskFilterCompleted TaskFilter = "completed"
)

// ParseTaskFilter maps a raw query value to a filter. Anything unrecognised
// falls back to TaskFilterAll.
func ParseTaskFilter(raw string) TaskFilter {
	switch TaskFilter(strings.ToLower(strings.TrimSpace(raw))) {
	case TaskFilterPending:
		return TaskFilterPending
	case TaskFilterCompleted:
		return TaskFilterCompleted
	default:
		return TaskFilterAll
	}
}

// Statuses returns the visible statuses for the filter. Deleted tasks are
// never visible through a listing.
func (f TaskFilter) Statuses() []TaskStatus {
	switch f {
	case TaskFilterPending:
		return []TaskStatus{TaskStatusPending}
	case TaskFilterCompleted:
		return []TaskStatus{TaskStatusCompleted}
	default:
		return []TaskStatus{TaskStatusPending, TaskStatusCompleted}
	}
}

// TaskCounts summarises a user's visible tasks.
type TaskCounts struct {
	Pending   int
	Completed int
}

func (c TaskCounts) All() int {
	return c.Pending + c.Completed
}
