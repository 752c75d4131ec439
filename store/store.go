// Package store persists task records. Each backend implements Store; the
// service layer never talks to a driver directly.
package store

import (
	"context"
	"errors"
	"sort"

	"task-manager/models"
)

// ErrNotFound is returned when no task has the requested id.
var ErrNotFound = errors.New("task not found")

// Store is the persistence contract shared by every backend.
type Store interface {
	// Insert persists a new task and assigns its ID.
	Insert(ctx context.Context, task *models.Task) error
	// List returns tasks newest first. An empty status means all tasks.
	List(ctx context.Context, status models.Status) ([]models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	// Save replaces the stored task with the same ID.
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// sortNewestFirst orders tasks by creation time, newest first. The sort is
// stable so callers that pass most-recently-inserted first keep that order
// for equal timestamps.
func sortNewestFirst(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
}

func cloneTask(t models.Task) models.Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

func matches(t models.Task, status models.Status) bool {
	return status == "" || t.Status == status
}
