// Package service implements the task rules on top of a store.Store:
// validation and defaults on create, permissive updates, status toggling.
package service

import (
	"context"
	"fmt"
	"time"

	"task-manager/models"
	"task-manager/store"
)

// ErrNotFound is returned when the targeted task does not exist.
var ErrNotFound = store.ErrNotFound

// ValidationError rejects client input before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TaskService holds no state of its own; the store is the only shared
// resource, and concurrent writers follow last-write-wins.
type TaskService struct {
	store store.Store
	now   func() time.Time
}

type Option func(*TaskService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) { s.now = now }
}

func New(st store.Store, opts ...Option) *TaskService {
	s := &TaskService{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// timestamps are kept at millisecond precision, the coarsest of the backends
func (s *TaskService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// List returns tasks newest first. A filter other than Pending or
// Completed is ignored.
func (s *TaskService) List(ctx context.Context, filter models.Status) ([]models.Task, error) {
	if !filter.Valid() {
		filter = ""
	}
	return s.store.List(ctx, filter)
}

func (s *TaskService) Get(ctx context.Context, id string) (*models.Task, error) {
	return s.store.Get(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	in = in.Normalize()
	if in.Title == "" {
		return nil, &ValidationError{Field: "title", Message: "title required"}
	}
	if !in.Priority.Valid() {
		return nil, &ValidationError{Field: "priority", Message: "Invalid priority"}
	}
	if !in.Status.Valid() {
		return nil, &ValidationError{Field: "status", Message: "Invalid status"}
	}

	now := s.timestamp()
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		DueDate:     truncate(in.DueDate.Ptr()),
		Priority:    in.Priority,
		Category:    in.Category,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.Insert(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update overwrites whatever fields the patch carries. Values are stored
// as given.
func (s *TaskService) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	return s.mutate(ctx, id, func(t *models.Task) {
		patch.Apply(t)
		t.DueDate = truncate(t.DueDate)
		t.CreatedAt = t.CreatedAt.UTC().Truncate(time.Millisecond)
	})
}

func (s *TaskService) Toggle(ctx context.Context, id string) (*models.Task, error) {
	return s.mutate(ctx, id, func(t *models.Task) {
		t.Status = t.Status.Toggled()
	})
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

func (s *TaskService) mutate(ctx context.Context, id string, fn func(*models.Task)) (*models.Task, error) {
	task, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	fn(task)
	task.ID = id
	task.UpdatedAt = s.timestamp()
	if err := s.store.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func truncate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC().Truncate(time.Millisecond)
	return &v
}
