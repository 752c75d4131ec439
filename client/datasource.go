// Package client is the presentation side of the task manager: a data
// source abstraction with REST and local-file implementations, and the
// Board view-model the terminal UI renders.
package client

import (
	"context"

	"task-manager/models"
	"task-manager/service"
)

// DataSource is everything the Board needs from a task backend.
type DataSource interface {
	List(ctx context.Context, filter models.Status) ([]models.Task, error)
	Create(ctx context.Context, in models.TaskInput) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	Toggle(ctx context.Context, id string) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

var (
	_ DataSource = (*REST)(nil)
	_ DataSource = (*service.TaskService)(nil)
)
