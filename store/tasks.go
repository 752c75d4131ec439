package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"task-manager/models"
)

const taskColumns = `id, title, description, due_date, priority, category, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	var task models.Task
	var due sql.NullTime
	err := row.Scan(&task.ID, &task.Title, &task.Description, &due,
		&task.Priority, &task.Category, &task.Status, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if due.Valid {
		t := due.Time.UTC()
		task.DueDate = &t
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()
	return &task, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// Insert adds a new row and assigns the task a UUID.
func (s *SQL) Insert(ctx context.Context, task *models.Task) error {
	query := `
	INSERT INTO tasks (` + taskColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, s.dialect.rebind(query),
		id, task.Title, task.Description, nullTime(task.DueDate),
		string(task.Priority), task.Category, string(task.Status),
		task.CreatedAt.UTC(), task.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	task.ID = id
	return nil
}

// List retrieves tasks newest first, optionally restricted to one status.
func (s *SQL) List(ctx context.Context, status models.Status) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY ` + s.dialect.orderBy

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// Get retrieves a single task by ID.
func (s *SQL) Get(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	task, err := scanTask(s.db.QueryRowContext(ctx, s.dialect.rebind(query), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// Save overwrites every column of an existing task.
func (s *SQL) Save(ctx context.Context, task *models.Task) error {
	query := `
	UPDATE tasks
	SET title = ?, description = ?, due_date = ?, priority = ?, category = ?,
		status = ?, created_at = ?, updated_at = ?
	WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, s.dialect.rebind(query),
		task.Title, task.Description, nullTime(task.DueDate), string(task.Priority),
		task.Category, string(task.Status), task.CreatedAt.UTC(), task.UpdatedAt.UTC(), task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireRow(result)
}

// Delete deletes a task by ID.
func (s *SQL) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
