package client

import (
	"context"
	"strings"
	"time"

	"task-manager/models"
)

// Filter selects which tasks the Board asks the data source for.
type Filter string

const (
	FilterAll       Filter = "All"
	FilterPending   Filter = "Pending"
	FilterCompleted Filter = "Completed"
)

// Next cycles All, Pending, Completed.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterPending
	case FilterPending:
		return FilterCompleted
	}
	return FilterAll
}

func (f Filter) status() models.Status {
	if f == FilterAll {
		return ""
	}
	return models.Status(f)
}

// Summary counts are derived from the last fetched list.
type Summary struct {
	Total     int
	Pending   int
	Completed int
}

// Form is the add/edit form as the user typed it. DueDate uses the
// YYYY-MM-DD layout of a date input.
type Form struct {
	ID          string
	Title       string
	Description string
	DueDate     string
	Priority    models.Priority
	Category    string
	Status      models.Status
}

// EmptyForm is a fresh add form.
func EmptyForm() Form {
	return Form{Priority: models.PriorityMedium, Status: models.StatusPending}
}

// FormFromTask fills the form for editing t.
func FormFromTask(t models.Task) Form {
	f := Form{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Category:    t.Category,
		Status:      t.Status,
	}
	if t.DueDate != nil {
		f.DueDate = t.DueDate.Format("2006-01-02")
	}
	if f.Priority == "" {
		f.Priority = models.PriorityMedium
	}
	if f.Status == "" {
		f.Status = models.StatusPending
	}
	return f
}

// Editing reports whether the form targets an existing task.
func (f Form) Editing() bool { return f.ID != "" }

// Board is the view-model shared by every front end. It holds the active
// filter and the last fetched tasks, and refetches after each mutation.
type Board struct {
	src    DataSource
	filter Filter
	tasks  []models.Task
}

func NewBoard(src DataSource) *Board {
	return &Board{src: src, filter: FilterAll, tasks: []models.Task{}}
}

func (b *Board) Filter() Filter { return b.filter }

// Tasks returns the last fetched list.
func (b *Board) Tasks() []models.Task { return b.tasks }

func (b *Board) Summary() Summary {
	s := Summary{Total: len(b.tasks)}
	for _, t := range b.tasks {
		switch t.Status {
		case models.StatusPending:
			s.Pending++
		case models.StatusCompleted:
			s.Completed++
		}
	}
	return s
}

// Refresh refetches the list for the current filter. On error the
// previous list is kept.
func (b *Board) Refresh(ctx context.Context) error {
	tasks, err := b.src.List(ctx, b.filter.status())
	if err != nil {
		return err
	}
	b.tasks = tasks
	return nil
}

func (b *Board) SetFilter(ctx context.Context, f Filter) error {
	b.filter = f
	return b.Refresh(ctx)
}

// Submit creates or updates a task from the form. A blank title is
// rejected before anything is sent.
func (b *Board) Submit(ctx context.Context, f Form) error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return &APIError{Status: 400, Message: "Title is required"}
	}
	due, err := formDueDate(f.DueDate)
	if err != nil {
		return &APIError{Status: 400, Message: "Invalid due date"}
	}
	description := strings.TrimSpace(f.Description)
	category := strings.TrimSpace(f.Category)

	if f.Editing() {
		priority, status := f.Priority, f.Status
		_, err = b.src.Update(ctx, f.ID, models.TaskPatch{
			Title:       &title,
			Description: &description,
			DueDate:     due,
			Priority:    &priority,
			Category:    &category,
			Status:      &status,
		})
	} else {
		_, err = b.src.Create(ctx, models.TaskInput{
			Title:       title,
			Description: description,
			DueDate:     due,
			Priority:    f.Priority,
			Category:    category,
			Status:      f.Status,
		})
	}
	if err != nil {
		return err
	}
	return b.Refresh(ctx)
}

func (b *Board) Toggle(ctx context.Context, id string) error {
	if _, err := b.src.Toggle(ctx, id); err != nil {
		return err
	}
	return b.Refresh(ctx)
}

func (b *Board) Remove(ctx context.Context, id string) error {
	if err := b.src.Delete(ctx, id); err != nil {
		return err
	}
	return b.Refresh(ctx)
}

// formDueDate maps an empty input to an explicit null.
func formDueDate(s string) (models.NullTime, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.NullTime{Set: true}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return models.NullTime{}, err
	}
	return models.NewNullTime(t), nil
}
