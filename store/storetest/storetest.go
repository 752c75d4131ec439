// Package storetest holds the behaviour every store.Store backend must share.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"task-manager/models"
	"task-manager/store"
)

// Factory returns an empty store. It should register its own cleanup.
type Factory func(t *testing.T) store.Store

var base = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func newTask(title string, status models.Status, createdAt time.Time) *models.Task {
	return &models.Task{
		Title:     title,
		Priority:  models.PriorityMedium,
		Status:    status,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func insert(t *testing.T, s store.Store, task *models.Task) *models.Task {
	t.Helper()
	if err := s.Insert(context.Background(), task); err != nil {
		t.Fatalf("Insert(%q) error = %v", task.Title, err)
	}
	return task
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func assertTitles(t *testing.T, got []models.Task, want ...string) {
	t.Helper()
	g := titles(got)
	if len(g) != len(want) {
		t.Fatalf("titles = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("titles = %v, want %v", g, want)
		}
	}
}

// Run executes the shared suite against stores built by newStore.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()

	t.Run("EmptyList", func(t *testing.T) {
		s := newStore(t)
		tasks, err := s.List(ctx, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("List() = %#v, want empty non-nil slice", tasks)
		}
	})

	t.Run("InsertAssignsID", func(t *testing.T) {
		s := newStore(t)
		due := base.Add(48 * time.Hour)
		a := newTask("Buy milk", models.StatusPending, base)
		a.Description = "2 liters"
		a.Category = "Errands"
		a.Priority = models.PriorityHigh
		a.DueDate = &due
		insert(t, s, a)
		b := insert(t, s, newTask("Walk dog", models.StatusPending, base))

		if a.ID == "" || b.ID == "" {
			t.Fatalf("ids not assigned: %q %q", a.ID, b.ID)
		}
		if a.ID == b.ID {
			t.Fatalf("duplicate id %q", a.ID)
		}

		got, err := s.Get(ctx, a.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Title != "Buy milk" || got.Description != "2 liters" || got.Category != "Errands" {
			t.Errorf("Get() = %+v", got)
		}
		if got.Priority != models.PriorityHigh || got.Status != models.StatusPending {
			t.Errorf("enums = %s/%s", got.Priority, got.Status)
		}
		if got.DueDate == nil || !got.DueDate.Equal(due) {
			t.Errorf("DueDate = %v, want %v", got.DueDate, due)
		}
		if !got.CreatedAt.Equal(base) || !got.UpdatedAt.Equal(base) {
			t.Errorf("timestamps = %v/%v, want %v", got.CreatedAt, got.UpdatedAt, base)
		}
	})

	t.Run("NewestFirst", func(t *testing.T) {
		s := newStore(t)
		insert(t, s, newTask("middle", models.StatusPending, base.Add(time.Minute)))
		insert(t, s, newTask("oldest", models.StatusPending, base))
		insert(t, s, newTask("newest", models.StatusCompleted, base.Add(2*time.Minute)))

		tasks, err := s.List(ctx, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		assertTitles(t, tasks, "newest", "middle", "oldest")
	})

	t.Run("TiesNewestInsertFirst", func(t *testing.T) {
		s := newStore(t)
		insert(t, s, newTask("first", models.StatusPending, base))
		insert(t, s, newTask("second", models.StatusPending, base))
		insert(t, s, newTask("third", models.StatusPending, base))

		tasks, err := s.List(ctx, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		assertTitles(t, tasks, "third", "second", "first")
	})

	t.Run("FilterByStatus", func(t *testing.T) {
		s := newStore(t)
		insert(t, s, newTask("a", models.StatusPending, base))
		insert(t, s, newTask("b", models.StatusCompleted, base.Add(time.Minute)))
		insert(t, s, newTask("c", models.StatusPending, base.Add(2*time.Minute)))

		pending, err := s.List(ctx, models.StatusPending)
		if err != nil {
			t.Fatalf("List(Pending) error = %v", err)
		}
		assertTitles(t, pending, "c", "a")

		completed, err := s.List(ctx, models.StatusCompleted)
		if err != nil {
			t.Fatalf("List(Completed) error = %v", err)
		}
		assertTitles(t, completed, "b")
	})

	t.Run("SaveReplaces", func(t *testing.T) {
		s := newStore(t)
		due := base.Add(24 * time.Hour)
		task := newTask("draft", models.StatusPending, base)
		task.DueDate = &due
		insert(t, s, task)

		updated := *task
		updated.Title = "final"
		updated.Status = models.StatusCompleted
		updated.DueDate = nil
		updated.UpdatedAt = base.Add(time.Hour)
		if err := s.Save(ctx, &updated); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		got, err := s.Get(ctx, task.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.Title != "final" || got.Status != models.StatusCompleted {
			t.Errorf("Get() = %+v", got)
		}
		if got.DueDate != nil {
			t.Errorf("DueDate = %v, want nil", got.DueDate)
		}
		if !got.UpdatedAt.Equal(base.Add(time.Hour)) {
			t.Errorf("UpdatedAt = %v", got.UpdatedAt)
		}
		if got.ID != task.ID {
			t.Errorf("ID changed: %q -> %q", task.ID, got.ID)
		}
	})

	t.Run("SaveCanMoveCreatedAt", func(t *testing.T) {
		s := newStore(t)
		old := insert(t, s, newTask("old", models.StatusPending, base))
		insert(t, s, newTask("new", models.StatusPending, base.Add(time.Minute)))

		moved := *old
		moved.CreatedAt = base.Add(time.Hour)
		if err := s.Save(ctx, &moved); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		tasks, err := s.List(ctx, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		assertTitles(t, tasks, "old", "new")
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		keep := insert(t, s, newTask("keep", models.StatusPending, base))
		drop := insert(t, s, newTask("drop", models.StatusPending, base.Add(time.Minute)))

		if err := s.Delete(ctx, drop.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := s.Get(ctx, drop.ID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("Get(deleted) error = %v, want ErrNotFound", err)
		}
		if err := s.Delete(ctx, drop.ID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}

		tasks, err := s.List(ctx, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		assertTitles(t, tasks, "keep")
		if tasks[0].ID != keep.ID {
			t.Errorf("remaining id = %q, want %q", tasks[0].ID, keep.ID)
		}
	})

	t.Run("UnknownIDs", func(t *testing.T) {
		s := newStore(t)
		insert(t, s, newTask("only", models.StatusPending, base))

		for _, id := range []string{"does-not-exist", "000000000000000000000000", "a/b"} {
			if _, err := s.Get(ctx, id); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("Get(%q) error = %v, want ErrNotFound", id, err)
			}
			task := newTask("ghost", models.StatusPending, base)
			task.ID = id
			if err := s.Save(ctx, task); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("Save(%q) error = %v, want ErrNotFound", id, err)
			}
			if err := s.Delete(ctx, id); !errors.Is(err, store.ErrNotFound) {
				t.Errorf("Delete(%q) error = %v, want ErrNotFound", id, err)
			}
		}

		tasks, err := s.List(ctx, "")
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		assertTitles(t, tasks, "only")
	})

	t.Run("Ping", func(t *testing.T) {
		s := newStore(t)
		if err := s.Ping(ctx); err != nil {
			t.Errorf("Ping() error = %v", err)
		}
	})
}

// Purge deletes every task in s. Backends that share state between test
// runs call it before handing the store to the suite.
func Purge(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	tasks, err := s.List(ctx, "")
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	for _, task := range tasks {
		if err := s.Delete(ctx, task.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
			t.Fatalf("purge %s: %v", task.ID, err)
		}
	}
}
