package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"task-manager/models"
)

// Collection reads and writes the whole task list at once. Browser-style
// local storage and plain JSON files fit this shape.
type Collection interface {
	Get() ([]models.Task, error)
	Set(tasks []models.Task) error
}

// CollectionStore adapts a Collection to Store. Every call loads the full
// list and mutating calls write it back. Tasks are kept in insertion order.
type CollectionStore struct {
	mu sync.Mutex
	c  Collection
}

var _ Store = (*CollectionStore)(nil)

func NewCollectionStore(c Collection) *CollectionStore {
	return &CollectionStore{c: c}
}

func (s *CollectionStore) load() ([]models.Task, error) {
	tasks, err := s.c.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	return tasks, nil
}

func (s *CollectionStore) store(tasks []models.Task) error {
	if err := s.c.Set(tasks); err != nil {
		return fmt.Errorf("failed to write collection: %w", err)
	}
	return nil
}

func (s *CollectionStore) Insert(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return err
	}
	task.ID = uuid.NewString()
	tasks = append(tasks, cloneTask(*task))
	return s.store(tasks)
}

func (s *CollectionStore) List(_ context.Context, status models.Status) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	out := make([]models.Task, 0, len(tasks))
	for i := len(tasks) - 1; i >= 0; i-- {
		if matches(tasks[i], status) {
			out = append(out, cloneTask(tasks[i]))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *CollectionStore) Get(_ context.Context, id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, t := range tasks {
		if t.ID == id {
			t = cloneTask(t)
			return &t, nil
		}
	}
	return nil, ErrNotFound
}

func (s *CollectionStore) Save(_ context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == task.ID {
			tasks[i] = cloneTask(*task)
			return s.store(tasks)
		}
	}
	return ErrNotFound
}

func (s *CollectionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return err
	}
	for i := range tasks {
		if tasks[i].ID == id {
			kept := append(tasks[:i:i], tasks[i+1:]...)
			return s.store(kept)
		}
	}
	return ErrNotFound
}

func (s *CollectionStore) Ping(context.Context) error {
	_, err := s.c.Get()
	return err
}

func (s *CollectionStore) Close() error { return nil }
