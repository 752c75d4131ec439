package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"task-manager/models"
)

type memoryEntry struct {
	task models.Task
	seq  uint64
}

// Memory keeps tasks in a map. It is used for tests and for running the
// server without any database.
type Memory struct {
	mu    sync.RWMutex
	tasks map[string]memoryEntry
	seq   uint64
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{tasks: make(map[string]memoryEntry)}
}

func (m *Memory) Insert(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	task.ID = uuid.NewString()
	m.seq++
	m.tasks[task.ID] = memoryEntry{task: cloneTask(*task), seq: m.seq}
	return nil
}

func (m *Memory) List(_ context.Context, status models.Status) ([]models.Task, error) {
	m.mu.RLock()
	entries := make([]memoryEntry, 0, len(m.tasks))
	for _, e := range m.tasks {
		if matches(e.task, status) {
			entries = append(entries, e)
		}
	}
	m.mu.RUnlock()

	// newest insert first, then a stable sort on createdAt
	sortEntries(entries)
	tasks := make([]models.Task, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, cloneTask(e.task))
	}
	sortNewestFirst(tasks)
	return tasks, nil
}

func (m *Memory) Get(_ context.Context, id string) (*models.Task, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	t := cloneTask(e.task)
	return &t, nil
}

func (m *Memory) Save(_ context.Context, task *models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.tasks[task.ID]
	if !ok {
		return ErrNotFound
	}
	e.task = cloneTask(*task)
	m.tasks[task.ID] = e
	return nil
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Close() error { return nil }

func sortEntries(entries []memoryEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq > entries[j].seq
	})
}
