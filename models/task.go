package models

import (
	"encoding/json"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// Valid reports whether s is Pending or Completed.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusCompleted
}

// Toggled returns the opposite status. Anything that is not Completed
// flips to Completed.
func (s Status) Toggled() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task is a single to-do record. The identifier is serialized as "_id",
// the key document-store clients expect.
type Task struct {
	ID          string     `json:"_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    Priority   `json:"priority"`
	Category    string     `json:"category"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskInput holds the client supplied fields of a new task.
type TaskInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueDate     NullTime `json:"dueDate"`
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
	Status      Status   `json:"status"`
}

// Normalize trims the free-text fields and fills in defaults for the
// enumerations that were left empty.
func (in TaskInput) Normalize() TaskInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if in.Status == "" {
		in.Status = StatusPending
	}
	return in
}

// TaskPatch is a partial overwrite of a task. Nil fields are left alone.
// Values are applied as given: no trimming and no enum checks.
type TaskPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     NullTime   `json:"dueDate"`
	Priority    *Priority  `json:"priority"`
	Category    *string    `json:"category"`
	Status      *Status    `json:"status"`
	CreatedAt   *time.Time `json:"createdAt"`
}

// Apply writes every field present in the patch onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate.Set {
		t.DueDate = p.DueDate.Ptr()
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.CreatedAt != nil {
		t.CreatedAt = *p.CreatedAt
	}
}

// MarshalJSON emits only the fields present in the patch, so an unset
// due date is not mistaken for an explicit null.
func (p TaskPatch) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.DueDate.Set {
		m["dueDate"] = p.DueDate
	}
	if p.Priority != nil {
		m["priority"] = *p.Priority
	}
	if p.Category != nil {
		m["category"] = *p.Category
	}
	if p.Status != nil {
		m["status"] = *p.Status
	}
	if p.CreatedAt != nil {
		m["createdAt"] = *p.CreatedAt
	}
	return json.Marshal(m)
}
