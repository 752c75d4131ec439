package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStatusToggled(t *testing.T) {
	tests := []struct {
		in   Status
		want Status
	}{
		{StatusPending, StatusCompleted},
		{StatusCompleted, StatusPending},
		{Status("Archived"), StatusCompleted},
		{Status(""), StatusCompleted},
	}
	for _, tc := range tests {
		if got := tc.in.Toggled(); got != tc.want {
			t.Errorf("Status(%q).Toggled() = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPriorityValid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh} {
		if !p.Valid() {
			t.Errorf("expected %q to be valid", p)
		}
	}
	for _, p := range []Priority{"", "low", "Urgent"} {
		if p.Valid() {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestTaskInputNormalize(t *testing.T) {
	in := TaskInput{Title: "  Buy milk ", Description: " two litres ", Category: " home "}.Normalize()

	if in.Title != "Buy milk" {
		t.Errorf("title = %q", in.Title)
	}
	if in.Description != "two litres" {
		t.Errorf("description = %q", in.Description)
	}
	if in.Category != "home" {
		t.Errorf("category = %q", in.Category)
	}
	if in.Priority != PriorityMedium {
		t.Errorf("priority = %q, want Medium", in.Priority)
	}
	if in.Status != StatusPending {
		t.Errorf("status = %q, want Pending", in.Status)
	}
}

func TestNullTimeUnmarshal(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValid bool
		wantErr   bool
	}{
		{"absent", `{}`, false, false, false},
		{"null", `{"dueDate":null}`, true, false, false},
		{"empty string", `{"dueDate":""}`, true, false, false},
		{"rfc3339", `{"dueDate":"2025-03-01T10:00:00Z"}`, true, true, false},
		{"date only", `{"dueDate":"2025-03-01"}`, true, true, false},
		{"garbage", `{"dueDate":"next week"}`, true, false, true},
		{"number", `{"dueDate":12}`, true, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var in TaskInput
			err := json.Unmarshal([]byte(tc.body), &in)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			if in.DueDate.Set != tc.wantSet || in.DueDate.Valid != tc.wantValid {
				t.Errorf("got Set=%v Valid=%v, want Set=%v Valid=%v",
					in.DueDate.Set, in.DueDate.Valid, tc.wantSet, tc.wantValid)
			}
		})
	}
}

func TestTaskPatchApply(t *testing.T) {
	due := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:       "abc",
		Title:    "Original",
		Priority: PriorityLow,
		Status:   StatusPending,
		DueDate:  &due,
	}

	var patch TaskPatch
	if err := json.Unmarshal([]byte(`{"title":"  Renamed ","priority":"Whatever","dueDate":null}`), &patch); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	patch.Apply(&task)

	if task.Title != "  Renamed " {
		t.Errorf("title should be applied verbatim, got %q", task.Title)
	}
	if task.Priority != "Whatever" {
		t.Errorf("priority should be applied without validation, got %q", task.Priority)
	}
	if task.DueDate != nil {
		t.Errorf("dueDate should be cleared, got %v", task.DueDate)
	}
	if task.Status != StatusPending {
		t.Errorf("status should be untouched, got %q", task.Status)
	}
	if task.ID != "abc" {
		t.Errorf("id changed to %q", task.ID)
	}
}

func TestTaskPatchMarshalOmitsUnsetFields(t *testing.T) {
	title := "x"
	data, err := json.Marshal(TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got := string(data); got != `{"title":"x"}` {
		t.Errorf("Marshal() = %s", got)
	}

	data, err = json.Marshal(TaskPatch{DueDate: NullTime{Set: true}})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if got := string(data); got != `{"dueDate":null}` {
		t.Errorf("Marshal() = %s", got)
	}
}

func TestTaskJSONShape(t *testing.T) {
	data, err := json.Marshal(Task{ID: "1", Title: "a", Priority: PriorityMedium, Status: StatusPending})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	body := string(data)
	for _, want := range []string{`"_id":"1"`, `"dueDate":null`, `"priority":"Medium"`, `"status":"Pending"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected %s in %s", want, body)
		}
	}
}
