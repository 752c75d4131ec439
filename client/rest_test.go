package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"task-manager/api"
	"task-manager/logger"
	"task-manager/models"
	"task-manager/service"
	"task-manager/store"
)

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	st := store.NewMemory()
	router := api.NewRouter(api.NewHandler(service.New(st), st), logger.Discard())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestRESTRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := newAPIServer(t)
	c := NewREST(srv.URL+"/api/", srv.Client())

	empty, err := c.List(ctx, "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("List() = %#v, want empty", empty)
	}

	task, err := c.Create(ctx, models.TaskInput{Title: "Buy milk"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if task.ID == "" || task.Status != models.StatusPending || task.Priority != models.PriorityMedium {
		t.Errorf("Create() = %+v", task)
	}

	toggled, err := c.Toggle(ctx, task.ID)
	if err != nil || toggled.Status != models.StatusCompleted {
		t.Fatalf("Toggle() = %+v, %v", toggled, err)
	}

	cat := "Errands"
	updated, err := c.Update(ctx, task.ID, models.TaskPatch{Category: &cat})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Category != "Errands" || updated.Title != "Buy milk" {
		t.Errorf("Update() = %+v", updated)
	}

	completed, err := c.List(ctx, models.StatusCompleted)
	if err != nil || len(completed) != 1 {
		t.Fatalf("List(Completed) = %v, %v", completed, err)
	}

	if err := c.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	all, _ := c.List(ctx, "")
	if len(all) != 0 {
		t.Errorf("List() after delete = %v", all)
	}
}

func TestRESTErrors(t *testing.T) {
	ctx := context.Background()
	srv := newAPIServer(t)
	c := NewREST(srv.URL, srv.Client())

	_, err := c.Toggle(ctx, "missing")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Toggle(missing) error = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "Task not found" {
		t.Errorf("APIError = %+v", apiErr)
	}

	_, err = c.Create(ctx, models.TaskInput{Title: "   "})
	if !errors.As(err, &apiErr) || apiErr.Message != "Title is required" {
		t.Errorf("Create(blank) error = %v", err)
	}
}

func TestRESTServerFaultUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Server error while fetching task"}`))
	}))
	defer srv.Close()

	_, err := NewREST(srv.URL, srv.Client()).List(context.Background(), "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != FallbackMessage {
		t.Errorf("APIError = %+v", apiErr)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"api", &APIError{Status: 404, Message: "Task not found"}, "Task not found"},
		{"title", &service.ValidationError{Field: "title", Message: "title required"}, "Title is required"},
		{"priority", &service.ValidationError{Field: "priority", Message: "Invalid priority"}, "Invalid priority"},
		{"not found", service.ErrNotFound, "Task not found"},
		{"transport", errors.New("connection refused"), FallbackMessage},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Describe(tc.err); got != tc.want {
				t.Errorf("Describe() = %q, want %q", got, tc.want)
			}
		})
	}
}
