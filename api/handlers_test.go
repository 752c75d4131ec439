package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"task-manager/logger"
	"task-manager/models"
	"task-manager/service"
	"task-manager/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, st store.Store) *gin.Engine {
	t.Helper()
	return NewRouter(NewHandler(service.New(st), st), logger.Discard())
}

func do(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, w)["error"]
}

func create(t *testing.T, r http.Handler, body string) models.Task {
	t.Helper()
	w := do(t, r, http.MethodPost, "/tasks", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("POST /tasks = %d %s", w.Code, w.Body.String())
	}
	return decode[models.Task](t, w)
}

func TestCreateTaskBody(t *testing.T) {
	r := newTestRouter(t, store.NewMemory())

	w := do(t, r, http.MethodPost, "/tasks", `{"title":"  Buy milk "}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	raw := decode[map[string]any](t, w)
	if id, _ := raw["_id"].(string); id == "" {
		t.Errorf("_id missing: %v", raw)
	}
	if raw["title"] != "Buy milk" || raw["status"] != "Pending" || raw["priority"] != "Medium" {
		t.Errorf("body = %v", raw)
	}
	if v, ok := raw["dueDate"]; !ok || v != nil {
		t.Errorf("dueDate = %v (present %v), want null", v, ok)
	}
	if raw["description"] != "" || raw["category"] != "" {
		t.Errorf("defaults = %v", raw)
	}
}

func TestCreateTaskErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing title", `{}`, "Title is required"},
		{"empty body", "", "Title is required"},
		{"blank title", `{"title":"   "}`, "Title is required"},
		{"bad priority", `{"title":"x","priority":"Urgent"}`, "Invalid priority"},
		{"bad status", `{"title":"x","status":"Done"}`, "Invalid status"},
		{"malformed json", `{"title":`, "Invalid request body"},
		{"bad date", `{"title":"x","dueDate":"tomorrow"}`, "Invalid request body"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := store.NewMemory()
			r := newTestRouter(t, st)
			w := do(t, r, http.MethodPost, "/tasks", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if got := errorOf(t, w); got != tc.want {
				t.Errorf("error = %q, want %q", got, tc.want)
			}
			tasks, _ := st.List(context.Background(), "")
			if len(tasks) != 0 {
				t.Errorf("%d tasks persisted", len(tasks))
			}
		})
	}
}

func TestListTasks(t *testing.T) {
	r := newTestRouter(t, store.NewMemory())

	w := do(t, r, http.MethodGet, "/tasks", "")
	if w.Code != http.StatusOK || strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty list = %d %s", w.Code, w.Body.String())
	}

	create(t, r, `{"title":"one"}`)
	create(t, r, `{"title":"two","status":"Completed"}`)
	create(t, r, `{"title":"three"}`)

	all := decode[[]models.Task](t, do(t, r, http.MethodGet, "/tasks", ""))
	if len(all) != 3 {
		t.Fatalf("len = %d", len(all))
	}

	pending := decode[[]models.Task](t, do(t, r, http.MethodGet, "/tasks?status=Pending", ""))
	if len(pending) != 2 {
		t.Errorf("pending = %d, want 2", len(pending))
	}
	for _, task := range pending {
		if task.Status != models.StatusPending {
			t.Errorf("non-pending task %q in filtered list", task.Title)
		}
	}

	unknown := decode[[]models.Task](t, do(t, r, http.MethodGet, "/tasks?status=Archived", ""))
	if len(unknown) != len(all) {
		t.Errorf("unknown filter returned %d, want %d", len(unknown), len(all))
	}
	for i := range all {
		if unknown[i].ID != all[i].ID {
			t.Errorf("order differs at %d", i)
		}
	}
}

func TestTaskLifecycle(t *testing.T) {
	r := newTestRouter(t, store.NewMemory())
	task := create(t, r, `{"title":"Buy milk"}`)

	w := do(t, r, http.MethodPatch, "/tasks/"+task.ID+"/toggle", "")
	if w.Code != http.StatusOK {
		t.Fatalf("toggle = %d", w.Code)
	}
	if got := decode[models.Task](t, w); got.Status != models.StatusCompleted {
		t.Errorf("status = %s", got.Status)
	}

	w = do(t, r, http.MethodPut, "/tasks/"+task.ID, `{"title":"Buy oat milk","dueDate":"2025-06-01"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update = %d %s", w.Code, w.Body.String())
	}
	updated := decode[models.Task](t, w)
	if updated.Title != "Buy oat milk" || updated.DueDate == nil || updated.Status != models.StatusCompleted {
		t.Errorf("updated = %+v", updated)
	}

	w = do(t, r, http.MethodGet, "/api/tasks/"+task.ID, "")
	if w.Code != http.StatusOK || decode[models.Task](t, w).Title != "Buy oat milk" {
		t.Errorf("GET = %d %s", w.Code, w.Body.String())
	}

	w = do(t, r, http.MethodDelete, "/tasks/"+task.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete = %d", w.Code)
	}
	if ok := decode[map[string]bool](t, w)["ok"]; !ok {
		t.Errorf("delete body = %s", w.Body.String())
	}

	for _, req := range []struct{ method, path, body string }{
		{http.MethodGet, "/tasks/" + task.ID, ""},
		{http.MethodPut, "/tasks/" + task.ID, `{"title":"again"}`},
		{http.MethodPatch, "/tasks/" + task.ID + "/toggle", ""},
		{http.MethodDelete, "/tasks/" + task.ID, ""},
	} {
		w := do(t, r, req.method, req.path, req.body)
		if w.Code != http.StatusNotFound || errorOf(t, w) != "Task not found" {
			t.Errorf("%s %s = %d %s", req.method, req.path, w.Code, w.Body.String())
		}
	}
}

func TestUpdateWithEmptyBody(t *testing.T) {
	r := newTestRouter(t, store.NewMemory())
	task := create(t, r, `{"title":"keep me","category":"home"}`)

	for _, body := range []string{"", `{}`, `{"title":null}`} {
		w := do(t, r, http.MethodPut, "/tasks/"+task.ID, body)
		if w.Code != http.StatusOK {
			t.Fatalf("PUT %q = %d %s", body, w.Code, w.Body.String())
		}
		got := decode[models.Task](t, w)
		if got.Title != "keep me" || got.Category != "home" || got.Status != models.StatusPending {
			t.Errorf("PUT %q changed fields: %+v", body, got)
		}
	}

	w := do(t, r, http.MethodPut, "/tasks/missing", "")
	if w.Code != http.StatusNotFound || errorOf(t, w) != "Task not found" {
		t.Errorf("PUT missing = %d %s", w.Code, w.Body.String())
	}
}

func TestAPIPrefixServesSameTasks(t *testing.T) {
	r := newTestRouter(t, store.NewMemory())
	w := do(t, r, http.MethodPost, "/api/tasks", `{"title":"via prefix"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	tasks := decode[[]models.Task](t, do(t, r, http.MethodGet, "/tasks", ""))
	if len(tasks) != 1 || tasks[0].Title != "via prefix" {
		t.Errorf("tasks = %+v", tasks)
	}
}

type brokenStore struct {
	*store.Memory
	err error
}

func (b brokenStore) List(context.Context, models.Status) ([]models.Task, error) { return nil, b.err }
func (b brokenStore) Insert(context.Context, *models.Task) error                { return b.err }
func (b brokenStore) Delete(context.Context, string) error                      { return b.err }
func (b brokenStore) Ping(context.Context) error                                { return b.err }

func TestStoreFaultsAreHidden(t *testing.T) {
	secret := errors.New("dial tcp 10.0.0.5:27017: connection refused")
	r := newTestRouter(t, brokenStore{Memory: store.NewMemory(), err: secret})

	tests := []struct {
		method, path, body, want string
	}{
		{http.MethodGet, "/tasks", "", "Server error while fetching tasks"},
		{http.MethodPost, "/tasks", `{"title":"x"}`, "Server error while saving task"},
		{http.MethodDelete, "/tasks/abc", "", "Server error while deleting task"},
	}
	for _, tc := range tests {
		w := do(t, r, tc.method, tc.path, tc.body)
		if w.Code != http.StatusInternalServerError {
			t.Errorf("%s %s = %d", tc.method, tc.path, w.Code)
		}
		if got := errorOf(t, w); got != tc.want {
			t.Errorf("%s %s error = %q, want %q", tc.method, tc.path, got, tc.want)
		}
		if strings.Contains(w.Body.String(), "10.0.0.5") {
			t.Errorf("fault leaked: %s", w.Body.String())
		}
	}
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t, store.NewMemory()), http.MethodGet, "/health", "")
	if w.Code != http.StatusOK || decode[map[string]string](t, w)["status"] != "ok" {
		t.Errorf("healthy = %d %s", w.Code, w.Body.String())
	}

	broken := brokenStore{Memory: store.NewMemory(), err: errors.New("down")}
	w = do(t, newTestRouter(t, broken), http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("unhealthy = %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newTestRouter(t, store.NewMemory())
	do(t, r, http.MethodGet, "/tasks", "")

	w := do(t, r, http.MethodGet, "/metrics", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "http_requests_total") {
		t.Error("http_requests_total not exported")
	}
}
