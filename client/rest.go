package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"task-manager/models"
)

// REST talks to the task API over HTTP.
type REST struct {
	baseURL string
	http    *http.Client
}

// NewREST builds a client for the API rooted at baseURL, for example
// http://localhost:3000/api. A nil httpClient gets a 10s timeout default.
func NewREST(baseURL string, httpClient *http.Client) *REST {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &REST{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (r *REST) List(ctx context.Context, filter models.Status) ([]models.Task, error) {
	path := "/tasks"
	if filter != "" {
		path += "?" + url.Values{"status": {string(filter)}}.Encode()
	}
	var tasks []models.Task
	if err := r.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

func (r *REST) Create(ctx context.Context, in models.TaskInput) (*models.Task, error) {
	var task models.Task
	if err := r.do(ctx, http.MethodPost, "/tasks", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *REST) Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error) {
	var task models.Task
	if err := r.do(ctx, http.MethodPut, "/tasks/"+url.PathEscape(id), patch, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *REST) Toggle(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id)+"/toggle", nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *REST) Delete(ctx context.Context, id string) error {
	var ack struct {
		OK bool `json:"ok"`
	}
	return r.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, &ack)
}

func (r *REST) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError keeps the server message for 400 and 404 only.
func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: FallbackMessage}
	if resp.StatusCode != http.StatusBadRequest && resp.StatusCode != http.StatusNotFound {
		return apiErr
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	}
	return apiErr
}
