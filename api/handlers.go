// Package api exposes the task service over HTTP with gin.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"task-manager/middleware"
	"task-manager/models"
	"task-manager/service"
)

// Tasks is the service surface the handlers need.
type Tasks interface {
	List(ctx context.Context, filter models.Status) ([]models.Task, error)
	Get(ctx context.Context, id string) (*models.Task, error)
	Create(ctx context.Context, in models.TaskInput) (*models.Task, error)
	Update(ctx context.Context, id string, patch models.TaskPatch) (*models.Task, error)
	Toggle(ctx context.Context, id string) (*models.Task, error)
	Delete(ctx context.Context, id string) error
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	tasks Tasks
	store Pinger
}

func NewHandler(tasks Tasks, store Pinger) *Handler {
	return &Handler{tasks: tasks, store: store}
}

// fail writes the response for a service error. Store faults are logged
// and answered with a generic message.
func fail(c *gin.Context, err error, action string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		msg := verr.Message
		if verr.Field == "title" {
			msg = "Title is required"
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	default:
		middleware.Log(c).WithError(err).WithFields(logrus.Fields{
			"handler": c.HandlerName(),
			"task_id": c.Param("id"),
		}).Error("store fault")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while " + action})
	}
}

// bindJSON decodes the request body into obj. An empty body binds as {}.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// GET /tasks?status=
func (h *Handler) List(c *gin.Context) {
	tasks, err := h.tasks.List(c.Request.Context(), models.Status(c.Query("status")))
	if err != nil {
		fail(c, err, "fetching tasks")
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// GET /tasks/:id
func (h *Handler) Get(c *gin.Context) {
	task, err := h.tasks.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "fetching task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// POST /tasks
func (h *Handler) Create(c *gin.Context) {
	var input models.TaskInput
	if err := bindJSON(c, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.tasks.Create(c.Request.Context(), input)
	if err != nil {
		fail(c, err, "saving task")
		return
	}
	c.JSON(http.StatusCreated, task)
}

// PUT /tasks/:id
func (h *Handler) Update(c *gin.Context) {
	var patch models.TaskPatch
	if err := bindJSON(c, &patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		fail(c, err, "updating task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// PATCH /tasks/:id/toggle
func (h *Handler) Toggle(c *gin.Context) {
	task, err := h.tasks.Toggle(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err, "toggling task")
		return
	}
	c.JSON(http.StatusOK, task)
}

// DELETE /tasks/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.tasks.Delete(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err, "deleting task")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /health
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		middleware.Log(c).WithError(err).Warn("health check failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
