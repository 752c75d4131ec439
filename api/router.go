package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"task-manager/middleware"
)

// NewRouter mounts the task routes at /tasks and at /api/tasks, the base
// path browser clients use.
func NewRouter(h *Handler, log *logrus.Entry) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics())

	for _, base := range []string{"/tasks", "/api/tasks"} {
		g := r.Group(base)
		g.GET("", h.List)
		g.POST("", h.Create)
		g.GET("/:id", h.Get)
		g.PUT("/:id", h.Update)
		g.PATCH("/:id/toggle", h.Toggle)
		g.DELETE("/:id", h.Delete)
	}

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}
