package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"

	"task-manager/api"
	"task-manager/config"
	"task-manager/logger"
	"task-manager/service"
	"task-manager/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("task-api", "info").WithError(err).Fatal("failed to load config")
	}

	log := logger.Init("task-api", cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := store.Open(ctx, cfg.Store)
	cancel()
	if err != nil {
		log.WithError(err).WithField("driver", cfg.Store.Driver).Fatal("failed to open store")
	}
	log.WithField("driver", cfg.Store.Driver).Info("store ready")

	handler := api.NewHandler(service.New(st), st)
	router := api.NewRouter(handler, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.WithCORS(router, cfg.CORSOrigins),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.WithField("addr", srv.Addr).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("HTTP server failed")
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// the store closes only after in-flight requests have drained
			"http-server": func(ctx context.Context) error {
				log.Info("graceful shutdown initiated")
				err := srv.Shutdown(ctx)
				if cerr := st.Close(); cerr != nil {
					log.WithError(cerr).Error("failed to close store")
				}
				return err
			},
		},
	)

	exitCode := <-wait
	log.WithField("exit_code", exitCode).Info("server stopped")
	os.Exit(exitCode)
}
