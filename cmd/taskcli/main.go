// Command taskcli is a terminal front end for the task manager. It talks
// to the REST API or, in local mode, keeps tasks in a JSON file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"task-manager/client"
	"task-manager/service"
	"task-manager/store"
	"task-manager/tui"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "taskcli:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := loadConfig(args, os.Stderr)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, title := dataSource(cfg)
	return tui.Run(ctx, tui.New(ctx, client.NewBoard(src), title))
}

func dataSource(cfg cliConfig) (client.DataSource, string) {
	if cfg.Mode == modeLocal {
		files := client.NewFileStorage(cfg.File)
		return service.New(store.NewCollectionStore(files)), "Tasks (" + files.Path() + ")"
	}
	return client.NewREST(cfg.Server, nil), "Tasks (" + cfg.Server + ")"
}
