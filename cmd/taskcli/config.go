package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

const (
	modeREST  = "rest"
	modeLocal = "local"
)

type cliConfig struct {
	Mode   string `toml:"mode"`
	Server string `toml:"server"`
	File   string `toml:"file"`
}

func defaultConfig() cliConfig {
	return cliConfig{
		Mode:   modeREST,
		Server: "http://localhost:3000/api",
		File:   "tasks.json",
	}
}

// loadConfig applies defaults, then the TOML file named by -config, then
// any flags given explicitly.
func loadConfig(args []string, stderr io.Writer) (cliConfig, error) {
	cfg := defaultConfig()

	fs := flag.NewFlagSet("taskcli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "Path to a TOML config file")
	mode := fs.String("mode", cfg.Mode, "Data source: rest or local")
	server := fs.String("server", cfg.Server, "Base URL of the task API")
	file := fs.String("file", cfg.File, "Task file used in local mode")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if *configPath != "" {
		if _, err := toml.DecodeFile(*configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config %s: %w", *configPath, err)
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Mode = *mode
		case "server":
			cfg.Server = *server
		case "file":
			cfg.File = *file
		}
	})

	if cfg.Mode != modeREST && cfg.Mode != modeLocal {
		return cfg, fmt.Errorf("unknown mode %q (want rest or local)", cfg.Mode)
	}
	return cfg, nil
}
