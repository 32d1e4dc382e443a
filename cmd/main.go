package main

import (
	"context"
	"errors"
	"os"

	"github.com/cinetalk/cinetalk/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to parse config.toml, using defaults", "error", err)
		}
	}

	opts := RunnerOpts{
		Config: config,
		Logger: logger,
	}

	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		if err := shared.RunMigrations(db); err != nil {
			logger.Warn("cache migrations failed, running without local cache", "error", err)
			db.Close()
		} else {
			opts.DB = db
			defer db.Close()
		}
	} else {
		logger.Warn("cache database unavailable", "error", err)
	}

	runner := NewRunner(opts)

	app := &cli.Command{
		Name:     "cinetalk",
		Usage:    "Browse movies, write reviews and join the community board",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) {
			logger.Error("login required, run 'cinetalk auth login' first")
			os.Exit(1)
		}
		logger.Fatalf("application error: %v", err)
	}
}
