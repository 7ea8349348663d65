package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/tournament-data/internal/app"
	"github.com/riskibarqy/tournament-data/internal/config"
	"github.com/riskibarqy/tournament-data/internal/platform/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.NewConsole(os.Stderr, logging.LevelWarn)
	load := func() (*app.Container, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		logger = logging.NewConsole(os.Stderr, cfg.LogLevel)
		return app.New(cfg, logger)
	}

	root := newRootCommand(load, os.Stdout)
	if err := root.ExecuteContext(ctx); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
