package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spec-kit/volunteer-service/internal/cli"
	"github.com/spec-kit/volunteer-service/internal/config"
	"github.com/spec-kit/volunteer-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	root := cli.NewRootCommand(cli.PostgresBackend(cfg, logger))
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		logger.Sync() //nolint:errcheck
		os.Exit(1)
	}
}
