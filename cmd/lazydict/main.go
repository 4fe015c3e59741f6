package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gabapcia/lazydict/internal/config"
	"github.com/gabapcia/lazydict/internal/handlers/cli"
	"github.com/gabapcia/lazydict/internal/pkg/logger"
	"github.com/gabapcia/lazydict/internal/pkg/telemetry"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		return 2
	}

	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		return 2
	}
	defer logger.Sync()

	providers := telemetry.Noop()
	if cfg.Telemetry.Enabled {
		providers, err = telemetry.Init(ctx, cfg.Telemetry.ServiceName)
		if err != nil {
			logger.Error(ctx, "failed to init telemetry", "error", err)
			return 1
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn(shutdownCtx, "failed to flush telemetry", "error", err)
		}
	}()

	if err := cli.Run(ctx, cfg, providers); err != nil {
		logger.Error(ctx, "command failed", "error", err)
		return 1
	}

	return 0
}
