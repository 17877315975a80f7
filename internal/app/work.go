package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"horse.fit/polyglot/internal/cli"
	"horse.fit/polyglot/internal/config"
	"horse.fit/polyglot/internal/db"
	"horse.fit/polyglot/internal/logging"
	"horse.fit/polyglot/internal/queue"
	"horse.fit/polyglot/internal/worker"
)

func runWork(args []string) int {
	fs := flag.NewFlagSet("work", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	envLoader := cli.AddEnvFlag(fs, ".env", "Path to the .env file")
	prefetch := fs.Int("prefetch", 0, "Unacknowledged delivery limit (0 uses WORKER_PREFETCH)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if envLoader != nil {
		if _, err := envLoader.Load(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}

	dbCtx, dbCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer dbCancel()

	pool, err := db.NewPool(dbCtx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("worker failed to connect to database")
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		return 1
	}
	defer pool.Close()

	queueClient, err := queue.Connect(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("worker failed to connect to broker")
		fmt.Fprintf(os.Stderr, "Failed to connect to broker: %v\n", err)
		return 1
	}
	defer queueClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		<-sigCh
		logger.Info().Msg("shutdown signal received")
		cancel()
	}()

	effectivePrefetch := *prefetch
	if effectivePrefetch <= 0 {
		effectivePrefetch = cfg.WorkerPrefetch
	}

	deliveries, err := queueClient.Consume(ctx, effectivePrefetch)
	if err != nil {
		logger.Error().Err(err).Msg("worker failed to open delivery stream")
		fmt.Fprintf(os.Stderr, "Failed to consume queue: %v\n", err)
		return 1
	}

	logger.Info().
		Str("queue", cfg.TranslationQueue).
		Int("prefetch", effectivePrefetch).
		Msg("translation worker started")

	processor := worker.NewProcessor(db.NewTranslationStore(pool), buildRegistry(cfg), logger)
	if err := worker.Run(ctx, deliveries, processor, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("worker stopped with error")
		fmt.Fprintf(os.Stderr, "Worker failed: %v\n", err)
		return 1
	}

	logger.Info().Msg("translation worker stopped")
	return 0
}
