package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"trade-bridge/internal/engine"
	"trade-bridge/internal/logger"
	"trade-bridge/internal/store"
	"trade-bridge/internal/trace"
)

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	must(initializeSystem())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := store.LoadConfig(*configPath)
	must(err)

	compressOldLogs(ctx)

	brk := initializeBroker(ctx, cfg)
	cursorStore, err := initializeCursor(ctx, cfg)
	must(err)

	coord, err := engine.New(engine.Deps{
		Config:     cfg,
		Broker:     brk,
		Feed:       initializeFeed(cfg),
		Cursor:     cursorStore,
		DeadLetter: cursorStore,
		Notifier:   initializeNotifier(ctx, cfg),
		Retry:      engine.DefaultRetryPolicy,
	})
	must(err)

	startMetrics(ctx, cfg)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
	}()

	logger.Info(ctx, "Bridge started", "mode", cfg.Mode, "policy", cfg.Order.Policy)

	if err := coord.Run(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Coordinator stopped", err)
		_ = trace.Shutdown(context.Background())
		os.Exit(1)
	}

	_ = trace.Shutdown(context.Background())
}
