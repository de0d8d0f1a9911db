package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"trade-bridge/internal/broker"
	"trade-bridge/internal/broker/brokerobs"
	"trade-bridge/internal/feed"
	"trade-bridge/internal/interfaces"
	"trade-bridge/internal/logger"
	"trade-bridge/internal/metrics"
	"trade-bridge/internal/notify"
	"trade-bridge/internal/store"
	"trade-bridge/internal/trace"
	"trade-bridge/internal/tradelog"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger and tracer
func initializeSystem() error {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	return nil
}

// compressOldLogs compresses old dispatch logs if retention is configured
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("BRIDGE_LOG_RETENTION_DAYS"); v != "" {
		n, _ := strconv.Atoi(v)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

// initializeBroker builds the broker session wrapped with observability
func initializeBroker(ctx context.Context, cfg *store.Config) interfaces.Broker {
	port, _ := strconv.Atoi(os.Getenv("TWS_PORT"))
	clientID, _ := strconv.Atoi(os.Getenv("TWS_CLIENT_ID"))

	brk := broker.NewTWS(broker.Params{
		Mode:     cfg.Mode,
		Host:     os.Getenv("TWS_HOST"),
		Port:     port,
		ClientID: clientID,
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}

	return brokerobs.Wrap(brk)
}

// initializeFeed builds the trade idea feed client
func initializeFeed(cfg *store.Config) interfaces.Feed {
	return feed.NewClient(cfg.Feed.URL, cfg.Feed.SourceTag, time.Duration(cfg.Feed.TimeoutS)*time.Second)
}

// initializeCursor opens the durable cursor store
func initializeCursor(ctx context.Context, cfg *store.Config) (*store.CursorStore, error) {
	cs, err := store.OpenCursorStore(cfg.Cursor.Path)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open cursor store", err, "path", cfg.Cursor.Path)
		return nil, err
	}
	if id, ok, err := cs.Read(); err == nil {
		if ok {
			logger.Info(ctx, "Cursor loaded", "last_processed_id", id)
		} else {
			logger.Info(ctx, "No cursor found, starting from scratch")
		}
	}
	return cs, nil
}

// initializeNotifier builds the optional chat notifier
func initializeNotifier(ctx context.Context, cfg *store.Config) interfaces.TextNotifier {
	if cfg.Notify.DiscordWebhook == "" {
		logger.Info(ctx, "No notification webhook configured")
		return nil
	}
	return notify.NewDiscord(cfg.Notify.DiscordWebhook)
}

// startMetrics starts the /metrics listener when configured
func startMetrics(ctx context.Context, cfg *store.Config) {
	if cfg.Metrics.Listen == "" {
		return
	}
	go func() {
		logger.Info(ctx, "Metrics listener starting", "addr", cfg.Metrics.Listen)
		if err := metrics.Serve(cfg.Metrics.Listen); err != nil {
			logger.ErrorWithErr(ctx, "Metrics listener stopped", err)
		}
	}()
}
