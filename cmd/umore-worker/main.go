package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"umore/internal/amqp"
	"umore/internal/cli"
	"umore/internal/export"
	"umore/internal/export/google"
	"umore/internal/export/memory"
	"umore/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	logger.Info("Starting umore-worker", "backend", cfg.ExportBackend)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	var (
		appender export.EntryAppender
		remover  export.EntryRemover
	)
	switch cfg.ExportBackend {
	case "sheets":
		client, err := google.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		appender, remover = client, client
		logger.Info("Google Sheets backup initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	default:
		store := memory.New()
		appender, remover = store, store
		logger.Info("In-memory backup initialized")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	syncWorker := worker.NewSyncWorker(repo, appender, remover)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumeEntryEvents(gctx, func(msg *amqp.EntryEventMessage) error {
			return syncWorker.HandleEvent(gctx, msg)
		})
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}

	// Give in-flight handlers a moment before closing the connection.
	time.Sleep(time.Second)
	logger.Info("Worker shutdown complete")
}
