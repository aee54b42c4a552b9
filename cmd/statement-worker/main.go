package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/MarcoIannucci/spotify-tracking/internal/amqp"
	"github.com/MarcoIannucci/spotify-tracking/internal/cli"
	"github.com/MarcoIannucci/spotify-tracking/internal/export"
	"github.com/MarcoIannucci/spotify-tracking/internal/export/sheets"
	applog "github.com/MarcoIannucci/spotify-tracking/internal/log"
	"github.com/MarcoIannucci/spotify-tracking/internal/services"
	"github.com/MarcoIannucci/spotify-tracking/internal/storage"
	"github.com/MarcoIannucci/spotify-tracking/internal/worker"
)

func main() {
	cfg, logger := cli.Bootstrap(applog.ComponentWorker)

	logger.Info("Starting statement-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the statement worker")
		os.Exit(1)
	}

	// The worker shares the database with the server.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	var writers []worker.StatementWriter

	fileWriter, err := export.NewFileWriter(cfg.ExportDir)
	if err != nil {
		logger.Error("Failed to initialize statement directory", "error", err, "dir", cfg.ExportDir)
		os.Exit(1)
	}
	writers = append(writers, fileWriter)

	// Mirroring statements to a spreadsheet is optional.
	if cfg.GoogleSpreadsheetID != "" {
		sheetsClient, err := sheets.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		writers = append(writers, sheetsClient)
		logger.Info("Google Sheets mirror enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Info("Google Sheets mirror disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	reconciler := services.NewReconciler(repo)
	reports := services.NewReports(repo)
	statementWorker := worker.NewStatementWorker(reports, writers...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return amqpClient.ConsumePaymentRecorded(gctx, func(msg *amqp.PaymentRecordedMessage) error {
			return statementWorker.HandleMessage(gctx, msg)
		})
	})
	g.Go(func() error {
		return worker.RunReconcileLoop(gctx, reconciler, cfg.ReconcileInterval)
	})

	logger.Info("Statement worker running",
		"queue", cfg.AMQPQueue,
		"export_dir", cfg.ExportDir,
		"reconcile_interval", cfg.ReconcileInterval)

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
