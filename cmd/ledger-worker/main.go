package main

import (
	"context"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"finch/internal/amqp"
	"finch/internal/cli"
	"finch/internal/export"
	googleledger "finch/internal/export/google"
	memoryledger "finch/internal/export/memory"
	applog "finch/internal/log"
	"finch/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentLedger)

	logger.Info("Starting ledger-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the ledger worker")
		return
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		return
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ledger export.LedgerWriter
	if cfg.GoogleSpreadsheetID != "" {
		sheetsLedger, err := googleledger.New(ctx, cfg.GoogleSpreadsheetID, cfg.LedgerSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets ledger", "error", err)
			return
		}
		ledger = sheetsLedger
		logger.Info("Google Sheets ledger initialized",
			"spreadsheet_id", cfg.GoogleSpreadsheetID,
			"sheet", cfg.LedgerSheetName)
	} else {
		ledger = memoryledger.New()
		logger.Warn("GOOGLE_SPREADSHEET_ID not set - using in-memory ledger, entries are lost on restart")
	}

	ledgerWorker := worker.NewLedgerWorker(ledger)

	logger.Info("Ledger worker configured",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqpClient.ConsumePaymentRecorded(ctx, func(msg *amqp.PaymentRecordedMessage) error {
			return ledgerWorker.HandlePaymentRecorded(ctx, msg)
		})
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", "error", err)
		return
	}
	logger.Info("Ledger-worker shutdown complete")
}
