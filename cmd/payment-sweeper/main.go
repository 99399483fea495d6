package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"finch/internal/amqp"
	"finch/internal/cli"
	applog "finch/internal/log"
	"finch/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentSweep)

	logger.Info("Starting payment-sweeper")

	cfg := cli.LoadAndValidateConfig(logger)

	sqliteRepo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer sqliteRepo.Close()

	// AMQP is optional; without it payments are still booked locally.
	var publisher services.PaymentPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without messaging", "error", err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized - booked payments will be published")
		}
	}

	processor := services.NewPaymentProcessor(sqliteRepo, publisher)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Payment sweeper configured",
		"interval", cfg.SweepInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Sweep once on startup, then on every tick.
		logger.Info("Running initial payment sweep...")
		if count, err := processor.ProcessDuePayments(ctx, time.Now()); err != nil {
			logger.Error("Initial sweep failed", "error", err)
		} else {
			logger.Info("Initial sweep complete", "payments_booked", count)
		}

		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case now := <-ticker.C:
				count, err := processor.ProcessDuePayments(ctx, now)
				if err != nil {
					logger.Error("Periodic sweep failed", "error", err)
					continue
				}
				logger.Info("Periodic sweep complete",
					"payments_booked", count,
					"next_check", now.Add(cfg.SweepInterval).Format("15:04:05"))
			}
		}
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Sweeper stopped with error", "error", err)
		return
	}
	logger.Info("Payment-sweeper shutdown complete")
}
