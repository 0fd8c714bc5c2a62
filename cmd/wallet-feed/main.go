// wallet-feed tails the change feed: it consumes change events from the
// broker and logs them. Useful for watching what a running wallet-wizard
// instance writes, and as the starting point for export or alerting jobs.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RhisavRay/Wallet-Wizard/internal/cli"
	"github.com/RhisavRay/Wallet-Wizard/internal/events"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("wallet-feed requires AMQP_URL")
		os.Exit(1)
	}

	consumer, err := events.NewAMQPConsumer(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to connect to broker", "error", err)
		os.Exit(1)
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
	}()

	logger.Info("Tailing change feed", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	err = consumer.Consume(ctx, func(change events.Change) error {
		logger.Info("Change",
			"resource", change.Resource,
			"op", change.Op,
			"id", change.ID,
			"occurred_at", change.OccurredAt.Format(time.RFC3339))
		return nil
	})
	if err != nil && err != context.Canceled {
		logger.Error("Change feed consumption failed", "error", err)
		os.Exit(1)
	}
}
