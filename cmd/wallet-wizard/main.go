package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/RhisavRay/Wallet-Wizard/internal/auth"
	"github.com/RhisavRay/Wallet-Wizard/internal/backend"
	"github.com/RhisavRay/Wallet-Wizard/internal/cli"
	"github.com/RhisavRay/Wallet-Wizard/internal/core"
	"github.com/RhisavRay/Wallet-Wizard/internal/events"
	apphttp "github.com/RhisavRay/Wallet-Wizard/internal/http"
	"github.com/RhisavRay/Wallet-Wizard/internal/services"
	"github.com/RhisavRay/Wallet-Wizard/internal/state"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	publisher := setupPublisher(logger, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)

	store := state.NewStore(state.New(core.DateOf(time.Now())))
	tracker := services.NewTracker(store, result.Store, auth.NewStaticProvider(cfg.AuthOwner), publisher)

	if err := tracker.LoadAll(ctx); err != nil {
		// Per-resource errors stay in state; the server starts anyway and a
		// later refresh can recover.
		logger.Warn("Initial load incomplete", "error", err)
	}

	srv := apphttp.NewServer(":"+cfg.Port, tracker, cfg.SummaryCacheSize, cfg.SummaryCacheTTL)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	shutdownCtx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(stopCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		tracker.Wait()
		if publisher != nil {
			if err := publisher.Close(); err != nil {
				logger.Error("Failed to close change publisher", "error", err)
			}
		}
		if result.Cleanup != nil {
			if err := result.Cleanup(); err != nil {
				logger.Error("Backend cleanup error", "error", err)
			}
		}
	})

	logger.Info("Starting wallet-wizard server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(shutdownCtx, done)
	logger.Info("Server stopped gracefully")
}

// setupPublisher connects the optional change feed. The tracker works
// without one, so a missing or unreachable broker only costs the feed.
func setupPublisher(logger *slog.Logger, url, exchange, queue string) events.Publisher {
	if url == "" {
		return nil
	}
	publisher, err := events.NewAMQPPublisher(url, exchange, queue)
	if err != nil {
		logger.Warn("Change feed disabled, broker unreachable", "error", err)
		return nil
	}
	logger.Info("Change feed enabled", "exchange", exchange, "queue", queue)
	return publisher
}
