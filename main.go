package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"wheelStrategyBot/config"
	"wheelStrategyBot/internal/adapters/alpacaclient"
	"wheelStrategyBot/internal/adapters/httpserver"
	"wheelStrategyBot/internal/adapters/logger"
	"wheelStrategyBot/internal/adapters/sqlite"
	"wheelStrategyBot/internal/app"
	"wheelStrategyBot/internal/ports"
	sigval "wheelStrategyBot/internal/signal"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	// 2. Initialize Logger
	appLogger := logger.NewStdLogger(cfg.LogLevel)
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(ctx, err, "Error closing database repository")
		}
	}()

	// 4. Initialize Broker Client (optional: missing credentials mean
	// the pipeline runs in simulation mode and records no_broker outcomes)
	var broker ports.BrokerClient
	if cfg.HasBrokerCredentials() {
		alpacaClient, err := alpacaclient.New(alpacaclient.Config{
			APIKey:         cfg.APIKey,
			SecretKey:      cfg.SecretKey,
			BaseURL:        cfg.BaseURL,
			Logger:         appLogger,
			RatePerMinute:  cfg.BrokerRatePerMinute,
			RequestTimeout: cfg.OrderTimeout,
		})
		if err != nil {
			appLogger.Error(ctx, err, "Failed to connect to Alpaca, continuing without a broker")
		} else {
			broker = alpacaClient
		}
	} else {
		appLogger.Warn(ctx, "Alpaca API credentials not set, running in simulation mode")
	}

	// 5. Initialize Order Pipeline
	pipeline, err := app.NewPipeline(app.PipelineConfig{
		Logger:        appLogger,
		Validator:     sigval.NewValidator(),
		Repo:          repo,
		Broker:        broker,
		TimeInForce:   cfg.TimeInForce,
		SubmitTimeout: cfg.OrderTimeout,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize order pipeline: %v", err)
	}

	// 6. Initialize HTTP Server
	server, err := httpserver.New(httpserver.Config{
		Pipeline:  pipeline,
		Repo:      repo,
		Logger:    appLogger,
		HasBroker: broker != nil,
	})
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize HTTP server: %v", err)
	}

	// 7. Run until interrupted
	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, runCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return server.Run(runCtx, cfg.HTTPAddr)
	})

	if err := g.Wait(); err != nil {
		appLogger.Error(ctx, err, "Server exited with error")
		log.Fatalf("FATAL: Server exited with error: %v", err)
	}
	appLogger.Info(ctx, "Application finished gracefully.")
}
