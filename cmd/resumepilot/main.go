package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kiran-879/ResumePilot/internal/api"
	"github.com/Kiran-879/ResumePilot/internal/cli"
	"github.com/Kiran-879/ResumePilot/internal/config"
	"github.com/Kiran-879/ResumePilot/internal/errors"
	"github.com/Kiran-879/ResumePilot/internal/observability"
	"github.com/Kiran-879/ResumePilot/internal/session"
)

func main() {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	logger, err := errors.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	obs, err := observability.NewManager(cfg.Observability)
	if err != nil {
		logger.LogError(err, "Failed to initialize observability")
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Observability shutdown failed", "error", err)
		}
	}()

	vault, err := config.NewVaultClient(cfg.Vault, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize Vault client")
		os.Exit(1)
	}

	store, err := session.NewStore(cfg.Session, vault, logger)
	if err != nil {
		logger.LogError(err, "Failed to initialize token store")
		os.Exit(1)
	}

	// The session manager supplies the token for every request and absorbs
	// 401s from any of them; the auth service it needs is built on the very
	// client that calls back into it, hence the two-step wiring.
	manager := session.NewManager(store, logger)
	metrics := obs.GetMetrics()
	client := api.NewClient(cfg.API, logger,
		api.WithTokenFunc(manager.Token),
		api.WithAuthFailureHandler(func() {
			if metrics != nil {
				metrics.SessionExpiries.Add(context.Background(), 1)
			}
			manager.Expire()
		}))
	services := api.NewServices(client)
	manager.Bind(services.Auth)

	logger.Info("Starting resumepilot",
		"version", cli.Version,
		"log_level", cfg.App.LogLevel,
		"api_base_url", cfg.API.ResolveBaseURL())

	rt := &cli.Runtime{
		Config:   cfg,
		Logger:   logger,
		Session:  manager,
		Services: services,
		Metrics:  metrics,
	}

	// Execute command with cancellable context
	if err := cli.Execute(ctx, rt); err != nil {
		logger.LogError(err, "Command failed")
		os.Exit(1)
	}
}
