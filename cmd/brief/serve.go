package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/brief/internal/api"
	"github.com/MikeSquared-Agency/brief/internal/config"
	"github.com/MikeSquared-Agency/brief/internal/gateway"
	"github.com/MikeSquared-Agency/brief/internal/hermes"
	"github.com/MikeSquared-Agency/brief/internal/locale"
	"github.com/MikeSquared-Agency/brief/internal/metrics"
	"github.com/MikeSquared-Agency/brief/internal/session"
	"github.com/MikeSquared-Agency/brief/internal/store"
)

var serveFlags struct {
	port int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveFlags.port, "port", 0, "Listen port (default: BRIEF_PORT or 8760)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if serveFlags.port != 0 {
		cfg.Port = serveFlags.port
	}
	setupLogging(cfg.LogLevel)
	logger := slog.Default()

	logger.Info("brief starting", "port", cfg.Port, "provider", cfg.Provider, "version", version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	model, err := gateway.NewModel(cfg)
	if err != nil {
		return fmt.Errorf("model provider: %w", err)
	}
	logger.Info("model provider ready", "provider", model.Name(), "model", cfg.Model())

	locales, err := locale.Load()
	if err != nil {
		return err
	}

	rec := metrics.NewRecorder()
	gw := gateway.New(model, cfg.MaxTokens, logger, rec)

	opts := session.Options{
		GenerationTimeout: cfg.GenerationTimeout,
		TTL:               cfg.SessionTTL,
		SummarizeFiles:    cfg.SummarizeFiles,
		Metrics:           rec,
	}

	// NATS/Hermes (optional)
	if cfg.NatsURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		hermesClient, err := hermes.NewClient(connectCtx, cfg.NatsURL, cfg.NatsToken, logger)
		cancel()
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer hermesClient.Close()
		opts.Publisher = hermesClient
		logger.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		logger.Warn("NATS_URL not set, generation events are not published")
	}

	// Draft journal (optional)
	if cfg.DatabaseURL != "" {
		db, err := store.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		opts.Journal = db
		logger.Info("database connected")
	}

	sessions := session.NewManager(gw, logger, opts)
	defer sessions.Close()
	go sessions.Run(ctx, time.Minute)

	srv := api.NewServer(cfg.Port, api.Deps{
		Sessions:       sessions,
		Generator:      gw,
		Locales:        locales,
		Metrics:        rec,
		Logger:         logger,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("brief ready", "port", cfg.Port)

	// Graceful shutdown
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("HTTP server: %w", err)
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown", "error", err)
	}
	logger.Info("brief stopped")
	return nil
}
