package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/adapters/documents"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/adapters/memory"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/api/handlers"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/api/routes"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/application/services"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/infrastructure/clients/gemini"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/infrastructure/observability"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/pkg/config"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/pkg/secrets"
)

const defaultOTELEndpoint = "localhost:4317"

var errInferenceFailed = errors.New("inference failed")

// app holds the wired components shared by the server and one-shot commands.
type app struct {
	cfg       *config.Config
	metrics   *observability.Metrics
	ingestion *services.RecordIngestionService
	assistant *services.AssistantService
	shutdown  func(context.Context) error
}

func newApp(ctx context.Context, envFile string) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadFrom(envFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env, cfg.Log.Level)
	logger := observability.GetLogger()

	if cfg.Vault.Enabled {
		values, err := secrets.FetchVaultSecrets(ctx, &cfg.Vault)
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Vault.Path).Msg("Failed to load secrets from Vault")
		} else {
			applied := cfg.ApplySecrets(values, cfg.Vault.Overwrite)
			logger.Info().Str("path", cfg.Vault.Path).Strs("applied", applied).Msg("Vault secrets loaded")
		}
	}

	a := &app{cfg: cfg}

	// Initialize OpenTelemetry
	if cfg.OTEL.Enabled {
		endpoint := cfg.OTEL.Endpoint
		if endpoint == "" {
			endpoint = defaultOTELEndpoint
		}
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, endpoint)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			a.shutdown = shutdown
			logger.Info().Str("endpoint", endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	a.metrics = metrics

	store := memory.NewPatientRecordStore()
	a.ingestion = services.NewRecordIngestionService(documents.NewPDFExtractor(), store, metrics)

	if cfg.Gemini.APIKey == "" {
		logger.Warn().Msg("GEMINI_API_KEY is not set; every inference request will report a missing credential")
	}
	inference := gemini.NewClient(&cfg.Gemini)
	a.assistant = services.NewAssistantService(store, inference, cfg.Records.DefaultPatientID)

	// Startup ingestion failures leave the store empty for that patient.
	if cfg.Records.Path != "" {
		if _, err := a.ingestion.LoadFile(ctx, cfg.Records.PatientID, cfg.Records.Path); err != nil {
			logger.Error().Err(err).Str("path", cfg.Records.Path).Msg("Failed to load health record")
		}
	}

	return a, nil
}

// Close flushes telemetry.
func (a *app) Close() {
	if a.shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		observability.GetLogger().Error().Err(err).Msg("Error shutting down OpenTelemetry")
	}
}

func (a *app) handler() http.Handler {
	router := routes.NewRouter(
		handlers.NewHomeHandler(a.ingestion, a.cfg.OTEL.ServiceVersion),
		handlers.NewAssistantHandler(a.assistant),
		handlers.NewRecordHandler(a.ingestion, a.cfg.Records.MaxUploadBytes),
		a.cfg.Server.AllowedOrigins,
		a.metrics,
	)
	return router.SetupRoutes()
}

func runServer(ctx context.Context, envFile string) error {
	a, err := newApp(ctx, envFile)
	if err != nil {
		return err
	}
	defer a.Close()

	logger := observability.GetLogger()

	server := &http.Server{
		Addr:         a.cfg.Server.Addr(),
		Handler:      a.handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: a.cfg.Gemini.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("model", a.cfg.Gemini.Model).
			Int("record_count", a.ingestion.Count()).
			Msg("Ayu-Chain AI Agent starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info().Msg("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info().Msg("Server stopped")
	return nil
}
