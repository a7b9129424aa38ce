package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	_ "github.com/joho/godotenv/autoload"

	"github.com/ladlehq/ladle/internal/config"
	"github.com/ladlehq/ladle/internal/health"
	"github.com/ladlehq/ladle/internal/logger"
	"github.com/ladlehq/ladle/internal/metrics"
	"github.com/ladlehq/ladle/internal/sentry"
	"github.com/ladlehq/ladle/internal/services/downloader"
	"github.com/ladlehq/ladle/internal/services/extraction"
	"github.com/ladlehq/ladle/internal/services/mealie"
	"github.com/ladlehq/ladle/internal/services/transcription"
	"github.com/ladlehq/ladle/internal/telemetry"
	"github.com/ladlehq/ladle/internal/worker"
)

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.RedisURL == "" {
		log.Fatal("REDIS_URL is required for the worker")
	}

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName+"-worker", cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, nil)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	if err := sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName+"-worker", cfg.ServiceVersion); err != nil {
		slog.Warn("Failed to init Sentry", "error", err)
	} else if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Initialize logger with OTel support
	appLogger := logger.New(cfg.Env)
	slog.SetDefault(appLogger)

	// Pipeline components
	cookies := downloader.CookieConfig{
		Netscape:     cfg.IGCookiesNetscape,
		SessionID:    cfg.IGSessionID,
		CSRFToken:    cfg.IGCSRFToken,
		CookieString: cfg.IGCookieString,
	}
	dl := downloader.NewClient(cfg.StorageDir, cookies, appLogger)
	transcriber := transcription.NewProvider(cfg.Transcription)
	llm := extraction.NewLlamaProvider(cfg.LLMServerURL, cfg.LLMResponseTimeout)
	extractor := extraction.NewFallbackExtractor(llm, appLogger)
	mealieClient := mealie.NewClient(cfg.MealieBaseURL, cfg.MealieStaticURL, cfg.MealieToken)

	workerMetrics, err := worker.NewWorkerMetrics()
	if err != nil {
		slog.Warn("Failed to init worker metrics", "error", err)
	}

	processor := worker.NewSubmissionProcessor(
		dl,
		transcriber,
		extractor,
		mealieClient,
		health.NewTracker(),
		workerMetrics,
		appLogger,
	)

	// Asynq server
	srv, err := worker.NewServer(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to create worker server: %v", err)
	}

	// Register handlers
	mux := asynq.NewServeMux()
	mux.Use(worker.SentryMiddleware)
	mux.Use(worker.OTelMiddleware)
	mux.HandleFunc(worker.TypeProcessSubmission, processor.HandleProcessSubmission)

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutting down worker...")
		srv.Shutdown()
	}()

	slog.Info("Starting worker", "redis", cfg.RedisURL)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
