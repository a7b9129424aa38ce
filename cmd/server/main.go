package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/hibiken/asynq"
	"github.com/ladlehq/ladle/internal/api"
	"github.com/ladlehq/ladle/internal/config"
	"github.com/ladlehq/ladle/internal/health"
	"github.com/ladlehq/ladle/internal/logger"
	"github.com/ladlehq/ladle/internal/metrics"
	"github.com/ladlehq/ladle/internal/middleware"
	"github.com/ladlehq/ladle/internal/pipeline"
	"github.com/ladlehq/ladle/internal/sentry"
	"github.com/ladlehq/ladle/internal/services/downloader"
	"github.com/ladlehq/ladle/internal/services/extraction"
	"github.com/ladlehq/ladle/internal/services/mealie"
	"github.com/ladlehq/ladle/internal/services/transcription"
	"github.com/ladlehq/ladle/internal/telemetry"
	"github.com/ladlehq/ladle/internal/worker"
	"github.com/riandyrn/otelchi"
	otelchimetric "github.com/riandyrn/otelchi/metric"
	"go.opentelemetry.io/otel"
)

func main() {
	defer sentry.Recover()

	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize telemetry
	if cfg.OtelExporterOTLPEndpoint != "" {
		shutdown, err := telemetry.InitTelemetry(ctx, cfg.ServiceName, cfg.ServiceVersion, cfg.Env, cfg.OtelExporterOTLPEndpoint, nil)
		if err != nil {
			slog.Warn("Failed to init telemetry", "error", err)
		} else {
			defer shutdown(ctx)
		}
	}

	// Initialize Sentry
	sentry.Init(cfg.SentryDSN, cfg.Env, cfg.ServiceName, cfg.ServiceVersion)
	if cfg.SentryDSN != "" {
		defer sentry.Flush(2 * time.Second)
	}

	// Initialize business metrics
	if err := metrics.Init(); err != nil {
		slog.Warn("Failed to init business metrics", "error", err)
	}

	// Initialize logger with OTel support
	appLogger := logger.New(cfg.Env)
	slog.SetDefault(appLogger)

	tracker := health.NewTracker()

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
	publisher := mealie.NewPublisher(mealieClient, appLogger)

	orchestrator := pipeline.NewOrchestrator(dl, transcriber, extractor, publisher, tracker, appLogger)

	// Asynq client for the optional async submission queue
	var asynqClient *asynq.Client
	var reporter *worker.StatusReporter
	if cfg.RedisURL != "" {
		asynqClient, err = worker.NewClient(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to create queue client: %v", err)
		}
		defer asynqClient.Close()

		inspector, err := worker.NewInspector(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to create queue inspector: %v", err)
		}
		reporter = worker.NewStatusReporter(inspector)
	}

	apiServer := api.NewServer(cfg, orchestrator, tracker, asynqClient, reporter, appLogger)

	// Router
	r := chi.NewRouter()

	// Middleware
	r.Use(otelchi.Middleware(cfg.ServiceName,
		otelchi.WithChiRoutes(r),
		otelchi.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health"
		}),
	))

	// HTTP metrics
	metricCfg := otelchimetric.NewBaseConfig(cfg.ServiceName, otelchimetric.WithMeterProvider(otel.GetMeterProvider()))
	r.Use(otelchimetric.NewRequestDurationMillis(metricCfg))
	r.Use(otelchimetric.NewRequestInFlight(metricCfg))
	r.Use(otelchimetric.NewResponseSizeBytes(metricCfg))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Use(sentry.HTTPMiddleware)

	// Browser-facing routes
	r.Get("/", apiServer.HandleHome)
	r.Post("/submit", apiServer.HandleSubmit)
	r.Get("/health", apiServer.HandleHealth)

	// Queue-backed API routes, only when Redis is configured
	if apiServer.AsyncEnabled() {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(cfg.AuthJWTSecret))
			r.Post("/api/submit", apiServer.HandleEnqueue)
			r.Get("/api/task-status", apiServer.HandleTaskStatus)
			r.Get("/api/queue", apiServer.HandleQueueStatus)
		})
	}

	slog.Info("Starting server", "port", cfg.Port, "async_enabled", apiServer.AsyncEnabled())

	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
