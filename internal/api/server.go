package api

import (
	"context"
	"embed"
	"html/template"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/ladlehq/ladle/internal/config"
	"github.com/ladlehq/ladle/internal/health"
	"github.com/ladlehq/ladle/internal/pipeline"
	"github.com/ladlehq/ladle/internal/worker"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Runner runs a submission through the processing pipeline.
type Runner interface {
	Run(ctx context.Context, url string) (*pipeline.Result, error)
}

// Server holds the HTTP handler dependencies. The asynq client and status
// reporter are nil when Redis is not configured; the async endpoints are not
// mounted in that case.
type Server struct {
	cfg         *config.Config
	runner      Runner
	tracker     *health.Tracker
	asynqClient *asynq.Client
	reporter    *worker.StatusReporter
	logger      *slog.Logger
}

func NewServer(cfg *config.Config, runner Runner, tracker *health.Tracker, asynqClient *asynq.Client, reporter *worker.StatusReporter, logger *slog.Logger) *Server {
	return &Server{
		cfg:         cfg,
		runner:      runner,
		tracker:     tracker,
		asynqClient: asynqClient,
		reporter:    reporter,
		logger:      logger,
	}
}

// AsyncEnabled reports whether the queue-backed endpoints can be mounted.
func (s *Server) AsyncEnabled() bool {
	return s.asynqClient != nil && s.reporter != nil
}
