package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"

	apperrors "github.com/ladlehq/ladle/internal/errors"
	"github.com/ladlehq/ladle/internal/health"
	"github.com/ladlehq/ladle/internal/metrics"
	"github.com/ladlehq/ladle/internal/recipe"
	"github.com/ladlehq/ladle/internal/services/downloader"
	"github.com/ladlehq/ladle/internal/services/extraction"
	"github.com/ladlehq/ladle/internal/services/mealie"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Stage names a phase of the submission pipeline.
type Stage string

const (
	StageDownloading  Stage = "downloading"
	StageTranscribing Stage = "transcribing"
	StageExtracting   Stage = "extracting"
	StagePublishing   Stage = "publishing"
	StageDone         Stage = "done"
)

// Downloader fetches video metadata and the audio track.
type Downloader interface {
	FetchMetadata(ctx context.Context, url string) (*downloader.Metadata, error)
	DownloadAudio(ctx context.Context, url string) (string, error)
}

// Transcriber turns an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Extractor produces a recipe draft from caption and transcript. It never
// fails; the result carries the source that produced it.
type Extractor interface {
	Extract(ctx context.Context, caption, transcript, platform string) *extraction.Result
}

// Publisher pushes a canonical recipe into the recipe manager.
type Publisher interface {
	Publish(ctx context.Context, c recipe.Canonical, thumbnailURL string) (*mealie.PublishResult, error)
}

// Result is the outcome of a completed submission.
type Result struct {
	Recipe  recipe.Canonical
	Publish *mealie.PublishResult
	Source  extraction.Source
}

// Orchestrator runs a submission through download, transcription, extraction
// and publishing. Stages run strictly in order; the first fatal error aborts
// the run and nothing downstream executes.
type Orchestrator struct {
	downloader  Downloader
	transcriber Transcriber
	extractor   Extractor
	publisher   Publisher
	normalizer  *recipe.Normalizer
	tracker     *health.Tracker
	logger      *slog.Logger
}

func NewOrchestrator(d Downloader, t Transcriber, e Extractor, p Publisher, tracker *health.Tracker, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		downloader:  d,
		transcriber: t,
		extractor:   e,
		publisher:   p,
		normalizer:  recipe.NewNormalizer(),
		tracker:     tracker,
		logger:      logger,
	}
}

// Run processes one video URL end to end.
func (o *Orchestrator) Run(ctx context.Context, url string) (*Result, error) {
	start := time.Now()
	result, err := o.run(ctx, url)

	status := "success"
	if err != nil {
		status = string(apperrors.TypeOf(err))
		o.tracker.RecordError(url, err)
	} else {
		o.tracker.RecordSuccess()
	}

	if metrics.SubmissionsTotal != nil {
		metrics.SubmissionsTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("status", status),
		))
	}
	if metrics.SubmissionDuration != nil {
		metrics.SubmissionDuration.Record(ctx, time.Since(start).Seconds())
	}
	return result, err
}

func (o *Orchestrator) run(ctx context.Context, url string) (*Result, error) {
	if !downloader.IsSupportedURL(url) {
		return nil, apperrors.NewValidationError(
			"unsupported video URL",
			"UNSUPPORTED_URL",
			"Provide an Instagram, TikTok or YouTube video URL.")
	}
	platform := string(downloader.DetectPlatform(url))

	o.logger.InfoContext(ctx, "processing submission",
		slog.String("url", url),
		slog.String("platform", platform),
	)

	stageStart := time.Now()
	meta, err := o.downloader.FetchMetadata(ctx, url)
	if err != nil {
		return nil, err
	}
	caption := meta.Description
	o.logger.InfoContext(ctx, "fetched metadata",
		slog.String("url", url),
		slog.Int("caption_length", len(caption)),
	)

	audioPath, err := o.downloader.DownloadAudio(ctx, url)
	if err != nil {
		return nil, err
	}
	defer os.Remove(audioPath)
	o.recordStage(ctx, StageDownloading, stageStart)

	stageStart = time.Now()
	transcript, err := o.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, err
	}
	o.recordStage(ctx, StageTranscribing, stageStart)
	o.logger.InfoContext(ctx, "transcribed audio",
		slog.String("url", url),
		slog.Int("transcript_length", len(transcript)),
	)

	stageStart = time.Now()
	extracted := o.extractor.Extract(ctx, caption, transcript, platform)
	o.recordStage(ctx, StageExtracting, stageStart)

	draft := extracted.Draft
	draft.SourceURL = url
	draft.SourceCaption = caption
	canonical := o.normalizer.Normalize(draft)
	o.logger.InfoContext(ctx, "extracted recipe",
		slog.String("url", url),
		slog.String("source", string(extracted.Source)),
		slog.Int("ingredients", len(canonical.Ingredients)),
		slog.Int("instructions", len(canonical.Instructions)),
	)

	stageStart = time.Now()
	published, err := o.publisher.Publish(ctx, canonical, meta.Thumbnail)
	if err != nil {
		return nil, err
	}
	o.recordStage(ctx, StagePublishing, stageStart)

	o.logger.InfoContext(ctx, "recipe published",
		slog.String("url", url),
		slog.String("slug", published.Slug),
		slog.String("thumbnail", string(published.ThumbnailStatus)),
	)

	return &Result{
		Recipe:  canonical,
		Publish: published,
		Source:  extracted.Source,
	}, nil
}

func (o *Orchestrator) recordStage(ctx context.Context, stage Stage, start time.Time) {
	if metrics.StageDuration != nil {
		metrics.StageDuration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(
			attribute.String("stage", string(stage)),
		))
	}
}
