package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
	apperrors "github.com/ladlehq/ladle/internal/errors"
	"github.com/ladlehq/ladle/internal/health"
	"github.com/ladlehq/ladle/internal/pipeline"
	"github.com/ladlehq/ladle/internal/recipe"
	"github.com/ladlehq/ladle/internal/services/downloader"
	"github.com/ladlehq/ladle/internal/services/extraction"
	"github.com/ladlehq/ladle/internal/services/mealie"
)

const processingNote = "[Status: Transcription successful - Processing with LLM...]"

// mealieAPI is the subset of the Mealie client the worker needs.
type mealieAPI interface {
	CreateRecipe(ctx context.Context, payload mealie.RecipePayload) (string, error)
	UpdateRecipe(ctx context.Context, slug string, payload mealie.RecipePayload) error
	SetThumbnail(ctx context.Context, slug, thumbnailURL string) error
	RecipeURL(slug string) string
}

// SubmissionProcessor handles queued video submissions. Unlike the
// synchronous pipeline it publishes a placeholder recipe right after
// transcription, so the user sees an entry in Mealie while the LLM slot is
// busy, then replaces it with the extracted recipe.
type SubmissionProcessor struct {
	downloader  pipeline.Downloader
	transcriber pipeline.Transcriber
	extractor   pipeline.Extractor
	mealie      mealieAPI
	heuristic   *extraction.HeuristicParser
	normalizer  *recipe.Normalizer
	tracker     *health.Tracker
	metrics     *WorkerMetrics
	logger      *slog.Logger
}

func NewSubmissionProcessor(
	d pipeline.Downloader,
	t pipeline.Transcriber,
	e pipeline.Extractor,
	mealieClient mealieAPI,
	tracker *health.Tracker,
	workerMetrics *WorkerMetrics,
	logger *slog.Logger,
) *SubmissionProcessor {
	return &SubmissionProcessor{
		downloader:  d,
		transcriber: t,
		extractor:   e,
		mealie:      mealieClient,
		heuristic:   extraction.NewHeuristicParser(),
		normalizer:  recipe.NewNormalizer(),
		tracker:     tracker,
		metrics:     workerMetrics,
		logger:      logger,
	}
}

// HandleProcessSubmission processes one queued submission end to end.
func (p *SubmissionProcessor) HandleProcessSubmission(ctx context.Context, t *asynq.Task) error {
	start := time.Now()

	var payload ProcessSubmissionPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	err := p.process(ctx, payload.URL)

	status := "success"
	if err != nil {
		status = "failure"
		p.tracker.RecordError(payload.URL, err)
	} else {
		p.tracker.RecordSuccess()
	}
	p.metrics.RecordJob(ctx, t.Type(), status, time.Since(start).Seconds())
	return err
}

func (p *SubmissionProcessor) process(ctx context.Context, url string) error {
	if !downloader.IsSupportedURL(url) {
		return apperrors.NewValidationError(
			"unsupported video URL",
			"UNSUPPORTED_URL",
			"Provide an Instagram, TikTok or YouTube video URL.")
	}
	platform := string(downloader.DetectPlatform(url))

	p.logger.InfoContext(ctx, "processing queued submission",
		slog.String("url", url),
		slog.String("platform", platform),
	)

	meta, err := p.downloader.FetchMetadata(ctx, url)
	if err != nil {
		return err
	}
	caption := meta.Description

	audioPath, err := p.downloader.DownloadAudio(ctx, url)
	if err != nil {
		return err
	}
	defer os.Remove(audioPath)

	transcript, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return err
	}

	slug, err := p.publishPlaceholder(ctx, url, caption, transcript, meta.Thumbnail)
	if err != nil {
		return err
	}

	extracted := p.extractor.Extract(ctx, caption, transcript, platform)
	draft := extracted.Draft
	draft.SourceURL = url
	draft.SourceCaption = caption
	canonical := p.normalizer.Normalize(draft)

	if err := p.mealie.UpdateRecipe(ctx, slug, mealie.BuildPayload(canonical)); err != nil {
		return err
	}

	p.logger.InfoContext(ctx, "queued submission completed",
		slog.String("url", url),
		slog.String("slug", slug),
		slog.String("source", string(extracted.Source)),
		slog.String("recipe_url", p.mealie.RecipeURL(slug)),
	)
	return nil
}

// publishPlaceholder creates an interim recipe from the heuristic parse of
// the transcript so the submission is visible in Mealie before the LLM runs.
func (p *SubmissionProcessor) publishPlaceholder(ctx context.Context, url, caption, transcript, thumbnailURL string) (string, error) {
	draft := p.heuristic.Parse(transcript)
	draft.SourceURL = url
	canonical := p.normalizer.Normalize(draft)
	canonical.Description = caption + "\n\n" + processingNote

	slug, err := p.mealie.CreateRecipe(ctx, mealie.BuildPayload(canonical))
	if err != nil {
		return "", err
	}

	if thumbnailURL != "" {
		if err := p.mealie.SetThumbnail(ctx, slug, thumbnailURL); err != nil {
			p.logger.WarnContext(ctx, "failed to set placeholder thumbnail",
				slog.String("slug", slug),
				slog.Any("error", err),
			)
		}
	}
	return slug, nil
}
