package extraction

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ladlehq/ladle/internal/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// FallbackExtractor wraps a Provider with a heuristic safety net. Extraction
// as a whole never fails: when the provider errors for any reason, the raw
// text is parsed heuristically and the result is tagged with its source.
type FallbackExtractor struct {
	provider  Provider
	heuristic *HeuristicParser
	logger    *slog.Logger
}

func NewFallbackExtractor(provider Provider, logger *slog.Logger) *FallbackExtractor {
	return &FallbackExtractor{
		provider:  provider,
		heuristic: NewHeuristicParser(),
		logger:    logger,
	}
}

// Extract runs the provider and falls back to heuristic parsing on error.
// The returned result always carries a non-nil draft.
func (f *FallbackExtractor) Extract(ctx context.Context, caption, transcript, platform string) *Result {
	if f.provider != nil {
		draft, err := f.provider.Generate(ctx, caption, transcript, platform)
		if err == nil && draft != nil {
			return &Result{Draft: draft, Source: SourceLLM}
		}
		f.logger.WarnContext(ctx, "LLM extraction failed, using heuristic parser",
			slog.String("platform", platform),
			slog.Any("error", err),
		)
		if metrics.ExtractionFallbackTotal != nil {
			metrics.ExtractionFallbackTotal.Add(ctx, 1, metric.WithAttributes(
				attribute.String("platform", platform),
			))
		}
	}

	text := transcript
	if strings.TrimSpace(caption) != "" {
		text = caption + "\n" + transcript
	}
	return &Result{Draft: f.heuristic.Parse(text), Source: SourceHeuristic}
}
