package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	meter = otel.Meter("ladle/business")

	// Submission metrics
	SubmissionsTotal   metric.Int64Counter
	SubmissionDuration metric.Float64Histogram
	StageDuration      metric.Float64Histogram

	// External API metrics
	ExternalAPICallsTotal metric.Int64Counter
	ExternalAPIDuration   metric.Float64Histogram

	// LLM extraction metrics
	LLMExtractionDuration   metric.Float64Histogram
	ExtractionFallbackTotal metric.Int64Counter

	// Publishing metrics
	ThumbnailWarningsTotal metric.Int64Counter
)

func Init() error {
	var err error

	SubmissionsTotal, err = meter.Int64Counter(
		"submission.total",
		metric.WithDescription("Total number of video submissions processed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	SubmissionDuration, err = meter.Float64Histogram(
		"submission.duration",
		metric.WithDescription("End-to-end duration of a submission"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 30, 60, 120, 300, 600),
	)
	if err != nil {
		return err
	}

	StageDuration, err = meter.Float64Histogram(
		"submission.stage.duration",
		metric.WithDescription("Duration of individual pipeline stages"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 5, 10, 30, 60, 120, 300),
	)
	if err != nil {
		return err
	}

	ExternalAPICallsTotal, err = meter.Int64Counter(
		"external.api.calls.total",
		metric.WithDescription("Total number of external API calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ExternalAPIDuration, err = meter.Float64Histogram(
		"external.api.duration",
		metric.WithDescription("Duration of external API calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	LLMExtractionDuration, err = meter.Float64Histogram(
		"llm.extraction.duration",
		metric.WithDescription("Duration of LLM recipe extraction"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 30, 60, 120, 300, 600),
	)
	if err != nil {
		return err
	}

	ExtractionFallbackTotal, err = meter.Int64Counter(
		"extraction.fallback.total",
		metric.WithDescription("Total number of LLM extraction failures handled by heuristic parsing"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ThumbnailWarningsTotal, err = meter.Int64Counter(
		"publish.thumbnail.warnings.total",
		metric.WithDescription("Total number of non-fatal thumbnail upload failures"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}
