package mealie

import (
	"context"
	"log/slog"

	"github.com/ladlehq/ladle/internal/metrics"
	"github.com/ladlehq/ladle/internal/recipe"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ThumbnailStatus reports the outcome of the best-effort thumbnail step.
type ThumbnailStatus string

const (
	ThumbnailSet     ThumbnailStatus = "set"
	ThumbnailSkipped ThumbnailStatus = "skipped"
	ThumbnailFailed  ThumbnailStatus = "failed"
)

// PublishResult describes a successfully published recipe.
type PublishResult struct {
	Slug            string
	URL             string
	ThumbnailStatus ThumbnailStatus
}

// Publisher pushes canonical recipes into Mealie. Recipe creation is the
// only fatal step; thumbnail assignment failures degrade to a warning.
type Publisher struct {
	client *Client
	logger *slog.Logger
}

func NewPublisher(client *Client, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, logger: logger}
}

// Publish creates the recipe and then attempts to attach the thumbnail.
func (p *Publisher) Publish(ctx context.Context, c recipe.Canonical, thumbnailURL string) (*PublishResult, error) {
	slug, err := p.client.CreateRecipe(ctx, BuildPayload(c))
	if err != nil {
		return nil, err
	}

	result := &PublishResult{
		Slug: slug,
		URL:  p.client.RecipeURL(slug),
	}

	if thumbnailURL == "" {
		p.logger.InfoContext(ctx, "no thumbnail in video metadata, skipping",
			slog.String("slug", slug))
		result.ThumbnailStatus = ThumbnailSkipped
		return result, nil
	}

	if err := p.client.SetThumbnail(ctx, slug, thumbnailURL); err != nil {
		p.logger.WarnContext(ctx, "failed to set recipe thumbnail",
			slog.String("slug", slug),
			slog.String("thumbnail_url", thumbnailURL),
			slog.Any("error", err),
		)
		if metrics.ThumbnailWarningsTotal != nil {
			metrics.ThumbnailWarningsTotal.Add(ctx, 1, metric.WithAttributes(
				attribute.String("slug", slug),
			))
		}
		result.ThumbnailStatus = ThumbnailFailed
		return result, nil
	}

	result.ThumbnailStatus = ThumbnailSet
	return result, nil
}
