package transcription

import (
	"context"
	"log/slog"

	"github.com/ladlehq/ladle/internal/errors"
)

// FallbackProvider implements TranscriptionProvider with fallback logic.
type FallbackProvider struct {
	primary   TranscriptionProvider
	secondary TranscriptionProvider
}

func NewFallbackProvider(primary, secondary TranscriptionProvider) *FallbackProvider {
	return &FallbackProvider{
		primary:   primary,
		secondary: secondary,
	}
}

// Transcribe tries the primary provider first and falls back to the
// secondary on retryable failures. Non-retryable errors (bad audio, 4xx)
// surface unchanged.
func (f *FallbackProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	result, err := f.primary.Transcribe(ctx, audioPath)
	if err == nil {
		return result, nil
	}

	if isRetryableError(err) {
		slog.Info("Primary transcription provider failed, attempting fallback",
			"primary_error", err.Error(),
			"audio_path", audioPath)

		result, fallbackErr := f.secondary.Transcribe(ctx, audioPath)
		if fallbackErr == nil {
			slog.Info("Fallback transcription provider succeeded",
				"primary_error", err.Error(),
				"audio_path", audioPath)
			return result, nil
		}

		slog.Error("Both transcription providers failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
			"audio_path", audioPath)
		return "", errors.NewTranscriptionError(
			"both primary and fallback transcription providers failed",
			"PROVIDER_FALLBACK_FAILED",
			err,
		)
	}

	slog.Info("Primary transcription provider failed with non-retryable error",
		"error", err.Error(),
		"audio_path", audioPath)
	return "", err
}
