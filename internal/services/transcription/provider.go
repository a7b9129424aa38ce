package transcription

import (
	"context"

	"github.com/ladlehq/ladle/internal/errors"
)

type ProviderType string

const (
	ProviderWhisperCpp ProviderType = "whispercpp"
	ProviderRemote     ProviderType = "remote"
)

// TranscriptionProvider turns an audio file into text.
type TranscriptionProvider interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// isRetryableError checks if an error is worth retrying on another provider.
// Subprocess failures and 5xx responses qualify; 4xx responses do not.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if appErr, ok := err.(*errors.AppError); ok {
		return appErr.StatusCode >= 500
	}
	return false
}
