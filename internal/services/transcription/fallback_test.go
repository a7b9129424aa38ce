package transcription

import (
	"context"
	"testing"

	"github.com/ladlehq/ladle/internal/errors"
)

type stubTranscriber struct {
	text  string
	err   error
	calls int
}

func (s *stubTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	s.calls++
	return s.text, s.err
}

func TestFallbackTranscribe_PrimarySucceeds(t *testing.T) {
	primary := &stubTranscriber{text: "hello"}
	secondary := &stubTranscriber{text: "unused"}

	f := NewFallbackProvider(primary, secondary)
	got, err := f.Transcribe(context.Background(), "audio.mp3")
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if got != "hello" {
		t.Errorf("Expected primary result, got %q", got)
	}
	if secondary.calls != 0 {
		t.Error("Expected secondary untouched")
	}
}

func TestFallbackTranscribe_RetryableFailure(t *testing.T) {
	primary := &stubTranscriber{err: errors.NewTranscriptionError("whisper.cpp failed", "WHISPER_EXEC_ERROR", nil)}
	secondary := &stubTranscriber{text: "from fallback"}

	f := NewFallbackProvider(primary, secondary)
	got, err := f.Transcribe(context.Background(), "audio.mp3")
	if err != nil {
		t.Fatalf("Expected fallback to succeed, got %v", err)
	}
	if got != "from fallback" {
		t.Errorf("Expected fallback result, got %q", got)
	}
}

func TestFallbackTranscribe_NonRetryableFailure(t *testing.T) {
	appErr := errors.NewTranscriptionError("bad request", "API_HTTP_ERROR", nil)
	appErr.StatusCode = 400
	primary := &stubTranscriber{err: appErr}
	secondary := &stubTranscriber{text: "unused"}

	f := NewFallbackProvider(primary, secondary)
	_, err := f.Transcribe(context.Background(), "audio.mp3")
	if err == nil {
		t.Fatal("Expected error")
	}
	if secondary.calls != 0 {
		t.Error("Expected no fallback attempt for 4xx error")
	}
}

func TestFallbackTranscribe_BothFail(t *testing.T) {
	primary := &stubTranscriber{err: errors.NewTranscriptionError("primary down", "WHISPER_EXEC_ERROR", nil)}
	secondary := &stubTranscriber{err: errors.NewTranscriptionError("secondary down", "API_ERROR", nil)}

	f := NewFallbackProvider(primary, secondary)
	_, err := f.Transcribe(context.Background(), "audio.mp3")
	if err == nil {
		t.Fatal("Expected error when both providers fail")
	}
	if errors.TypeOf(err) != errors.ErrorTypeTranscription {
		t.Errorf("Expected transcription error, got %v", errors.TypeOf(err))
	}
}
