package transcription

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ladlehq/ladle/internal/errors"
)

func writeTestAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.mp3")
	if err := os.WriteFile(path, []byte("fake mp3 bytes"), 0o644); err != nil {
		t.Fatalf("Failed to write test audio: %v", err)
	}
	return path
}

func TestRemoteTranscribe_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("Unexpected auth header %q", auth)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Failed to parse multipart form: %v", err)
		}
		if _, _, err := r.FormFile("file"); err != nil {
			t.Errorf("Expected file field: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text":"add the flour and mix"}`))
	}))
	defer srv.Close()

	p := NewRemoteProvider(srv.URL, "test-key")
	got, err := p.Transcribe(context.Background(), writeTestAudio(t))
	if err != nil {
		t.Fatalf("Transcribe failed: %v", err)
	}
	if got != "add the flour and mix" {
		t.Errorf("Unexpected transcript %q", got)
	}
}

func TestRemoteTranscribe_HTTPErrorCarriesStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid file", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewRemoteProvider(srv.URL, "")
	_, err := p.Transcribe(context.Background(), writeTestAudio(t))
	if err == nil {
		t.Fatal("Expected error")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400 on error, got %d", appErr.StatusCode)
	}
	if isRetryableError(err) {
		t.Error("Expected 4xx error to be non-retryable")
	}
}

func TestRemoteTranscribe_MissingFile(t *testing.T) {
	p := NewRemoteProvider("http://localhost:0", "")
	_, err := p.Transcribe(context.Background(), "/nonexistent/audio.mp3")
	if err == nil {
		t.Fatal("Expected error for missing audio file")
	}
	if !strings.Contains(err.Error(), "failed to open audio file") {
		t.Errorf("Unexpected error %v", err)
	}
}

func TestWhisperCpp_MissingModel(t *testing.T) {
	p := NewWhisperCppProvider("whisper-cli", "/nonexistent/model.bin")
	_, err := p.Transcribe(context.Background(), writeTestAudio(t))
	if err == nil {
		t.Fatal("Expected error for missing model")
	}
	if errors.TypeOf(err) != errors.ErrorTypeTranscription {
		t.Errorf("Expected transcription error, got %v", errors.TypeOf(err))
	}
}

func TestCollapseTranscript(t *testing.T) {
	raw := " Crack the eggs.\n Whisk until smooth.\n"
	if got := collapseTranscript(raw); got != "Crack the eggs. Whisk until smooth." {
		t.Errorf("Unexpected transcript %q", got)
	}
}
