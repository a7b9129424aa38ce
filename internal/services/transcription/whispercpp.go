package transcription

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/ladlehq/ladle/internal/errors"
)

// WhisperCppProvider runs a local whisper.cpp binary against the audio file.
// Transcription happens fully on-host, no API key required.
type WhisperCppProvider struct {
	binary    string
	modelPath string
}

// NewWhisperCppProvider creates a provider around the given whisper.cpp CLI
// binary and ggml model file.
func NewWhisperCppProvider(binary, modelPath string) *WhisperCppProvider {
	return &WhisperCppProvider{
		binary:    binary,
		modelPath: modelPath,
	}
}

// Transcribe invokes the whisper.cpp binary and returns the plain transcript
// printed on stdout. Timestamps and progress output are suppressed.
func (p *WhisperCppProvider) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if _, err := os.Stat(p.modelPath); err != nil {
		return "", errors.NewTranscriptionError(
			fmt.Sprintf("whisper model not found at %s", p.modelPath),
			"WHISPER_MODEL_MISSING", err)
	}

	cmd := exec.CommandContext(ctx, p.binary,
		"-m", p.modelPath,
		"-f", audioPath,
		"-nt",
		"-np",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.NewTranscriptionError(
			fmt.Sprintf("whisper.cpp failed: %s", strings.TrimSpace(stderr.String())),
			"WHISPER_EXEC_ERROR", err)
	}

	return collapseTranscript(stdout.String()), nil
}

// collapseTranscript joins whisper.cpp's line-per-segment output into a
// single space-separated string.
func collapseTranscript(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}
