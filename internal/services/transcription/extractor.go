package transcription

import (
	"context"
	"os"
	"os/exec"

	"github.com/ladlehq/ladle/internal/errors"
)

// ExtractAudio converts a video file to mono 16 kHz mp3 with FFmpeg. Whisper
// models expect 16 kHz input; downmixing keeps files small.
func ExtractAudio(ctx context.Context, videoPath string) (audioPath string, err error) {
	tempFile, err := os.CreateTemp("", "audio-*.mp3")
	if err != nil {
		return "", errors.NewTranscriptionError("failed to create temp file", "AUDIO_EXTRACTION_ERROR", err)
	}
	defer tempFile.Close()

	audioPath = tempFile.Name()

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-ar", "16000",
		"-ac", "1",
		"-y", audioPath,
	)

	if err := cmd.Run(); err != nil {
		os.Remove(audioPath)
		return "", errors.NewTranscriptionError("failed to extract audio with FFmpeg", "AUDIO_EXTRACTION_ERROR", err)
	}
	return audioPath, nil
}
