package downloader

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	apperrors "github.com/ladlehq/ladle/internal/errors"
)

const mobileUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

// Metadata is the subset of yt-dlp video metadata the pipeline consumes.
type Metadata struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Thumbnail   string  `json:"thumbnail"`
	Uploader    string  `json:"uploader"`
	Duration    float64 `json:"duration"`
	WebpageURL  string  `json:"webpage_url"`
}

// runner executes an external command and returns its stdout and stderr.
// Indirection point for tests.
type runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	err := cmd.Run()
	return outBuf.Bytes(), errBuf.Bytes(), err
}

// Client fetches video metadata and audio through the yt-dlp binary. Blocked
// Instagram downloads are retried once with a mobile user agent before the
// stderr is classified into a friendly failure kind.
type Client struct {
	binary     string
	storageDir string
	cookies    CookieConfig
	logger     *slog.Logger
	run        runner
}

func NewClient(storageDir string, cookies CookieConfig, logger *slog.Logger) *Client {
	return &Client{
		binary:     "yt-dlp",
		storageDir: storageDir,
		cookies:    cookies,
		logger:     logger,
		run:        execRunner,
	}
}

// FetchMetadata retrieves video metadata as JSON via `yt-dlp -j`.
func (c *Client) FetchMetadata(ctx context.Context, url string) (*Metadata, error) {
	cookiePath, cleanup, err := c.cookies.writeCookieFile()
	if err != nil {
		return nil, apperrors.NewDownloadError("failed to prepare cookies", KindUnknown, err)
	}
	defer cleanup()

	args := []string{"-j", "--no-warnings", url, "--cookies", cookiePath}
	stdout, stderr, err := c.run(ctx, c.binary, args...)
	if err != nil {
		c.logger.WarnContext(ctx, "metadata fetch failed, retrying with mobile user agent",
			slog.String("url", url),
			slog.String("stderr", string(stderr)),
		)
		retryArgs := append([]string{"--user-agent", mobileUserAgent}, args...)
		stdout, stderr, err = c.run(ctx, c.binary, retryArgs...)
		if err != nil {
			return nil, classifyError("failed to fetch video metadata", string(stderr), err)
		}
	}

	var meta Metadata
	if err := json.Unmarshal(stdout, &meta); err != nil {
		return nil, apperrors.NewDownloadError("invalid metadata from yt-dlp", KindUnknown, err)
	}
	return &meta, nil
}

// DownloadAudio extracts the video's audio track as mp3 and returns the file
// path. The caller owns the file and removes it when done.
func (c *Client) DownloadAudio(ctx context.Context, url string) (string, error) {
	cookiePath, cleanup, err := c.cookies.writeCookieFile()
	if err != nil {
		return "", apperrors.NewDownloadError("failed to prepare cookies", KindUnknown, err)
	}
	defer cleanup()

	audioPath := filepath.Join(c.storageDir, uuid.NewString()+".mp3")
	args := []string{"-x", "--audio-format", "mp3", "-o", audioPath, url, "--cookies", cookiePath}
	_, stderr, err := c.run(ctx, c.binary, args...)
	if err != nil {
		c.logger.WarnContext(ctx, "audio download failed, retrying with mobile user agent",
			slog.String("url", url),
			slog.String("stderr", string(stderr)),
		)
		retryArgs := append([]string{"--user-agent", mobileUserAgent}, args...)
		_, stderr, err = c.run(ctx, c.binary, retryArgs...)
		if err != nil {
			return "", classifyError("failed to download audio", string(stderr), err)
		}
	}
	return audioPath, nil
}

func classifyError(message, stderr string, err error) *apperrors.AppError {
	kind := ClassifyStderr(stderr)
	appErr := apperrors.NewDownloadError(message, kind, err)
	appErr.Recovery = FriendlyMessage(kind)
	return appErr
}
