package downloader

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	apperrors "github.com/ladlehq/ladle/internal/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIsSupportedURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.instagram.com/p/abc123/", true},
		{"https://instagram.com/reel/xyz/", true},
		{"https://www.tiktok.com/@chef/video/123", true},
		{"http://youtube.com/watch?v=abc", true},
		{"https://vimeo.com/12345", false},
		{"ftp://instagram.com/p/abc/", false},
		{"not a url", false},
		{"https://instagram.com/", false},
	}

	for _, tt := range tests {
		if got := IsSupportedURL(tt.url); got != tt.want {
			t.Errorf("IsSupportedURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want Platform
	}{
		{"https://www.instagram.com/p/abc/", PlatformInstagram},
		{"https://tiktok.com/@chef/video/1", PlatformTikTok},
		{"https://www.youtube.com/watch?v=abc", PlatformYouTube},
		{"https://example.com/video", PlatformUnknown},
	}

	for _, tt := range tests {
		if got := DetectPlatform(tt.url); got != tt.want {
			t.Errorf("DetectPlatform(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestClassifyStderr(t *testing.T) {
	tests := []struct {
		stderr string
		want   string
	}{
		{"ERROR: rate-limit reached", KindRateLimit},
		{"Instagram API rate limit exceeded", KindRateLimit},
		{"ERROR: login required to view this content", KindLoginRequired},
		{"The requested content is not available", KindLoginRequired},
		{"ERROR: This account is private", KindPrivateContent},
		{"ERROR: Video not available in your region", KindContentUnavailable},
		{"some other failure", KindUnknown},
		{"", KindUnknown},
	}

	for _, tt := range tests {
		if got := ClassifyStderr(tt.stderr); got != tt.want {
			t.Errorf("ClassifyStderr(%q) = %q, want %q", tt.stderr, got, tt.want)
		}
	}
}

func TestFriendlySuggestions(t *testing.T) {
	base := FriendlySuggestions(KindRateLimit)
	if len(base) != 2 {
		t.Errorf("Expected 2 base suggestions, got %d", len(base))
	}
	if len(FriendlySuggestions(KindLoginRequired)) != 3 {
		t.Error("Expected extra suggestion for login_required")
	}
	if len(FriendlySuggestions(KindPrivateContent)) != 3 {
		t.Error("Expected extra suggestion for private_content")
	}
}

func TestCookieRender_Netscape(t *testing.T) {
	c := CookieConfig{Netscape: ".instagram.com\tTRUE\t/\tTRUE\t2147483647\tsessionid\tabc"}
	content := c.render()

	if !strings.HasPrefix(content, netscapeHeader) {
		t.Errorf("Expected header prepended, got %q", content)
	}
	if !strings.Contains(content, "sessionid\tabc") {
		t.Errorf("Expected verbatim cookie line, got %q", content)
	}
}

func TestCookieRender_SessionCookies(t *testing.T) {
	c := CookieConfig{SessionID: "sess123", CSRFToken: "csrf456"}
	content := c.render()

	for _, want := range []string{"sessionid\tsess123", "csrftoken\tcsrf456", netscapeHeader} {
		if !strings.Contains(content, want) {
			t.Errorf("Expected %q in rendered cookies:\n%s", want, content)
		}
	}
}

func TestCookieRender_CookieString(t *testing.T) {
	c := CookieConfig{CookieString: "sessionid=aaa; csrftoken=bbb"}
	content := c.render()

	if !strings.Contains(content, "sessionid\taaa") || !strings.Contains(content, "csrftoken\tbbb") {
		t.Errorf("Expected parsed cookie string, got %q", content)
	}
}

func TestCookieRender_SessionIDWinsOverCookieString(t *testing.T) {
	c := CookieConfig{SessionID: "primary", CookieString: "sessionid=ignored"}
	content := c.render()

	if strings.Contains(content, "ignored") {
		t.Errorf("Expected cookie string skipped when sessionid set, got %q", content)
	}
}

func TestWriteCookieFile(t *testing.T) {
	c := CookieConfig{SessionID: "sess"}
	path, cleanup, err := c.writeCookieFile()
	if err != nil {
		t.Fatalf("writeCookieFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read cookie file: %v", err)
	}
	if !strings.Contains(string(data), "sess") {
		t.Errorf("Expected session cookie in file, got %q", data)
	}

	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected cookie file removed after cleanup")
	}
}

func fakeRunner(results []struct {
	stdout string
	stderr string
	err    error
}, calls *[][]string) runner {
	i := 0
	return func(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
		*calls = append(*calls, append([]string{name}, args...))
		r := results[i]
		if i < len(results)-1 {
			i++
		}
		return []byte(r.stdout), []byte(r.stderr), r.err
	}
}

func TestFetchMetadata_Success(t *testing.T) {
	var calls [][]string
	c := NewClient(t.TempDir(), CookieConfig{}, testLogger())
	c.run = fakeRunner([]struct {
		stdout string
		stderr string
		err    error
	}{
		{stdout: `{"title":"Pasta","description":"Best pasta","thumbnail":"https://cdn.example.com/t.jpg"}`},
	}, &calls)

	meta, err := c.FetchMetadata(context.Background(), "https://www.instagram.com/p/abc/")
	if err != nil {
		t.Fatalf("FetchMetadata failed: %v", err)
	}
	if meta.Description != "Best pasta" || meta.Thumbnail != "https://cdn.example.com/t.jpg" {
		t.Errorf("Unexpected metadata: %+v", meta)
	}

	if len(calls) != 1 {
		t.Fatalf("Expected 1 invocation, got %d", len(calls))
	}
	args := strings.Join(calls[0], " ")
	if !strings.Contains(args, "-j --no-warnings") || !strings.Contains(args, "--cookies") {
		t.Errorf("Unexpected yt-dlp args: %v", calls[0])
	}
}

func TestFetchMetadata_RetriesWithMobileUA(t *testing.T) {
	var calls [][]string
	c := NewClient(t.TempDir(), CookieConfig{}, testLogger())
	c.run = fakeRunner([]struct {
		stdout string
		stderr string
		err    error
	}{
		{stderr: "ERROR: login required", err: errors.New("exit status 1")},
		{stdout: `{"description":"recovered"}`},
	}, &calls)

	meta, err := c.FetchMetadata(context.Background(), "https://www.instagram.com/p/abc/")
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if meta.Description != "recovered" {
		t.Errorf("Unexpected metadata: %+v", meta)
	}

	if len(calls) != 2 {
		t.Fatalf("Expected 2 invocations, got %d", len(calls))
	}
	if !strings.Contains(strings.Join(calls[1], " "), mobileUserAgent) {
		t.Errorf("Expected mobile user agent on retry, got %v", calls[1])
	}
}

func TestFetchMetadata_ClassifiedFailure(t *testing.T) {
	var calls [][]string
	c := NewClient(t.TempDir(), CookieConfig{}, testLogger())
	c.run = fakeRunner([]struct {
		stdout string
		stderr string
		err    error
	}{
		{stderr: "ERROR: This account is private", err: errors.New("exit status 1")},
	}, &calls)

	_, err := c.FetchMetadata(context.Background(), "https://www.instagram.com/p/abc/")
	if err == nil {
		t.Fatal("Expected error")
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("Expected AppError, got %T", err)
	}
	if appErr.Type != apperrors.ErrorTypeDownload {
		t.Errorf("Expected download error, got %v", appErr.Type)
	}
	if appErr.ErrorCode != KindPrivateContent {
		t.Errorf("Expected private_content code, got %q", appErr.ErrorCode)
	}
}

func TestDownloadAudio_Success(t *testing.T) {
	var calls [][]string
	dir := t.TempDir()
	c := NewClient(dir, CookieConfig{}, testLogger())
	c.run = fakeRunner([]struct {
		stdout string
		stderr string
		err    error
	}{
		{},
	}, &calls)

	path, err := c.DownloadAudio(context.Background(), "https://www.tiktok.com/@chef/video/1")
	if err != nil {
		t.Fatalf("DownloadAudio failed: %v", err)
	}
	if !strings.HasPrefix(path, dir) || !strings.HasSuffix(path, ".mp3") {
		t.Errorf("Unexpected audio path %q", path)
	}

	args := strings.Join(calls[0], " ")
	if !strings.Contains(args, "-x --audio-format mp3") {
		t.Errorf("Unexpected yt-dlp args: %v", calls[0])
	}
}

func TestDownloadAudio_FailureAfterRetry(t *testing.T) {
	var calls [][]string
	c := NewClient(t.TempDir(), CookieConfig{}, testLogger())
	c.run = fakeRunner([]struct {
		stdout string
		stderr string
		err    error
	}{
		{stderr: "rate limit exceeded", err: errors.New("exit status 1")},
	}, &calls)

	_, err := c.DownloadAudio(context.Background(), "https://www.instagram.com/p/abc/")
	if err == nil {
		t.Fatal("Expected error")
	}
	if len(calls) != 2 {
		t.Errorf("Expected retry before failing, got %d calls", len(calls))
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.ErrorCode != KindRateLimit {
		t.Errorf("Expected rate_limit classification, got %v", err)
	}
}
