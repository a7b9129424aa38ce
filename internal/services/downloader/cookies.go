package downloader

import (
	"fmt"
	"os"
	"strings"
)

const (
	netscapeHeader = "# Netscape HTTP Cookie File"
	cookieDomain   = ".instagram.com"
	// Far-future expiry to satisfy the cookies.txt format.
	cookieExpiry = 2147483647
)

// CookieConfig carries Instagram session material. Netscape content wins
// when present; otherwise individual cookies are assembled into a file.
type CookieConfig struct {
	Netscape     string
	SessionID    string
	CSRFToken    string
	CookieString string
}

// writeCookieFile materializes the configured cookies as a temporary
// Netscape cookies.txt and returns its path with a cleanup func. An empty
// config still produces a valid header-only file so yt-dlp invocations stay
// uniform.
func (c CookieConfig) writeCookieFile() (string, func(), error) {
	tmp, err := os.CreateTemp("", "ig_cookies_*.txt")
	if err != nil {
		return "", nil, fmt.Errorf("create cookie file: %w", err)
	}

	content := c.render()
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("write cookie file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("close cookie file: %w", err)
	}

	path := tmp.Name()
	return path, func() { os.Remove(path) }, nil
}

func (c CookieConfig) render() string {
	if c.Netscape != "" {
		content := c.Netscape
		if !strings.HasPrefix(strings.TrimLeft(content, " \t\n"), netscapeHeader) {
			content = netscapeHeader + "\n" + content
		}
		return content
	}

	lines := []string{netscapeHeader}
	addCookie := func(name, value string) {
		if value != "" {
			lines = append(lines, fmt.Sprintf("%s\tTRUE\t/\tTRUE\t%d\t%s\t%s", cookieDomain, cookieExpiry, name, value))
		}
	}

	addCookie("sessionid", c.SessionID)
	addCookie("csrftoken", c.CSRFToken)

	if c.SessionID == "" && c.CookieString != "" {
		for _, part := range strings.Split(c.CookieString, ";") {
			name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
			if ok {
				addCookie(strings.TrimSpace(name), strings.TrimSpace(value))
			}
		}
	}

	return strings.Join(lines, "\n") + "\n"
}
