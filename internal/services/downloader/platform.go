package downloader

import "regexp"

// Platform identifies the social network a URL belongs to.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformYouTube   Platform = "youtube"
	PlatformUnknown   Platform = ""
)

var (
	supportedURL = regexp.MustCompile(`^https?://(www\.)?(instagram\.com/|tiktok\.com/|youtube\.com/).+`)
	instagramURL = regexp.MustCompile(`^https?://(www\.)?instagram\.com/`)
	tiktokURL    = regexp.MustCompile(`^https?://(www\.)?tiktok\.com/`)
	youtubeURL   = regexp.MustCompile(`^https?://(www\.)?youtube\.com/`)
)

// IsSupportedURL reports whether the URL points at a platform the pipeline
// can ingest.
func IsSupportedURL(url string) bool {
	return supportedURL.MatchString(url)
}

// DetectPlatform returns the platform for a URL, or PlatformUnknown.
func DetectPlatform(url string) Platform {
	switch {
	case instagramURL.MatchString(url):
		return PlatformInstagram
	case tiktokURL.MatchString(url):
		return PlatformTikTok
	case youtubeURL.MatchString(url):
		return PlatformYouTube
	default:
		return PlatformUnknown
	}
}
