package downloader

import "strings"

// Failure kinds classified from yt-dlp stderr. Instagram is the main source
// of blocked downloads; the kinds drive the user-facing guidance.
const (
	KindRateLimit          = "rate_limit"
	KindLoginRequired      = "login_required"
	KindPrivateContent     = "private_content"
	KindContentUnavailable = "content_unavailable"
	KindUnknown            = "unknown"
)

// ClassifyStderr maps yt-dlp stderr output onto a failure kind. Matching is
// ordered: login markers must win over the generic "not available" phrase
// that appears in both messages.
func ClassifyStderr(stderr string) string {
	s := strings.ToLower(stderr)
	switch {
	case strings.Contains(s, "rate-limit") || strings.Contains(s, "rate limit"):
		return KindRateLimit
	case strings.Contains(s, "login required") || strings.Contains(s, "requested content is not available"):
		return KindLoginRequired
	case strings.Contains(s, "private"):
		return KindPrivateContent
	case strings.Contains(s, "not available"):
		return KindContentUnavailable
	default:
		return KindUnknown
	}
}

// FriendlyTitle returns a heading for the failure kind.
func FriendlyTitle(kind string) string {
	switch kind {
	case KindRateLimit:
		return "Instagram Rate Limit Reached"
	case KindLoginRequired:
		return "Login Required by Instagram"
	case KindPrivateContent:
		return "Private Instagram Content"
	case KindContentUnavailable:
		return "Content Not Available"
	default:
		return "Download Failed"
	}
}

// FriendlyMessage returns a one-line explanation for the failure kind.
func FriendlyMessage(kind string) string {
	switch kind {
	case KindRateLimit:
		return "Instagram is temporarily blocking automated access. This is usually temporary."
	case KindLoginRequired:
		return "Instagram requires a logged-in session to view this post."
	case KindPrivateContent:
		return "The account is private. Media cannot be accessed automatically."
	case KindContentUnavailable:
		return "This post may be deleted or restricted."
	default:
		return "We couldn't download this video right now."
	}
}

// FriendlySuggestions returns recovery steps for the failure kind.
func FriendlySuggestions(kind string) []string {
	suggestions := []string{
		"Try again in 15-30 minutes",
		"You can still add the recipe manually from the post caption",
	}
	switch kind {
	case KindLoginRequired:
		suggestions = append(suggestions, "If you can open it in the app, copy ingredients/instructions into Mealie")
	case KindPrivateContent:
		suggestions = append(suggestions, "Follow the account to view it in Instagram, then copy details manually")
	}
	return suggestions
}
