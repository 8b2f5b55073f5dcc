package utils

import (
	"net/url"
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// IsValidURL reports whether s is a syntactically valid http(s) URL.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

// DomainFromURL extracts the host portion of a URL. Returns "" when the URL
// cannot be parsed.
func DomainFromURL(s string) string {
	u, err := url.Parse(s)
	if err != nil {
		return ""
	}
	return u.Host
}

// CleanText collapses runs of whitespace and optionally truncates to
// maxLength runes, appending an ellipsis. maxLength <= 0 disables truncation.
func CleanText(text string, maxLength int) string {
	cleaned := whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	if maxLength > 0 && len([]rune(cleaned)) > maxLength {
		cleaned = strings.TrimRight(string([]rune(cleaned)[:maxLength]), " ") + "..."
	}
	return cleaned
}

// skipPatterns are URL substrings that mark links not worth collecting:
// social share intents and static assets.
var skipPatterns = []string{
	"facebook.com/sharer",
	"twitter.com/intent",
	"linkedin.com/sharing",
	"pinterest.com/pin",
	"reddit.com/submit",
	".jpg",
	".jpeg",
	".png",
	".gif",
	".svg",
	".pdf",
	".zip",
	".css",
	".js",
}

// ShouldSkipURL reports whether a link URL matches a known skip pattern.
func ShouldSkipURL(s string) bool {
	lower := strings.ToLower(s)
	for _, pattern := range skipPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
