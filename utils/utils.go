package utils

import (
	"net/url"
	"strings"
)

// Schemes and anchor targets that never lead to a crawlable page.
var excludedPrefixes = []string{"javascript:", "mailto:", "tel:", "#"}

// Binary and media assets that should never reach the classifier.
var excludedExtensions = []string{
	".pdf", ".jpg", ".jpeg", ".png", ".gif", ".svg", ".ico",
	".css", ".js", ".zip", ".exe", ".dmg", ".mp3", ".mp4",
}

// IsValidURL reports whether rawURL is an absolute http(s) URL worth
// visiting.
func IsValidURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}

	return !HasExcludedExtension(rawURL)
}

// IsExcludedHref reports whether a raw href value should be skipped before
// resolution: empty, script/mail/tel targets, or fragment-only anchors.
func IsExcludedHref(href string) bool {
	href = strings.TrimSpace(href)
	if href == "" {
		return true
	}
	lower := strings.ToLower(href)
	for _, p := range excludedPrefixes {
		if strings.HasPrefix(lower, p) {
			return true
		}
	}
	return false
}

// HasExcludedExtension reports whether the URL path ends in a binary or
// media asset extension.
func HasExcludedExtension(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	for _, ext := range excludedExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// NormalizeURL strips the fragment and normalizes an empty path so the
// visited-set and dedup maps compare URLs consistently.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}

	return u.String()
}

// CleanFacultyURL strips query strings and fragments from faculty directory
// URLs. Directory pages frequently carry sort/filter parameters
// (?sort=last_name&field_department=...) that fragment the visited-set and
// hide the canonical listing.
func CleanFacultyURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	lowerPath := strings.ToLower(u.Path)
	for _, seg := range []string{"faculty", "people", "staff", "directory"} {
		if strings.Contains(lowerPath, seg) {
			u.RawQuery = ""
			u.Fragment = ""
			return u.String()
		}
	}
	return rawURL
}

// ResolveURL resolves href against base, returning "" when either side does
// not parse.
func ResolveURL(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	h, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}
