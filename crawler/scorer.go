package crawler

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Keep thresholds applied by callers, not the scorer itself. The academic
// bar is deliberately lower: academic pages are assumed dense with true
// positives, so recall wins over precision there.
const (
	AcademicThreshold = 1.5
	GenericThreshold  = 2.0
)

// Threshold returns the keep threshold for the current page.
func Threshold(academicPage bool) float64 {
	if academicPage {
		return AcademicThreshold
	}
	return GenericThreshold
}

// Anchor-text keywords. The strong subset contributes double weight per
// match; the total keyword contribution is capped at 4 points.
var strongAnchorKeywords = []string{"professor", "faculty", "dr.", "ph.d", "scholar"}

var anchorKeywords = []string{
	"staff", "people", "members", "researcher", "team", "lecturer",
	"instructor", "dean", "chair", "academic",
}

// URL path keywords worth 2 points, plus narrower canonical segments worth
// one more.
var urlPathKeywords = []string{"faculty", "people", "staff", "profile", "directory"}

var canonicalPathSegments = []string{
	"/faculty/", "/people/", "/staff/", "/directory/", "/profiles/", "/bio/", "/academic/",
}

// Structural URL patterns, mutually exclusive, highest priority first.
var (
	numericProfilePattern = regexp.MustCompile(`/(?:user|profile|member)/\d+/?$`)
	directoryNamePattern  = regexp.MustCompile(`/(?:people|faculty|staff|directory)/\w+/?$`)
	nameSlugPattern       = regexp.MustCompile(`/[A-Za-z]+(?:[-_.][A-Za-z]+)+/?$`)
)

var degreeTokenPattern = regexp.MustCompile(`(?i)\b(?:ph\.?d|m\.?d|m\.?s|m\.?a|b\.?a|b\.?s)\b`)

// Navigational terms that mark a link as site chrome rather than a person.
var blacklistKeywords = []string{
	"home", "contact", "news", "events", "login", "search", "admin",
	"privacy", "sitemap", "programs", "admissions", "tuition", "apply",
	"campus", "library", "calendar", "alumni", "donate", "career", "job",
	"about us", "site map", "help", "faq",
}

// Infrastructure path fragments that never lead to a faculty page.
var badURLFragments = []string{
	"/admin/", "/login/", "/search/", "/api/", "/static/", "/css/", "/js/",
	"/assets/", "/images/", "/downloads/", "/resources/", "/forms/", "/application/",
}

// Scorer assigns each candidate link a 0-10 relevance score from anchor
// text, URL shape, structural position and blacklist penalties.
type Scorer struct {
	log *zap.SugaredLogger
}

func NewScorer(log *zap.SugaredLogger) *Scorer {
	return &Scorer{log: log}
}

// Score evaluates one anchor. inNonContent marks membership in any of the
// navigation/footer/sidebar regions; academicPage is the current page's
// academic classification. The result is clamped to [0,10].
func (s *Scorer) Score(anchorText, absoluteURL string, inNonContent, academicPage bool) float64 {
	text := strings.TrimSpace(anchorText)
	lowerText := strings.ToLower(text)
	lowerURL := strings.ToLower(absoluteURL)

	// Every link starts at 1 so "scored low" stays distinguishable from
	// "excluded outright".
	score := 1.0

	keywordPoints, keywordMatched := anchorKeywordScore(lowerText)
	score += keywordPoints

	score += urlPathScore(lowerURL)
	score += urlStructureScore(lowerURL)
	score += float64(NameLikelihood(text, academicPage))

	if academicPage {
		// Chrome phrases like "Contact Us" share the two-capitalized-words
		// shape; blacklisted text never earns the name-shape bonus.
		if !keywordMatched && !containsAny(lowerText, blacklistKeywords) && isTwoPlainCapitalizedWords(text) {
			score += 2
		}
		if degreeTokenPattern.MatchString(text) {
			score++
		}
	}

	if inNonContent {
		score--
	}

	score -= blacklistPenalty(lowerText, lowerURL)

	for _, fragment := range badURLFragments {
		if strings.Contains(lowerURL, fragment) {
			score -= 3
			break
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}

	if score >= 3 && s.log != nil {
		s.log.Debugw("potential faculty link", "url", absoluteURL, "text", text, "score", score)
	}
	return score
}

// anchorKeywordScore returns the capped weighted keyword contribution and
// whether any keyword matched at all.
func anchorKeywordScore(lowerText string) (float64, bool) {
	points := 0.0
	matched := false

	for _, kw := range strongAnchorKeywords {
		if strings.Contains(lowerText, kw) {
			points += 2
			matched = true
		}
	}
	for _, kw := range anchorKeywords {
		if strings.Contains(lowerText, kw) {
			points++
			matched = true
		}
	}

	if points > 4 {
		points = 4
	}
	return points, matched
}

func urlPathScore(lowerURL string) float64 {
	score := 0.0

	for _, kw := range urlPathKeywords {
		if strings.Contains(lowerURL, kw) {
			score += 2
			break
		}
	}
	for _, seg := range canonicalPathSegments {
		if strings.Contains(lowerURL, seg) {
			score++
			break
		}
	}
	return score
}

// urlStructureScore awards the single highest-priority structural pattern:
// numeric profile endpoints, directory-scoped name segments, then generic
// firstname-lastname slugs. Patterns match the path only; a dotted hostname
// must never read as a name slug.
func urlStructureScore(lowerURL string) float64 {
	u, err := url.Parse(lowerURL)
	if err != nil {
		return 0
	}

	switch {
	case numericProfilePattern.MatchString(u.Path):
		return 3
	case directoryNamePattern.MatchString(u.Path):
		return 3
	case nameSlugPattern.MatchString(u.Path):
		return 2
	}
	return 0
}

func blacklistPenalty(lowerText, lowerURL string) float64 {
	count := 0
	for _, kw := range blacklistKeywords {
		if strings.Contains(lowerText, kw) {
			count++
		}
		if strings.Contains(lowerURL, kw) {
			count++
		}
	}

	penalty := 1.5 * float64(count)
	if penalty > 3 {
		penalty = 3
	}
	return penalty
}

// isTwoPlainCapitalizedWords matches exactly two capitalized words with no
// abbreviation periods, the shape of an unadorned "First Last" listing.
func isTwoPlainCapitalizedWords(text string) bool {
	words := strings.Fields(text)
	if len(words) != 2 {
		return false
	}
	for _, w := range words {
		if strings.Contains(w, ".") || !isCapitalizedWord(w) {
			return false
		}
	}
	return true
}
