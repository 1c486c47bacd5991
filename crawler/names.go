package crawler

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Academic title tokens that frequently prefix a personal name.
var nameTitleTokens = map[string]struct{}{
	"dr.": {}, "dr": {}, "prof.": {}, "prof": {}, "professor": {},
}

// Punctuation that essentially never appears in a person's display name.
const namePunctuationBlacklist = "@#$%&*()[]"

// NameLikelihood scores anchor text by how much it resembles a personal
// name, 0 to 4. Personal-name shape is the strongest non-keyword signal on
// flat directory listings, where link text is literally just "First Last".
func NameLikelihood(text string, academicPage bool) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	words := strings.Fields(text)
	score := 0

	if len(words) == 2 && isCapitalizedWord(words[0]) && isCapitalizedWord(words[1]) {
		score += 3
	}

	if len(words) == 3 && allCapitalizedOrInitials(words) {
		score += 2
	}

	// Lenient bonus on academic pages; stacks with the patterns above.
	if academicPage && len(words) >= 2 && allCapitalizedOrInitials(words) {
		score++
	}

	for _, w := range words {
		if _, ok := nameTitleTokens[strings.ToLower(w)]; ok {
			score++
			break
		}
	}

	if strings.ContainsAny(text, namePunctuationBlacklist) {
		score -= 2
	}

	if score < 0 {
		score = 0
	}
	if score > 4 {
		score = 4
	}
	return score
}

// isCapitalizedWord reports a word of length > 1 starting with an uppercase
// letter.
func isCapitalizedWord(w string) bool {
	if utf8.RuneCountInString(w) < 2 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r)
}

// isInitial matches single-letter initials like "J" or "J.".
func isInitial(w string) bool {
	trimmed := strings.TrimSuffix(w, ".")
	if utf8.RuneCountInString(trimmed) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return unicode.IsUpper(r)
}

func allCapitalizedOrInitials(words []string) bool {
	for _, w := range words {
		if !isCapitalizedWord(w) && !isInitial(w) {
			return false
		}
	}
	return true
}
