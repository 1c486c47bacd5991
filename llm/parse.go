package llm

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// Models sometimes wrap JSON answers in markdown fences or stray prose, and
// sometimes ignore the format request entirely. Parsing is therefore two
// explicit stages: structured JSON first, then a named regex fallback that
// scrapes what it can from the raw text. The fallback is a real branch with
// its own tests, not a silent catch-all.

var (
	jsonBlockPattern  = regexp.MustCompile(`(?s)\{.*\}`)
	confidencePattern = regexp.MustCompile(`(?i)confidence[^0-9]{0,10}([01](?:\.\d+)?)`)
	scorePattern      = regexp.MustCompile(`(\d{1,3})\s*(?:/\s*100|分|点|%)`)
	bareNumberPattern = regexp.MustCompile(`(?:^|\D)(\d{1,3})(?:\D|$)`)
)

type classifyJSON struct {
	IsProfessor bool    `json:"is_professor"`
	Confidence  float64 `json:"confidence"`
	Name        string  `json:"name"`
	Title       string  `json:"title"`
	Department  string  `json:"department"`
}

func parseClassifyResponse(raw string) ClassifyResult {
	if block := jsonBlockPattern.FindString(raw); block != "" {
		var parsed classifyJSON
		if err := json.Unmarshal([]byte(block), &parsed); err == nil {
			return ClassifyResult{
				IsProfessor: parsed.IsProfessor,
				Confidence:  clampConfidence(parsed.Confidence),
				Name:        parsed.Name,
				Title:       parsed.Title,
				Department:  parsed.Department,
				Structured:  true,
				Raw:         raw,
			}
		}
	}

	// Fallback: YES/NO answer plus an optional confidence mention.
	upper := strings.ToUpper(raw)
	result := ClassifyResult{
		IsProfessor: strings.Contains(upper, "YES") && !strings.Contains(upper, "NO,"),
		Confidence:  0.5,
		Structured:  false,
		Raw:         raw,
	}
	if m := confidencePattern.FindStringSubmatch(raw); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			result.Confidence = clampConfidence(v)
		}
	}
	return result
}

type profileJSON struct {
	Interests string   `json:"interests"`
	Keywords  []string `json:"keywords"`
}

func parseProfileResponse(raw string) ProfileResult {
	if block := jsonBlockPattern.FindString(raw); block != "" {
		var parsed profileJSON
		if err := json.Unmarshal([]byte(block), &parsed); err == nil && parsed.Interests != "" {
			return ProfileResult{
				Interests:  parsed.Interests,
				Keywords:   parsed.Keywords,
				Structured: true,
				Raw:        raw,
			}
		}
	}

	// Fallback: the whole answer stands in as the interests summary.
	return ProfileResult{
		Interests:  strings.TrimSpace(raw),
		Structured: false,
		Raw:        raw,
	}
}

// ExtractSimilarityScore pulls a 0-100 score out of a free-text similarity
// analysis: formatted scores first ("85/100", "85分"), then the largest
// plausible bare number.
func ExtractSimilarityScore(text string) int {
	if m := scorePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 && n <= 100 {
			return n
		}
	}

	best := 0
	for _, m := range bareNumberPattern.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 0 || n > 100 {
			continue
		}
		if n > best {
			best = n
		}
	}
	return best
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
