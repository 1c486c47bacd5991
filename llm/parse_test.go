package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseClassifyResponseJSON(t *testing.T) {
	raw := `{"is_professor": true, "confidence": 0.92, "name": "Jane Smith", "title": "Professor", "department": "Physics"}`

	result := parseClassifyResponse(raw)
	assert.True(t, result.Structured)
	assert.True(t, result.IsProfessor)
	assert.InDelta(t, 0.92, result.Confidence, 1e-9)
	assert.Equal(t, "Jane Smith", result.Name)
	assert.Equal(t, "Physics", result.Department)
}

func TestParseClassifyResponseFencedJSON(t *testing.T) {
	raw := "Here is my assessment:\n```json\n{\"is_professor\": false, \"confidence\": 0.7}\n```\nLet me know if you need more."

	result := parseClassifyResponse(raw)
	assert.True(t, result.Structured)
	assert.False(t, result.IsProfessor)
	assert.InDelta(t, 0.7, result.Confidence, 1e-9)
}

func TestParseClassifyResponseConfidenceClamped(t *testing.T) {
	result := parseClassifyResponse(`{"is_professor": true, "confidence": 1.8}`)
	assert.Equal(t, 1.0, result.Confidence)
}

func TestParseClassifyResponseYesFallback(t *testing.T) {
	result := parseClassifyResponse("YES, this appears to be a faculty page. Confidence: 0.8")

	assert.False(t, result.Structured)
	assert.True(t, result.IsProfessor)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
}

func TestParseClassifyResponseNoFallback(t *testing.T) {
	result := parseClassifyResponse("No, this is a course catalog page.")

	assert.False(t, result.Structured)
	assert.False(t, result.IsProfessor)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9, "missing confidence gets the coarse default")
}

func TestParseProfileResponseJSON(t *testing.T) {
	raw := `{"interests": "quantum materials", "keywords": ["quantum", "optics"]}`

	result := parseProfileResponse(raw)
	assert.True(t, result.Structured)
	assert.Equal(t, "quantum materials", result.Interests)
	assert.Equal(t, []string{"quantum", "optics"}, result.Keywords)
}

func TestParseProfileResponseEmptyInterestsFallsBack(t *testing.T) {
	raw := `{"interests": "", "keywords": []}`

	result := parseProfileResponse(raw)
	assert.False(t, result.Structured)
	assert.Equal(t, raw, result.Interests)
}

func TestParseProfileResponsePlainText(t *testing.T) {
	raw := "  The professor works on distributed systems and consensus protocols.  "

	result := parseProfileResponse(raw)
	assert.False(t, result.Structured)
	assert.Equal(t, "The professor works on distributed systems and consensus protocols.", result.Interests)
	assert.Empty(t, result.Keywords)
}

func TestExtractSimilarityScore(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"Score: 85/100. Strong overlap in quantum sensing.", 85},
		{"相似度为85分，研究方向高度重合。", 85},
		{"I would rate the overlap at 90%.", 90},
		{"The interests align well, maybe 72 overall.", 72},
		{"Somewhere between 40 and 60 depending on weighting.", 60},
		{"The similarity is 250.", 0},
		{"No measurable overlap.", 0},
		{"", 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ExtractSimilarityScore(tc.text), "text %q", tc.text)
	}
}
