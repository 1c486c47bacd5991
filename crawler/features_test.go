package crawler

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const facultyProfileHTML = `
<html><head>
	<title>Dr. Jane Smith - Professor of Physics</title>
	<meta name="description" content="Faculty profile for Jane Smith">
	<style>body { color: red; }</style>
</head><body>
	<script>trackPageView();</script>
	<h1>Dr. Jane Smith</h1>
	<p>Associate Professor, Department of Physics.</p>
	<h2>Research Interests</h2>
	<p>Quantum materials and nonlinear optics.</p>
	<ul><li>Topological insulators</li></ul>
	<h2>Teaching</h2>
	<p>PHYS 101, PHYS 440.</p>
	<a href="/people/jane-smith/cv.html">Curriculum Vitae</a>
	<a href="https://scholar.example.com/jane">Google Scholar</a>
	<a href="/people/jane-smith/lab">Smith Lab</a>
	<a href="/people/jane-smith/talks">Talks</a>
	<a href="mailto:jane@example.edu">Publications inbox</a>
</body></html>`

func TestExtractPageFeatures(t *testing.T) {
	doc := mustDoc(t, facultyProfileHTML)
	features := ExtractPageFeatures(doc, "https://example.edu/people/jane-smith")

	assert.Equal(t, "https://example.edu/people/jane-smith", features.URL)
	assert.Equal(t, "Dr. Jane Smith - Professor of Physics", features.Title)
	assert.Equal(t, "Faculty profile for Jane Smith", features.MetaDescription)

	assert.Contains(t, features.KeywordMatches, "professor")
	assert.Contains(t, features.KeywordMatches, "research interests")
	assert.Contains(t, features.KeywordMatches, "teaching")

	assert.NotContains(t, features.TextPreview, "trackPageView")
	assert.NotContains(t, features.TextPreview, "color: red")
	assert.Contains(t, features.TextPreview, "Quantum materials")
}

func TestExtractPageFeaturesPreviewBounded(t *testing.T) {
	long := "<html><body><p>" + strings.Repeat("faculty research ", 1000) + "</p></body></html>"
	doc := mustDoc(t, long)

	features := ExtractPageFeatures(doc, "https://example.edu/people")
	assert.LessOrEqual(t, len(features.TextPreview), 3000)
}

func TestExtractPageFeaturesPreviewRuneSafe(t *testing.T) {
	// The prefix shifts the byte offsets so the cut point falls inside a
	// multi-byte character.
	long := "<html><body><p>a " + strings.Repeat("研", 1200) + "</p></body></html>"
	doc := mustDoc(t, long)

	features := ExtractPageFeatures(doc, "https://example.edu/people/jane-smith")
	assert.LessOrEqual(t, len(features.TextPreview), 3000)
	assert.True(t, utf8.ValidString(features.TextPreview))
}

func TestExtractResearchContentSections(t *testing.T) {
	doc := mustDoc(t, facultyProfileHTML)
	content := ExtractResearchContent(doc)

	assert.Contains(t, content, "research interests")
	assert.Contains(t, content, "Quantum materials and nonlinear optics.")
	assert.Contains(t, content, "Topological insulators")
	assert.NotContains(t, content, "PHYS 101")
}

func TestExtractResearchContentFallback(t *testing.T) {
	doc := mustDoc(t, `<html><body><p>Jane studies ocean currents.</p></body></html>`)
	content := ExtractResearchContent(doc)
	assert.Contains(t, content, "ocean currents")
}

func TestExtractRelatedURLs(t *testing.T) {
	doc := mustDoc(t, facultyProfileHTML)
	related := ExtractRelatedURLs(doc, "https://example.edu/people/jane-smith")

	require.Len(t, related, 3, "capped at three related links")
	assert.Equal(t, "https://example.edu/people/jane-smith/cv.html", related[0])
	assert.Equal(t, "https://scholar.example.com/jane", related[1])
	assert.Equal(t, "https://example.edu/people/jane-smith/lab", related[2])
}

func TestExtractRelatedURLsSkipsSelfAndMailto(t *testing.T) {
	doc := mustDoc(t, `
		<html><body>
			<a href="https://example.edu/people/jane-smith">Research overview</a>
			<a href="mailto:jane@example.edu">Publications inbox</a>
			<a href="/people/jane-smith/cv">CV</a>
		</body></html>`)

	related := ExtractRelatedURLs(doc, "https://example.edu/people/jane-smith")
	assert.Equal(t, []string{"https://example.edu/people/jane-smith/cv"}, related)
}
