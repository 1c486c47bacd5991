package crawler

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

const regionsPage = `
<html><body>
	<nav><a href="/home" id="nav-link">Home</a></nav>
	<div class="footer">
		<div class="nav-inner"><a href="/privacy" id="nested-link">Privacy</a></div>
	</div>
	<aside class="sidebar"><a href="/events" id="side-link">Events</a></aside>
	<main class="content">
		<a href="/people/jane-smith" id="content-link">Jane Smith</a>
	</main>
	<a href="/orphan" id="orphan-link">Orphan</a>
</body></html>`

func TestAnalyzeRegions(t *testing.T) {
	doc := mustDoc(t, regionsPage)
	rs := AnalyzeRegions(doc)

	navLink := doc.Find("#nav-link")
	require.Equal(t, 1, navLink.Length())
	require.True(t, rs.InNonContent(navLink))

	sideLink := doc.Find("#side-link")
	require.True(t, rs.InNonContent(sideLink))

	contentLink := doc.Find("#content-link")
	require.False(t, rs.InNonContent(contentLink))
	require.True(t, rs.InContent(contentLink))

	orphan := doc.Find("#orphan-link")
	require.False(t, rs.InNonContent(orphan))
	require.False(t, rs.InContent(orphan))
}

func TestMultiRegionAnchorPenalizedOnce(t *testing.T) {
	// The nested link sits in both a footer region and a nav-classed div;
	// its score must match an anchor in a single non-content region.
	doc := mustDoc(t, regionsPage)
	rs := AnalyzeRegions(doc)

	nested := doc.Find("#nested-link")
	require.True(t, rs.InNonContent(nested))

	s := testScorer()
	multi := s.Score("Jane Smith", "https://example.edu/x", rs.InNonContent(nested), false)
	single := s.Score("Jane Smith", "https://example.edu/x", rs.InNonContent(doc.Find("#nav-link")), false)
	require.Equal(t, single, multi)
}

func TestRegionTextExtraction(t *testing.T) {
	doc := mustDoc(t, regionsPage)
	rs := AnalyzeRegions(doc)

	require.Contains(t, rs.NavText(), "Home")
	require.Contains(t, rs.ContentText(), "Jane Smith")
}
