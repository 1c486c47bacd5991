package crawler

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"faculty-finder/models"
	"faculty-finder/utils"
)

// Caps on how much page text is shipped to the LLM.
const (
	textPreviewLimit   = 3000
	researchSectionCap = 500
	maxRelatedURLs     = 3
)

// Keywords whose presence on a candidate page is reported to the classifier
// as supporting evidence.
var facultyPageKeywords = []string{
	"professor", "faculty", "dr.", "ph.d", "phd", "research interests",
	"publications", "curriculum vitae", "cv", "teaching",
	"associate professor", "assistant professor", "scholar",
}

// Section headers that mark research-interest content.
var researchHeaderKeywords = []string{
	"research", "interests", "projects", "expertise", "publications",
}

// Link hints for a professor's related pages (CV, publication lists, labs).
var relatedLinkKeywords = []string{
	"cv", "curriculum vitae", "publications", "research", "lab", "google scholar",
}

// ExtractPageFeatures assembles the evidence bundle the classifier sees:
// title, meta description, a bounded text preview and matched keywords.
func ExtractPageFeatures(doc *goquery.Document, pageURL string) models.PageFeatures {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	metaDesc, _ := doc.Find("meta[name='description']").First().Attr("content")

	text := strippedText(doc)
	preview := truncateAtRune(text, textPreviewLimit)

	lowerText := strings.ToLower(text)
	lowerTitle := strings.ToLower(title)
	var matches []string
	for _, kw := range facultyPageKeywords {
		if strings.Contains(lowerText, kw) || strings.Contains(lowerTitle, kw) {
			matches = append(matches, kw)
		}
	}

	return models.PageFeatures{
		URL:             pageURL,
		Title:           title,
		MetaDescription: strings.TrimSpace(metaDesc),
		TextPreview:     preview,
		KeywordMatches:  matches,
	}
}

// ExtractResearchContent collects research-specific sections: any h1-h4
// whose text mentions a research keyword, plus the paragraphs and lists
// that follow it up to the next header. Pages without labeled sections fall
// back to the general text preview.
func ExtractResearchContent(doc *goquery.Document) string {
	var sections []string

	doc.Find("h1, h2, h3, h4").Each(func(_ int, header *goquery.Selection) {
		headerText := strings.ToLower(strings.TrimSpace(header.Text()))
		if !containsAny(headerText, researchHeaderKeywords) {
			return
		}

		var parts []string
		header.NextUntil("h1, h2, h3, h4").Each(func(_ int, sib *goquery.Selection) {
			if !sib.Is("p, ul, ol, div") {
				return
			}
			if t := strings.TrimSpace(sib.Text()); t != "" {
				parts = append(parts, t)
			}
		})
		if len(parts) == 0 {
			return
		}

		body := truncateAtRune(strings.Join(parts, " "), researchSectionCap)
		sections = append(sections, headerText+": "+body)
	})

	if len(sections) > 0 {
		return strings.Join(sections, "\n\n")
	}

	return truncateAtRune(strippedText(doc), textPreviewLimit)
}

// ExtractRelatedURLs harvests up to three CV/publications/lab links from a
// confirmed faculty page.
func ExtractRelatedURLs(doc *goquery.Document, pageURL string) []string {
	base := EffectiveBaseURL(doc, pageURL)
	seen := map[string]bool{utils.NormalizeURL(pageURL): true}
	var related []string

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		href, _ := sel.Attr("href")
		if utils.IsExcludedHref(href) {
			return true
		}
		if !containsAny(text, relatedLinkKeywords) && !containsAny(strings.ToLower(href), relatedLinkKeywords) {
			return true
		}

		absolute := utils.ResolveURL(base, href)
		if absolute == "" {
			return true
		}
		absolute = utils.NormalizeURL(absolute)
		if seen[absolute] {
			return true
		}
		seen[absolute] = true
		related = append(related, absolute)
		return len(related) < maxRelatedURLs
	})

	return related
}

// truncateAtRune cuts s to at most limit bytes, backing up to the nearest
// rune boundary so a multi-byte character is never split.
func truncateAtRune(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

func strippedText(doc *goquery.Document) string {
	clone := doc.Clone()
	clone.Find("script, style, noscript").Remove()
	return strings.Join(strings.Fields(clone.Find("body").Text()), " ")
}
