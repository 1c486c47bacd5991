package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"faculty-finder/utils"
)

// Canonical "next page" anchor texts, including the common CJK form.
var nextPageTexts = map[string]struct{}{
	"next": {}, "next page": {}, ">": {}, "»": {}, "下一页": {},
}

// EffectiveBaseURL returns the URL that relative hrefs on this page resolve
// against: the page URL itself unless an explicit <base href> overrides it.
func EffectiveBaseURL(doc *goquery.Document, pageURL string) string {
	base := pageURL

	doc.Find("base[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return true
		}
		if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
			base = href
		} else if resolved := utils.ResolveURL(pageURL, href); resolved != "" {
			base = resolved
		}
		return false
	})

	return base
}

// NextPageURL locates a "next page" link: first by relation attribute, then
// by exact anchor-text match. Best effort; returns "" when nothing matches.
func NextPageURL(doc *goquery.Document, baseURL string) string {
	next := ""

	doc.Find("a[rel]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		rel, _ := sel.Attr("rel")
		if !strings.Contains(strings.ToLower(rel), "next") {
			return true
		}
		href, ok := sel.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return true
		}
		next = utils.ResolveURL(baseURL, href)
		return false
	})
	if next != "" {
		return next
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(sel.Text()))
		if _, ok := nextPageTexts[text]; !ok {
			return true
		}
		href, _ := sel.Attr("href")
		if strings.TrimSpace(href) == "" {
			return true
		}
		next = utils.ResolveURL(baseURL, href)
		return false
	})

	return next
}
