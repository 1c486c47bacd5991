// Package crawler implements the faculty-page link discovery engine: page
// structure analysis, heuristic link scoring, pagination following, crawl
// parameter estimation and the adaptive re-crawl controller.
package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Selector lists per region category. Membership is a set union over all
// matched elements' descendant anchors.
const (
	navSelectors     = "nav, header, [class*='nav'], [id*='nav'], [class*='menu'], [id*='menu'], [class*='navbar']"
	footerSelectors  = "footer, [class*='footer'], [id*='footer']"
	sidebarSelectors = "aside, [class*='sidebar'], [id*='sidebar'], [class*='widget']"
	contentSelectors = "main, article, [class*='content'], [id*='content']"
)

// RegionSet partitions a page's anchors into navigation, footer, sidebar and
// content regions. An anchor may appear in several regions at once; scoring
// treats "in any non-content region" as a single boolean.
type RegionSet struct {
	nav     map[*html.Node]struct{}
	footer  map[*html.Node]struct{}
	sidebar map[*html.Node]struct{}
	content map[*html.Node]struct{}

	navText     string
	contentText string
}

// AnalyzeRegions builds the RegionSet for a parsed page. Pure function of
// the document.
func AnalyzeRegions(doc *goquery.Document) *RegionSet {
	rs := &RegionSet{
		nav:     anchorNodes(doc, navSelectors),
		footer:  anchorNodes(doc, footerSelectors),
		sidebar: anchorNodes(doc, sidebarSelectors),
		content: anchorNodes(doc, contentSelectors),
	}
	rs.navText = regionText(doc, navSelectors)
	rs.contentText = regionText(doc, contentSelectors)
	return rs
}

func anchorNodes(doc *goquery.Document, selectors string) map[*html.Node]struct{} {
	nodes := make(map[*html.Node]struct{})
	doc.Find(selectors).Find("a").Each(func(_ int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			nodes[n] = struct{}{}
		}
	})
	return nodes
}

func regionText(doc *goquery.Document, selectors string) string {
	var b strings.Builder
	doc.Find(selectors).Each(func(_ int, sel *goquery.Selection) {
		b.WriteString(sel.Text())
		b.WriteString(" ")
	})
	return b.String()
}

// InNonContent reports whether the anchor belongs to the navigation, footer
// or sidebar region. The penalty for this is applied once, never stacked
// across regions.
func (rs *RegionSet) InNonContent(sel *goquery.Selection) bool {
	for _, n := range sel.Nodes {
		if _, ok := rs.nav[n]; ok {
			return true
		}
		if _, ok := rs.footer[n]; ok {
			return true
		}
		if _, ok := rs.sidebar[n]; ok {
			return true
		}
	}
	return false
}

// InContent reports whether the anchor sits inside a recognized content
// region.
func (rs *RegionSet) InContent(sel *goquery.Selection) bool {
	for _, n := range sel.Nodes {
		if _, ok := rs.content[n]; ok {
			return true
		}
	}
	return false
}

// NavText returns the concatenated text of all navigation-region elements.
func (rs *RegionSet) NavText() string { return rs.navText }

// ContentText returns the concatenated text of all content-region elements.
func (rs *RegionSet) ContentText() string { return rs.contentText }
