package crawler

import (
	"context"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"faculty-finder/fetcher"
	"faculty-finder/models"
	"faculty-finder/utils"
)

// Keyword-only priorities used by the baseline collector: 2 for a match in
// anchor text, 1 for a match in the href, 0 otherwise.
var baselineKeywords = []string{
	"faculty", "professor", "staff", "people", "members", "researchers", "team",
}

// SimpleCollector is the pre-scoring baseline: it keeps every crawlable
// anchor and ranks only by coarse keyword priority. Kept for comparison
// runs against the scored collector.
type SimpleCollector struct {
	fetch fetcher.Fetcher
	log   *zap.SugaredLogger
}

func NewSimpleCollector(fetch fetcher.Fetcher, log *zap.SugaredLogger) *SimpleCollector {
	return &SimpleCollector{fetch: fetch, log: log}
}

// Collect mirrors Collector.Collect's traversal but without structural
// scoring or threshold filtering.
func (c *SimpleCollector) Collect(ctx context.Context, seedURL string, followPagination bool, maxPages int) []models.CandidateLink {
	if maxPages < 1 {
		maxPages = 1
	}

	queue := []string{seedURL}
	visited := map[string]bool{}
	var collected []models.CandidateLink
	pageCount := 0

	for len(queue) > 0 && pageCount < maxPages {
		if ctx.Err() != nil {
			break
		}

		current := queue[0]
		queue = queue[1:]

		normalized := utils.NormalizeURL(current)
		if visited[normalized] {
			continue
		}
		visited[normalized] = true

		body, err := c.fetch.Fetch(ctx, current)
		if err != nil {
			c.log.Warnw("page fetch failed, skipping", "url", current, "error", err)
			continue
		}
		pageCount++

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			continue
		}

		base := EffectiveBaseURL(doc, current)

		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if utils.IsExcludedHref(href) {
				return
			}
			absolute := utils.ResolveURL(base, href)
			if absolute == "" || !utils.IsValidURL(absolute) {
				return
			}

			text := strings.ToLower(strings.TrimSpace(sel.Text()))
			priority := 0.0
			if containsAny(text, baselineKeywords) {
				priority = 2
			} else if containsAny(strings.ToLower(absolute), baselineKeywords) {
				priority = 1
			}

			collected = append(collected, models.CandidateLink{
				URL:        utils.NormalizeURL(absolute),
				Score:      priority,
				AnchorText: text,
			})
		})

		if followPagination {
			if next := NextPageURL(doc, base); next != "" && !visited[utils.NormalizeURL(next)] {
				queue = append(queue, next)
			}
		}
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].Score > collected[j].Score
	})

	seen := make(map[string]bool, len(collected))
	unique := collected[:0:0]
	for _, l := range collected {
		if seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		unique = append(unique, l)
	}
	return unique
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
