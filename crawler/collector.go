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

// Collector turns a seed URL into a ranked, deduplicated candidate link
// list, optionally following pagination. Traversal is strictly sequential;
// parallelism belongs to the classification stage downstream.
type Collector struct {
	fetch  fetcher.Fetcher
	scorer *Scorer
	log    *zap.SugaredLogger
}

func NewCollector(fetch fetcher.Fetcher, scorer *Scorer, log *zap.SugaredLogger) *Collector {
	return &Collector{fetch: fetch, scorer: scorer, log: log}
}

// Collect visits pages breadth-first from seedURL until the queue drains or
// maxPages pages have been fetched, scoring every anchor and keeping those
// above the academic-aware threshold. A fetch failure skips that one page;
// a failed seed yields an empty result, not an error.
func (c *Collector) Collect(ctx context.Context, seedURL string, followPagination bool, maxPages int) []models.CandidateLink {
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

		c.log.Infow("extracting links", "url", current, "page", pageCount+1)

		body, err := c.fetch.Fetch(ctx, current)
		if err != nil {
			c.log.Warnw("page fetch failed, skipping", "url", current, "error", err)
			continue
		}
		pageCount++

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
		if err != nil {
			c.log.Warnw("page parse failed, skipping", "url", current, "error", err)
			continue
		}

		base := EffectiveBaseURL(doc, current)
		regions := AnalyzeRegions(doc)
		academic := IsAcademicPage(current, regions)
		threshold := Threshold(academic)

		collected = append(collected, c.scorePage(doc, base, regions, academic, threshold)...)

		if followPagination {
			if next := NextPageURL(doc, base); next != "" && !visited[utils.NormalizeURL(next)] {
				queue = append(queue, next)
			}
		}
	}

	ranked := dedupeRanked(collected)
	c.log.Infow("link collection complete",
		"seed", seedURL, "pages", pageCount, "unique_links", len(ranked))
	return ranked
}

// scorePage scores every non-excluded anchor on one page and returns those
// passing the keep threshold.
func (c *Collector) scorePage(doc *goquery.Document, base string, regions *RegionSet, academic bool, threshold float64) []models.CandidateLink {
	var links []models.CandidateLink

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if utils.IsExcludedHref(href) {
			return
		}

		absolute := utils.ResolveURL(base, href)
		if absolute == "" || !utils.IsValidURL(absolute) {
			return
		}
		absolute = utils.NormalizeURL(absolute)

		text := strings.TrimSpace(sel.Text())
		score := c.scorer.Score(text, absolute, regions.InNonContent(sel), academic)
		if score <= threshold {
			return
		}

		links = append(links, models.CandidateLink{
			URL:        absolute,
			Score:      score,
			AnchorText: text,
		})
	})

	return links
}

// dedupeRanked sorts by descending score and drops duplicate URLs. Because
// the sort runs first, the retained entry for any URL carries the maximum
// score observed for it.
func dedupeRanked(links []models.CandidateLink) []models.CandidateLink {
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Score > links[j].Score
	})

	seen := make(map[string]bool, len(links))
	unique := links[:0:0]
	for _, l := range links {
		if seen[l.URL] {
			continue
		}
		seen[l.URL] = true
		unique = append(unique, l)
	}
	return unique
}
