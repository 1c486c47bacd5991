package crawler

import (
	"go.uber.org/zap"

	"faculty-finder/models"
)

// Evaluate inspects first-pass results and decides whether one wider pass
// is warranted. Rules run in priority order; the first match wins. This is
// a single-shot correction, never a convergence loop.
func Evaluate(confirmed, totalAnalyzed int, used models.CrawlBudget) models.Adjustment {
	hitRate := 0.0
	if totalAnalyzed > 0 {
		hitRate = float64(confirmed) / float64(totalAnalyzed)
	}

	switch {
	case confirmed == 0:
		return models.Adjustment{
			ShouldAdjust: true,
			NewBudget: models.CrawlBudget{
				MaxLinks: minInt(used.MaxLinks*2, 100),
				MaxPages: minInt(used.MaxPages+2, 8),
			},
			Reason: "no faculty found, broadening search",
		}

	case confirmed < 20 && hitRate > 0.4:
		return models.Adjustment{
			ShouldAdjust: true,
			NewBudget: models.CrawlBudget{
				MaxLinks: minInt(used.MaxLinks*2, 100),
				MaxPages: minInt(used.MaxPages+1, 6),
			},
			Reason: "high hit rate but low absolute count, initial budget was too conservative",
		}

	case confirmed < 5 && hitRate < 0.2:
		return models.Adjustment{
			ShouldAdjust: true,
			NewBudget: models.CrawlBudget{
				MaxLinks: minInt(used.MaxLinks+20, 80),
				MaxPages: minInt(used.MaxPages+1, 6),
			},
			Reason: "few faculty and low hit rate, modest expansion",
		}

	case hitRate > 0.8 && used.MaxLinks > 60:
		return models.Adjustment{
			ShouldAdjust: false,
			NewBudget:    used,
			Reason:       "hit rate high and search already broad, current budget sufficient",
		}
	}

	return models.Adjustment{
		ShouldAdjust: false,
		NewBudget:    used,
		Reason:       "results within expected range, no adjustment",
	}
}

// MergeResults concatenates two passes and deduplicates by URL with
// first-occurrence-wins, so first-pass records are authoritative for URLs
// seen in both.
func MergeResults(first, second []models.CrawlResult, log *zap.SugaredLogger) []models.CrawlResult {
	merged := make([]models.CrawlResult, 0, len(first)+len(second))
	seen := make(map[string]bool, len(first)+len(second))

	for _, r := range append(append([]models.CrawlResult{}, first...), second...) {
		if seen[r.URL] {
			continue
		}
		seen[r.URL] = true
		merged = append(merged, r)
	}

	if log != nil {
		log.Infow("merged crawl passes",
			"first_pass", len(first),
			"second_pass", len(second),
			"merged_unique", len(merged))
	}
	return merged
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
