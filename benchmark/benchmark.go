// benchmark/benchmark.go
package benchmark

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"faculty-finder/crawler"
	"faculty-finder/fetcher"
)

// RunComparison crawls the same seed with the keyword-only baseline
// collector and the scored collector, then prints how much noise the
// scoring pass filters out. No LLM calls are made; this measures the
// heuristic layer alone.
func RunComparison(ctx context.Context, fetch fetcher.Fetcher, seedURL string, maxPages int, log *zap.SugaredLogger) {
	scorer := crawler.NewScorer(log)
	scored := crawler.NewCollector(fetch, scorer, log)
	baseline := crawler.NewSimpleCollector(fetch, log)

	fmt.Println("Running baseline (keyword-only) collector...")
	baselineStart := time.Now()
	baselineLinks := baseline.Collect(ctx, seedURL, true, maxPages)
	baselineDuration := time.Since(baselineStart)

	fmt.Println("Running scored collector...")
	scoredStart := time.Now()
	scoredLinks := scored.Collect(ctx, seedURL, true, maxPages)
	scoredDuration := time.Since(scoredStart)

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("COLLECTOR COMPARISON")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("%-28s %12s %12s\n", "", "baseline", "scored")
	fmt.Printf("%-28s %12d %12d\n", "candidate links", len(baselineLinks), len(scoredLinks))
	fmt.Printf("%-28s %12s %12s\n", "duration", baselineDuration.Round(time.Millisecond), scoredDuration.Round(time.Millisecond))

	if len(baselineLinks) > 0 {
		reduction := 1 - float64(len(scoredLinks))/float64(len(baselineLinks))
		fmt.Printf("%-28s %25.1f%%\n", "noise filtered", reduction*100)
	}

	fmt.Println("\nTop scored candidates:")
	for i, link := range scoredLinks {
		if i >= 10 {
			break
		}
		fmt.Printf("  %4.1f  %s  (%s)\n", link.Score, link.URL, link.AnchorText)
	}
}
