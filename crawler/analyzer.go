package crawler

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"faculty-finder/fetcher"
	"faculty-finder/llm"
	"faculty-finder/models"
)

// DefaultWorkers bounds the per-link classification pool.
const DefaultWorkers = 5

// Analyzer drives a full analysis: sequential link collection followed by
// parallel per-link classification, with the adaptive controller deciding
// whether a single widened second pass is worth running.
type Analyzer struct {
	fetch        fetcher.Fetcher
	classifier   llm.Service
	collector    *Collector
	characterize *Characterizer
	workers      int
	log          *zap.SugaredLogger
}

func NewAnalyzer(fetch fetcher.Fetcher, classifier llm.Service, workers int, log *zap.SugaredLogger) *Analyzer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	scorer := NewScorer(log)
	return &Analyzer{
		fetch:        fetch,
		classifier:   classifier,
		collector:    NewCollector(fetch, scorer, log),
		characterize: NewCharacterizer(scorer, log),
		workers:      workers,
		log:          log,
	}
}

// Collector exposes the underlying link collector for callers that only
// want candidate lists.
func (a *Analyzer) Collector() *Collector { return a.collector }

// Characterizer exposes the parameter-estimation component.
func (a *Analyzer) Characterizer() *Characterizer { return a.characterize }

// Analyze runs one pass: collect candidates under the budget, then classify
// them with the worker pool. The candidate order is fixed (descending
// score) before dispatch; completion order is not deterministic and doesn't
// matter since results are deduplicated and re-sorted downstream.
func (a *Analyzer) Analyze(ctx context.Context, seedURL string, budget models.CrawlBudget) ([]models.CrawlResult, models.AnalysisStats) {
	start := time.Now()
	budget = budget.Clamp()

	candidates := a.collector.Collect(ctx, seedURL, true, budget.MaxPages)
	if len(candidates) > budget.MaxLinks {
		candidates = candidates[:budget.MaxLinks]
	}

	stats := models.AnalysisStats{LinksCollected: len(candidates)}
	if len(candidates) == 0 {
		a.log.Warnw("no links found to analyze", "seed", seedURL)
		stats.Duration = time.Since(start)
		return nil, stats
	}

	results := a.classifyAll(ctx, candidates)

	for _, r := range results {
		switch r.IsProfessor {
		case models.ClassifiedYes:
			stats.Confirmed++
		case models.ClassifiedNo:
			stats.Rejected++
		default:
			stats.Errors++
		}
	}
	stats.LinksAnalyzed = len(results)
	stats.Duration = time.Since(start)

	a.log.Infow("analysis pass complete",
		"seed", seedURL,
		"analyzed", stats.LinksAnalyzed,
		"confirmed", stats.Confirmed,
		"errors", stats.Errors,
		"duration", stats.Duration)
	return results, stats
}

// AnalyzeAdaptive is the intelligent mode: estimate a budget from the seed
// page, run a first pass, and widen exactly once if the controller says the
// yield warrants it.
func (a *Analyzer) AnalyzeAdaptive(ctx context.Context, seedURL string) ([]models.CrawlResult, models.Recommendation, models.AnalysisStats) {
	rec := a.EstimateParameters(ctx, seedURL)

	first, stats := a.Analyze(ctx, seedURL, rec.Budget)

	adjustment := Evaluate(stats.Confirmed, stats.LinksAnalyzed, rec.Budget)
	a.log.Infow("adaptive evaluation",
		"should_adjust", adjustment.ShouldAdjust,
		"reason", adjustment.Reason,
		"hit_rate", stats.HitRate())

	if !adjustment.ShouldAdjust {
		return first, rec, stats
	}

	second, secondStats := a.Analyze(ctx, seedURL, adjustment.NewBudget)
	merged := MergeResults(first, second, a.log)

	combined := models.AnalysisStats{
		LinksCollected: stats.LinksCollected + secondStats.LinksCollected,
		LinksAnalyzed:  len(merged),
		SecondPass:     true,
		Duration:       stats.Duration + secondStats.Duration,
	}
	for _, r := range merged {
		switch r.IsProfessor {
		case models.ClassifiedYes:
			combined.Confirmed++
		case models.ClassifiedNo:
			combined.Rejected++
		default:
			combined.Errors++
		}
	}
	return merged, rec, combined
}

// EstimateParameters fetches the seed page and produces a budget
// recommendation. An unreachable seed falls back to the defaults with a
// reasoning note instead of failing.
func (a *Analyzer) EstimateParameters(ctx context.Context, seedURL string) models.Recommendation {
	body, err := a.fetch.Fetch(ctx, seedURL)
	if err != nil {
		a.log.Warnw("seed fetch failed during estimation, using defaults", "url", seedURL, "error", err)
		return models.Recommendation{
			Budget:    defaultBudget,
			Reasoning: "seed page unreachable, using default budget",
			PageType:  models.PageTypeUnknown,
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return models.Recommendation{
			Budget:    defaultBudget,
			Reasoning: "seed page unparsable, using default budget",
			PageType:  models.PageTypeUnknown,
		}
	}

	return a.characterize.Recommend(doc, seedURL)
}

// classifyAll fans candidates out to a bounded worker pool. Workers only
// send results over the channel; the slice is appended to exclusively here
// in the coordinating goroutine.
func (a *Analyzer) classifyAll(ctx context.Context, candidates []models.CandidateLink) []models.CrawlResult {
	jobs := make(chan models.CandidateLink)
	out := make(chan models.CrawlResult)

	var wg sync.WaitGroup
	for i := 0; i < a.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for link := range jobs {
				out <- a.ProcessLink(ctx, link)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, link := range candidates {
			select {
			case jobs <- link:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]models.CrawlResult, 0, len(candidates))
	for r := range out {
		if r.IsProfessor == models.ClassifiedYes {
			a.log.Infow("found faculty page", "url", r.URL, "name", r.Profile.Name)
		}
		results = append(results, r)
	}
	return results
}

// ProcessLink fetches and classifies one candidate page, extracting the
// research profile when the classifier confirms it. Failures become
// explicit error records rather than vanishing from the result set.
func (a *Analyzer) ProcessLink(ctx context.Context, link models.CandidateLink) models.CrawlResult {
	body, err := a.fetch.Fetch(ctx, link.URL)
	if err != nil {
		return errorResult(link.URL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return errorResult(link.URL, err)
	}

	features := ExtractPageFeatures(doc, link.URL)

	classification, err := a.classifier.ClassifyFacultyPage(ctx, features)
	if err != nil {
		return errorResult(link.URL, err)
	}

	if !classification.IsProfessor {
		return models.CrawlResult{URL: link.URL, IsProfessor: models.ClassifiedNo}
	}

	profile := &models.Profile{
		Name:        classification.Name,
		Title:       classification.Title,
		Department:  classification.Department,
		Confidence:  classification.Confidence,
		RelatedURLs: ExtractRelatedURLs(doc, link.URL),
	}

	research, err := a.classifier.ExtractResearchProfile(ctx, features.Title, ExtractResearchContent(doc))
	if err != nil {
		a.log.Warnw("research extraction failed", "url", link.URL, "error", err)
		profile.ResearchInterests = "Unable to determine research interests"
	} else {
		profile.ResearchInterests = research.Interests
		profile.Keywords = research.Keywords
	}

	return models.CrawlResult{
		URL:         link.URL,
		IsProfessor: models.ClassifiedYes,
		Profile:     profile,
	}
}

// RankBySimilarity scores every confirmed professor against the user's
// stated interests and sorts descending by score. Scoring failures keep the
// record with a zero score so the professor isn't silently dropped.
func (a *Analyzer) RankBySimilarity(ctx context.Context, results []models.CrawlResult, userInterests string) []models.CrawlResult {
	ranked := make([]models.CrawlResult, 0, len(results))

	for _, r := range results {
		if r.IsProfessor != models.ClassifiedYes || r.Profile == nil {
			continue
		}

		sim, err := a.classifier.ScoreSimilarity(ctx, r.Profile.ResearchInterests, userInterests)
		if err != nil {
			a.log.Warnw("similarity scoring failed", "url", r.URL, "error", err)
			r.SimilarityText = "similarity analysis unavailable"
		} else {
			r.SimilarityText = sim.Analysis
			r.Similarity = sim.Score
		}
		ranked = append(ranked, r)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})
	return ranked
}

func errorResult(url string, err error) models.CrawlResult {
	msg := "processing failed"
	if err != nil {
		if errors.Is(err, context.Canceled) {
			msg = "canceled"
		} else {
			msg = err.Error()
		}
	}
	return models.CrawlResult{URL: url, IsProfessor: models.ClassifiedError, Err: msg}
}
