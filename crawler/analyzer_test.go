package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"faculty-finder/llm"
	"faculty-finder/models"
)

// fakeLLM answers classification calls from canned per-URL decisions.
type fakeLLM struct {
	mu          sync.Mutex
	decisions   map[string]llm.ClassifyResult
	classifyErr map[string]error
	profileErr  error
	simErr      error
	scores      map[string]int
}

func (f *fakeLLM) ClassifyFacultyPage(_ context.Context, features models.PageFeatures) (llm.ClassifyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.classifyErr[features.URL]; err != nil {
		return llm.ClassifyResult{}, err
	}
	if res, ok := f.decisions[features.URL]; ok {
		return res, nil
	}
	return llm.ClassifyResult{IsProfessor: false, Structured: true}, nil
}

func (f *fakeLLM) ExtractResearchProfile(_ context.Context, _, _ string) (llm.ProfileResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profileErr != nil {
		return llm.ProfileResult{}, f.profileErr
	}
	return llm.ProfileResult{
		Interests:  "quantum materials and optics",
		Keywords:   []string{"quantum", "optics"},
		Structured: true,
	}, nil
}

func (f *fakeLLM) ScoreSimilarity(_ context.Context, professorInterests, _ string) (llm.SimilarityResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.simErr != nil {
		return llm.SimilarityResult{}, f.simErr
	}
	return llm.SimilarityResult{Analysis: "shared interest in " + professorInterests, Score: f.scores[professorInterests]}, nil
}

const profilePage = `
<html><head><title>Jane Smith | Example University</title>
<meta name="description" content="Professor of Physics"></head>
<body><main class="content">
	<h2>Research Interests</h2>
	<p>Quantum materials and nonlinear optics.</p>
</main></body></html>`

// directorySite builds a seed directory listing n profile pages alongside
// the profile pages themselves.
func directorySite(n int) map[string]string {
	var b strings.Builder
	b.WriteString(`<html><body><main class="content">`)
	pages := make(map[string]string, n+1)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<a href="/people/prof-n%d">Jane Smith</a>`, i)
		pages[fmt.Sprintf("https://example.edu/people/prof-n%d", i)] = profilePage
	}
	b.WriteString(`</main></body></html>`)
	pages["https://example.edu/people"] = b.String()
	return pages
}

func profURL(i int) string {
	return fmt.Sprintf("https://example.edu/people/prof-n%d", i)
}

func newTestAnalyzer(pages map[string]string, service llm.Service) (*Analyzer, *mapFetcher) {
	fetch := &mapFetcher{pages: pages}
	return NewAnalyzer(fetch, service, 2, zap.NewNop().Sugar()), fetch
}

func seedFetchCount(fetch *mapFetcher, seed string) int {
	fetch.mu.Lock()
	defer fetch.mu.Unlock()
	count := 0
	for _, u := range fetch.fetches {
		if u == seed {
			count++
		}
	}
	return count
}

func TestAnalyzeSinglePass(t *testing.T) {
	service := &fakeLLM{decisions: map[string]llm.ClassifyResult{
		profURL(0): {IsProfessor: true, Name: "Jane Smith", Title: "Professor", Confidence: 0.9, Structured: true},
		profURL(1): {IsProfessor: true, Name: "Mary Jones", Title: "Lecturer", Confidence: 0.8, Structured: true},
	}}
	a, _ := newTestAnalyzer(directorySite(3), service)

	results, stats := a.Analyze(context.Background(), "https://example.edu/people", models.CrawlBudget{MaxLinks: 30, MaxPages: 1})

	assert.Equal(t, 3, stats.LinksCollected)
	assert.Equal(t, 3, stats.LinksAnalyzed)
	assert.Equal(t, 2, stats.Confirmed)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 0, stats.Errors)

	for _, r := range results {
		if r.IsProfessor != models.ClassifiedYes {
			continue
		}
		require.NotNil(t, r.Profile)
		assert.NotEmpty(t, r.Profile.Name)
		assert.Equal(t, "quantum materials and optics", r.Profile.ResearchInterests)
		assert.Equal(t, []string{"quantum", "optics"}, r.Profile.Keywords)
	}
}

func TestAnalyzeTruncatesToLinkBudget(t *testing.T) {
	a, _ := newTestAnalyzer(directorySite(15), &fakeLLM{})

	_, stats := a.Analyze(context.Background(), "https://example.edu/people", models.CrawlBudget{MaxLinks: 10, MaxPages: 1})
	assert.Equal(t, 10, stats.LinksCollected)
	assert.Equal(t, 10, stats.LinksAnalyzed)
}

func TestAnalyzeFetchFailureYieldsErrorRecord(t *testing.T) {
	pages := directorySite(2)
	delete(pages, profURL(1))
	a, _ := newTestAnalyzer(pages, &fakeLLM{})

	results, stats := a.Analyze(context.Background(), "https://example.edu/people", models.CrawlBudget{MaxLinks: 30, MaxPages: 1})

	assert.Equal(t, 1, stats.Errors)
	assert.Equal(t, 2, stats.LinksAnalyzed, "a failed link must stay in the result set")

	found := false
	for _, r := range results {
		if r.URL == profURL(1) {
			found = true
			assert.Equal(t, models.ClassifiedError, r.IsProfessor)
			assert.NotEmpty(t, r.Err)
		}
	}
	assert.True(t, found)
}

func TestAnalyzeClassifierFailureYieldsErrorRecord(t *testing.T) {
	service := &fakeLLM{classifyErr: map[string]error{
		profURL(0): errors.New("model overloaded"),
	}}
	a, _ := newTestAnalyzer(directorySite(1), service)

	results, stats := a.Analyze(context.Background(), "https://example.edu/people", models.CrawlBudget{MaxLinks: 30, MaxPages: 1})

	require.Len(t, results, 1)
	assert.Equal(t, models.ClassifiedError, results[0].IsProfessor)
	assert.Contains(t, results[0].Err, "model overloaded")
	assert.Equal(t, 1, stats.Errors)
}

func TestAnalyzeResearchExtractionFallback(t *testing.T) {
	service := &fakeLLM{
		decisions: map[string]llm.ClassifyResult{
			profURL(0): {IsProfessor: true, Name: "Jane Smith", Structured: true},
		},
		profileErr: errors.New("timeout"),
	}
	a, _ := newTestAnalyzer(directorySite(1), service)

	results, _ := a.Analyze(context.Background(), "https://example.edu/people", models.CrawlBudget{MaxLinks: 30, MaxPages: 1})

	require.Len(t, results, 1)
	assert.Equal(t, models.ClassifiedYes, results[0].IsProfessor)
	require.NotNil(t, results[0].Profile)
	assert.Equal(t, "Unable to determine research interests", results[0].Profile.ResearchInterests)
}

func TestAnalyzeAdaptiveWidensExactlyOnce(t *testing.T) {
	// Every candidate rejected: the controller must schedule one wider pass
	// and stop, never loop toward convergence.
	a, fetch := newTestAnalyzer(directorySite(3), &fakeLLM{})

	results, _, stats := a.AnalyzeAdaptive(context.Background(), "https://example.edu/people")

	assert.True(t, stats.SecondPass)
	assert.Len(t, results, 3, "merged passes must deduplicate repeated URLs")
	assert.Equal(t, 3, seedFetchCount(fetch, "https://example.edu/people"),
		"seed fetched once for estimation and once per pass")
}

func TestAnalyzeAdaptiveKeepsHealthyBudget(t *testing.T) {
	decisions := make(map[string]llm.ClassifyResult, 25)
	for i := 0; i < 25; i++ {
		decisions[profURL(i)] = llm.ClassifyResult{IsProfessor: true, Name: "Jane Smith", Structured: true}
	}
	a, fetch := newTestAnalyzer(directorySite(25), &fakeLLM{decisions: decisions})

	_, _, stats := a.AnalyzeAdaptive(context.Background(), "https://example.edu/people")

	assert.False(t, stats.SecondPass)
	assert.Equal(t, 25, stats.Confirmed)
	assert.Equal(t, 2, seedFetchCount(fetch, "https://example.edu/people"))
}

func TestEstimateParametersSeedUnreachable(t *testing.T) {
	a, _ := newTestAnalyzer(map[string]string{}, &fakeLLM{})

	rec := a.EstimateParameters(context.Background(), "https://unreachable.example.edu/people")

	assert.Equal(t, models.CrawlBudget{MaxLinks: 30, MaxPages: 3}, rec.Budget)
	assert.Contains(t, rec.Reasoning, "default")
}

func TestRankBySimilarity(t *testing.T) {
	service := &fakeLLM{scores: map[string]int{
		"graph theory":    40,
		"quantum sensing": 85,
	}}
	a, _ := newTestAnalyzer(map[string]string{}, service)

	results := []models.CrawlResult{
		{URL: "https://example.edu/people/a", IsProfessor: models.ClassifiedYes, Profile: &models.Profile{ResearchInterests: "graph theory"}},
		{URL: "https://example.edu/people/b", IsProfessor: models.ClassifiedNo},
		{URL: "https://example.edu/people/c", IsProfessor: models.ClassifiedError, Err: "boom"},
		{URL: "https://example.edu/people/d", IsProfessor: models.ClassifiedYes, Profile: &models.Profile{ResearchInterests: "quantum sensing"}},
	}

	ranked := a.RankBySimilarity(context.Background(), results, "quantum computing")

	require.Len(t, ranked, 2, "only confirmed professors are ranked")
	assert.Equal(t, "https://example.edu/people/d", ranked[0].URL)
	assert.Equal(t, 85, ranked[0].Similarity)
	assert.Equal(t, 40, ranked[1].Similarity)
}

func TestRankBySimilarityScoringFailureKept(t *testing.T) {
	service := &fakeLLM{simErr: errors.New("quota exceeded")}
	a, _ := newTestAnalyzer(map[string]string{}, service)

	results := []models.CrawlResult{
		{URL: "https://example.edu/people/a", IsProfessor: models.ClassifiedYes, Profile: &models.Profile{ResearchInterests: "graph theory"}},
	}

	ranked := a.RankBySimilarity(context.Background(), results, "quantum computing")

	require.Len(t, ranked, 1)
	assert.Equal(t, 0, ranked[0].Similarity)
	assert.Equal(t, "similarity analysis unavailable", ranked[0].SimilarityText)
}
