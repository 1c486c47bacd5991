package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"faculty-finder/benchmark"
	"faculty-finder/config"
	"faculty-finder/crawler"
	"faculty-finder/database"
	"faculty-finder/fetcher"
	"faculty-finder/llm"
	"faculty-finder/models"
	"faculty-finder/utils"
)

func main() {
	// Command line flags
	var (
		mode       = flag.String("mode", "intelligent", "Analysis mode: 'intelligent', 'manual', 'quick', 'estimate', or 'compare'")
		seedURL    = flag.String("url", "", "Faculty directory URL to analyze")
		maxLinks   = flag.Int("max-links", 30, "Maximum number of links to analyze (manual mode)")
		maxPages   = flag.Int("max-pages", 3, "Maximum pages to follow via pagination (manual mode)")
		workers    = flag.Int("workers", crawler.DefaultWorkers, "Number of concurrent classification workers")
		output     = flag.String("output", "faculty_analysis_results.csv", "Output CSV filename")
		useBrowser = flag.Bool("browser", false, "Fetch pages with a headless browser")
		interests  = flag.String("interests", "", "Your research interests; when set, confirmed faculty are ranked by similarity")
	)
	flag.Parse()

	if *seedURL == "" {
		log.Fatal("missing required -url flag")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg := config.Load()

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		sugar.Info("shutting down gracefully")
		cancel()
	}()

	var fetch fetcher.Fetcher
	if *useBrowser {
		fetch = fetcher.NewBrowser(cfg.UserAgent, cfg.RequestTimeout*3, sugar)
	} else {
		fetch = fetcher.NewClient(cfg.UserAgent, cfg.RequestTimeout, cfg.RateLimit, sugar)
	}

	seed := utils.CleanFacultyURL(*seedURL)

	switch *mode {
	case "estimate":
		runEstimate(ctx, fetch, seed, sugar)
	case "compare":
		benchmark.RunComparison(ctx, fetch, seed, *maxPages, sugar)
	case "intelligent", "manual", "quick":
		runAnalysis(ctx, cfg, fetch, seed, *mode, *maxLinks, *maxPages, *workers, *output, *interests, sugar)
	default:
		log.Fatalf("Invalid mode: %s. Use 'intelligent', 'manual', 'quick', 'estimate', or 'compare'", *mode)
	}
}

func runEstimate(ctx context.Context, fetch fetcher.Fetcher, seed string, sugar *zap.SugaredLogger) {
	analyzer := crawler.NewAnalyzer(fetch, nil, 1, sugar)
	rec := analyzer.EstimateParameters(ctx, seed)

	fmt.Printf("Page type:          %s\n", rec.PageType)
	fmt.Printf("Faculty density:    %.1f%%\n", rec.FacultyDensity*100)
	fmt.Printf("Pagination:         %s (est. %d pages)\n", rec.Pagination.Type, rec.Pagination.EstimatedTotalPages)
	fmt.Printf("Recommended budget: %d links across %d pages\n", rec.Budget.MaxLinks, rec.Budget.MaxPages)
	fmt.Printf("Reasoning:          %s\n", rec.Reasoning)
}

func runAnalysis(ctx context.Context, cfg *config.Config, fetch fetcher.Fetcher, seed, mode string, maxLinks, maxPages, workers int, output, interests string, sugar *zap.SugaredLogger) {
	if err := cfg.RequireAPIKey(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	llmClient, err := llm.NewClient(cfg.APIKey, cfg.APIBaseURL, cfg.Model, sugar)
	if err != nil {
		log.Fatalf("Failed to create LLM client: %v", err)
	}

	analyzer := crawler.NewAnalyzer(fetch, llmClient, workers, sugar)

	var results []models.CrawlResult
	var stats models.AnalysisStats

	switch mode {
	case "intelligent":
		var rec models.Recommendation
		results, rec, stats = analyzer.AnalyzeAdaptive(ctx, seed)
		sugar.Infow("intelligent analysis used budget",
			"max_links", rec.Budget.MaxLinks, "max_pages", rec.Budget.MaxPages,
			"reasoning", rec.Reasoning, "second_pass", stats.SecondPass)
	case "manual":
		budget := models.CrawlBudget{MaxLinks: maxLinks, MaxPages: maxPages}.Clamp()
		results, stats = analyzer.Analyze(ctx, seed, budget)
	default: // quick
		results, stats = analyzer.Analyze(ctx, seed, models.CrawlBudget{MaxLinks: 30, MaxPages: 3})
	}

	fmt.Printf("Results Summary: %d faculty pages, %d non-faculty pages, %d errors (%.0f%% hit rate)\n",
		stats.Confirmed, stats.Rejected, stats.Errors, stats.HitRate()*100)

	if interests != "" {
		ranked := analyzer.RankBySimilarity(ctx, results, interests)
		printRanked(ranked)
		results = mergeSimilarity(results, ranked)
	}

	if err := writeResultsCSV(output, results); err != nil {
		sugar.Errorw("failed to write results", "path", output, "error", err)
	} else {
		sugar.Infow("results saved", "path", output)
	}

	professorsOnly := filterConfirmed(results)
	if len(professorsOnly) > 0 {
		profPath := strings.TrimSuffix(output, ".csv") + "_professors_only.csv"
		if err := writeResultsCSV(profPath, professorsOnly); err != nil {
			sugar.Errorw("failed to write professors file", "path", profPath, "error", err)
		}
	}

	if cfg.DatabaseURL != "" {
		store, err := database.NewStore(cfg.DatabaseURL)
		if err != nil {
			sugar.Errorw("database unavailable, skipping persistence", "error", err)
			return
		}
		defer store.Close()

		saved, err := store.SaveAll(results)
		if err != nil {
			sugar.Errorw("failed to persist profiles", "saved", saved, "error", err)
		} else {
			sugar.Infow("profiles persisted", "saved", saved)
		}
	}
}

func printRanked(ranked []models.CrawlResult) {
	fmt.Println("\nFaculty ranked by similarity to your interests:")
	for i, r := range ranked {
		name := ""
		if r.Profile != nil {
			name = r.Profile.Name
		}
		fmt.Printf("  %2d. [%3d] %s  %s\n", i+1, r.Similarity, name, r.URL)
	}
}

// mergeSimilarity copies similarity fields from the ranked subset back onto
// the full result list.
func mergeSimilarity(results, ranked []models.CrawlResult) []models.CrawlResult {
	byURL := make(map[string]models.CrawlResult, len(ranked))
	for _, r := range ranked {
		byURL[r.URL] = r
	}
	for i, r := range results {
		if scored, ok := byURL[r.URL]; ok {
			results[i] = scored
		}
	}
	return results
}

func filterConfirmed(results []models.CrawlResult) []models.CrawlResult {
	var confirmed []models.CrawlResult
	for _, r := range results {
		if r.IsProfessor == models.ClassifiedYes {
			confirmed = append(confirmed, r)
		}
	}
	return confirmed
}

func writeResultsCSV(path string, results []models.CrawlResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"URL", "Is Professor Page", "Name", "Title", "Department",
		"Research Interests", "Keywords", "Related URLs", "Confidence",
		"Similarity Score", "Similarity Analysis", "Error",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := make([]string, len(header))
		row[0] = r.URL
		row[1] = string(r.IsProfessor)
		if r.Profile != nil {
			row[2] = r.Profile.Name
			row[3] = r.Profile.Title
			row[4] = r.Profile.Department
			row[5] = r.Profile.ResearchInterests
			row[6] = strings.Join(r.Profile.Keywords, "; ")
			row[7] = strings.Join(r.Profile.RelatedURLs, "; ")
			row[8] = strconv.FormatFloat(r.Profile.Confidence, 'f', 2, 64)
		}
		if r.SimilarityText != "" {
			row[9] = strconv.Itoa(r.Similarity)
			row[10] = r.SimilarityText
		}
		row[11] = r.Err

		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
