package crawler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"faculty-finder/models"
	"faculty-finder/utils"
)

// URL fragments of institutions known to publish very large faculty
// directories; matching one sets the large-scale flag.
var largeInstitutionFragments = []string{
	"steinhardt.nyu.edu", "as.nyu.edu", "gsas.harvard.edu",
	"eecs.mit.edu", "engineering.berkeley.edu", "seas.upenn.edu",
}

var departmentURLHints = []string{"department", "/dept", "dept."}
var collegeURLHints = []string{"college", "school"}
var facultyListURLHints = []string{"faculty", "people", "staff", "directory"}

const paginationSelectors = "[class*='pagination'], [class*='pager'], [class*='page-numbers'], [id*='pagination']"

var numberPattern = regexp.MustCompile(`\d+`)

// Default budget before any characterization rule fires.
var defaultBudget = models.CrawlBudget{MaxLinks: 30, MaxPages: 3}

// Characterizer inspects a seed page and recommends an initial crawl
// budget. It reuses the Link Scorer to measure how faculty-dense the page
// already is.
type Characterizer struct {
	scorer *Scorer
	log    *zap.SugaredLogger
}

func NewCharacterizer(scorer *Scorer, log *zap.SugaredLogger) *Characterizer {
	return &Characterizer{scorer: scorer, log: log}
}

// Characterize classifies the seed page's type and scale. Computed once per
// seed page and treated as immutable afterwards.
func (c *Characterizer) Characterize(doc *goquery.Document, pageURL string) models.PageCharacterization {
	lowerURL := strings.ToLower(pageURL)

	pageType := models.PageTypeUnknown
	largeScale := false
	switch {
	case containsAny(lowerURL, largeInstitutionFragments):
		pageType = models.PageTypeInstitution
		largeScale = true
	case containsAny(lowerURL, departmentURLHints):
		pageType = models.PageTypeDepartment
	case containsAny(lowerURL, collegeURLHints):
		pageType = models.PageTypeCollege
	case containsAny(lowerURL, facultyListURLHints):
		pageType = models.PageTypeFacultyList
	}

	stripped := doc.Clone()
	stripped.Find("script, style").Remove()
	textLen := len(strings.TrimSpace(stripped.Find("body").Text()))

	depth := models.DepthMedium
	if textLen < 2000 {
		depth = models.DepthShallow
	} else if textLen > 10000 {
		depth = models.DepthDeep
	}

	hasFilters := doc.Find("input[type='search'], select, form[class*='filter'], [class*='facet']").Length() > 0

	return models.PageCharacterization{
		PageType:         pageType,
		TotalLinkCount:   doc.Find("a[href]").Length(),
		ContentDepth:     depth,
		HasSearchFilters: hasFilters,
		LargeScale:       largeScale,
	}
}

// FacultyDensity is the fraction of the page's anchors scoring above the
// academic-aware keep threshold.
func (c *Characterizer) FacultyDensity(doc *goquery.Document, pageURL string) float64 {
	base := EffectiveBaseURL(doc, pageURL)
	regions := AnalyzeRegions(doc)
	academic := IsAcademicPage(pageURL, regions)
	threshold := Threshold(academic)

	total := 0
	hits := 0
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		total++
		href, _ := sel.Attr("href")
		if utils.IsExcludedHref(href) {
			return
		}
		absolute := utils.ResolveURL(base, href)
		if absolute == "" || !utils.IsValidURL(absolute) {
			return
		}
		score := c.scorer.Score(strings.TrimSpace(sel.Text()), absolute, regions.InNonContent(sel), academic)
		if score > threshold {
			hits++
		}
	})

	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// DetectPagination scans pagination-region text for plausible page numbers.
// Postal-code-like values, years and absurd counts are rejected so "19104"
// or "2024" never becomes a page estimate. Next-style links without numbers
// produce a conservative fixed estimate instead of "unknown".
func (c *Characterizer) DetectPagination(doc *goquery.Document, pageURL string) models.PaginationInfo {
	maxPage := 0
	doc.Find(paginationSelectors).Each(func(_ int, sel *goquery.Selection) {
		for _, token := range numberPattern.FindAllString(sel.Text(), -1) {
			n, err := strconv.Atoi(token)
			if err != nil {
				continue
			}
			if !plausiblePageNumber(n, token) {
				continue
			}
			if n > maxPage {
				maxPage = n
			}
		}
	})

	if maxPage > 0 {
		return models.PaginationInfo{
			HasPagination:       true,
			Type:                models.PaginationNumbered,
			EstimatedTotalPages: maxPage,
		}
	}

	if NextPageURL(doc, EffectiveBaseURL(doc, pageURL)) != "" {
		return models.PaginationInfo{
			HasPagination:       true,
			Type:                models.PaginationNextOnly,
			EstimatedTotalPages: 5,
		}
	}

	return models.PaginationInfo{
		HasPagination:       false,
		Type:                models.PaginationNone,
		EstimatedTotalPages: 1,
	}
}

func plausiblePageNumber(n int, token string) bool {
	if n <= 1 || n >= 1000 {
		return false
	}
	if len(token) == 5 {
		return false
	}
	if n >= 1900 && n <= 2100 {
		return false
	}
	return true
}

// Recommend maps the characterization outputs to an initial crawl budget.
// Rules refine the running budget in order; each contributes a clause to
// the human-readable reasoning string.
func (c *Characterizer) Recommend(doc *goquery.Document, pageURL string) models.Recommendation {
	character := c.Characterize(doc, pageURL)
	density := c.FacultyDensity(doc, pageURL)
	pagination := c.DetectPagination(doc, pageURL)

	budget := defaultBudget
	var reasons []string

	switch character.PageType {
	case models.PageTypeDepartment:
		budget.MaxLinks = 20
		reasons = append(reasons, "department-level page, fewer links needed")
	case models.PageTypeCollege:
		budget.MaxLinks = 50
		reasons = append(reasons, "college-level page, broader link budget")
	case models.PageTypeInstitution:
		budget.MaxLinks = 60
		reasons = append(reasons, "known large-faculty institution, raising link budget")
	}

	switch {
	case density > 0.5:
		if budget.MaxLinks < 60 {
			budget.MaxLinks = 60
		}
		reasons = append(reasons, fmt.Sprintf("very high faculty link density (%.0f%%), page is mostly faculty links", density*100))
	case density > 0.3:
		if budget.MaxLinks < 40 {
			budget.MaxLinks = 40
		}
		reasons = append(reasons, fmt.Sprintf("moderate faculty link density (%.0f%%)", density*100))
	case density < 0.1:
		if budget.MaxLinks < 50 {
			budget.MaxLinks = 50
		}
		reasons = append(reasons, "sparse faculty links, widening search to find the few real hits")
	}

	if pagination.HasPagination {
		switch {
		case pagination.EstimatedTotalPages <= 3:
			budget.MaxPages = pagination.EstimatedTotalPages
			reasons = append(reasons, fmt.Sprintf("pagination detected, following all %d pages", pagination.EstimatedTotalPages))
		case pagination.EstimatedTotalPages <= 10:
			budget.MaxPages = 5
			reasons = append(reasons, fmt.Sprintf("pagination of ~%d pages, capping at 5", pagination.EstimatedTotalPages))
		default:
			budget.MaxPages = 3
			reasons = append(reasons, fmt.Sprintf("long pagination (~%d pages), conservative cap of 3", pagination.EstimatedTotalPages))
		}
	} else {
		budget.MaxPages = 1
		reasons = append(reasons, "no pagination detected, single page crawl")
	}

	largeType := character.PageType == models.PageTypeCollege || character.PageType == models.PageTypeInstitution
	if character.TotalLinkCount > 200 {
		if largeType && density > 0.5 {
			reasons = append(reasons, "dense large directory, not capping link budget")
		} else if budget.MaxLinks > 40 {
			budget.MaxLinks = 40
			reasons = append(reasons, "very link-heavy page, capping to avoid noise")
		}
	} else if character.TotalLinkCount < 50 {
		if budget.MaxLinks < 15 {
			budget.MaxLinks = 15
		}
		reasons = append(reasons, "small page, keeping a minimum link budget")
	}

	budget = budget.Clamp()

	rec := models.Recommendation{
		Budget:             budget,
		Reasoning:          strings.Join(reasons, "; "),
		PageType:           character.PageType,
		FacultyDensity:     density,
		PaginationDetected: pagination.HasPagination,
		Pagination:         pagination,
	}

	c.log.Infow("parameter recommendation",
		"url", pageURL,
		"page_type", character.PageType,
		"density", density,
		"max_links", budget.MaxLinks,
		"max_pages", budget.MaxPages,
		"reasoning", rec.Reasoning)

	return rec
}
