// models/models.go
package models

import "time"

// CandidateLink is a scored, not-yet-classified URL discovered during link
// collection. It lives only until the collector merges it into the ranked,
// deduplicated list for a crawl.
type CandidateLink struct {
	URL        string  `json:"url"`
	Score      float64 `json:"score"`
	AnchorText string  `json:"anchor_text"`
}

// CrawlBudget bounds a collection pass. MaxLinks is the number of candidate
// links handed to classification; MaxPages is the number of pages followed
// via pagination.
type CrawlBudget struct {
	MaxLinks int `json:"max_links"`
	MaxPages int `json:"max_pages"`
}

// Clamp forces the budget into the supported ranges: MaxLinks in [10,100],
// MaxPages in [1,10].
func (b CrawlBudget) Clamp() CrawlBudget {
	if b.MaxLinks < 10 {
		b.MaxLinks = 10
	}
	if b.MaxLinks > 100 {
		b.MaxLinks = 100
	}
	if b.MaxPages < 1 {
		b.MaxPages = 1
	}
	if b.MaxPages > 10 {
		b.MaxPages = 10
	}
	return b
}

// PageType classifies what kind of directory page a seed URL points at.
type PageType string

const (
	PageTypeDepartment  PageType = "department"
	PageTypeCollege     PageType = "college"
	PageTypeInstitution PageType = "institution_specific"
	PageTypeFacultyList PageType = "faculty_list"
	PageTypeUnknown     PageType = "unknown"
)

// ContentDepth is a coarse estimate of how much text a page carries.
type ContentDepth string

const (
	DepthShallow ContentDepth = "shallow"
	DepthMedium  ContentDepth = "medium"
	DepthDeep    ContentDepth = "deep"
)

// PageCharacterization is computed once per seed page and never mutated. It
// exists only to derive a CrawlBudget and a reasoning string.
type PageCharacterization struct {
	PageType         PageType     `json:"page_type"`
	TotalLinkCount   int          `json:"total_link_count"`
	ContentDepth     ContentDepth `json:"content_depth"`
	HasSearchFilters bool         `json:"has_search_filters"`
	LargeScale       bool         `json:"large_scale"`
}

// PaginationType describes the pagination idiom detected on a page.
type PaginationType string

const (
	PaginationNone     PaginationType = "none"
	PaginationNumbered PaginationType = "numbered"
	PaginationNextOnly PaginationType = "next_only"
)

// PaginationInfo summarizes pagination structure found on a seed page.
type PaginationInfo struct {
	HasPagination       bool           `json:"has_pagination"`
	Type                PaginationType `json:"pagination_type"`
	EstimatedTotalPages int            `json:"estimated_total_pages"`
}

// Recommendation is the Parameter Recommender's output: a budget plus the
// diagnostics the UI layer displays alongside it.
type Recommendation struct {
	Budget             CrawlBudget    `json:"budget"`
	Reasoning          string         `json:"reasoning"`
	PageType           PageType       `json:"page_type"`
	FacultyDensity     float64        `json:"faculty_density"`
	PaginationDetected bool           `json:"pagination_detected"`
	Pagination         PaginationInfo `json:"pagination"`
}

// Classification is the tri-state outcome of the per-link LLM decision.
type Classification string

const (
	ClassifiedYes   Classification = "yes"
	ClassifiedNo    Classification = "no"
	ClassifiedError Classification = "error"
)

// Profile holds the fields extracted from a confirmed faculty page.
type Profile struct {
	Name              string   `json:"name"`
	Title             string   `json:"title"`
	Department        string   `json:"department"`
	ResearchInterests string   `json:"research_interests"`
	Keywords          []string `json:"keywords"`
	RelatedURLs       []string `json:"related_urls"`
	Confidence        float64  `json:"confidence"`
}

// CrawlResult is one classified candidate link. Records are immutable after
// creation; second-pass duplicates are dropped by URL-keyed dedup.
type CrawlResult struct {
	URL            string         `json:"url"`
	IsProfessor    Classification `json:"is_professor_page"`
	Profile        *Profile       `json:"profile,omitempty"`
	Err            string         `json:"error,omitempty"`
	SimilarityText string         `json:"similarity_analysis,omitempty"`
	Similarity     int            `json:"similarity_score"`
}

// PageFeatures is the assembled evidence handed to the LLM classifier for
// one candidate page.
type PageFeatures struct {
	URL             string
	Title           string
	MetaDescription string
	TextPreview     string
	KeywordMatches  []string
}

// Adjustment is the Adaptive Controller's verdict on a first pass.
type Adjustment struct {
	ShouldAdjust bool        `json:"should_adjust"`
	NewBudget    CrawlBudget `json:"new_budget"`
	Reason       string      `json:"reason"`
}

// AnalysisStats summarizes a completed analysis run.
type AnalysisStats struct {
	LinksCollected int           `json:"links_collected"`
	LinksAnalyzed  int           `json:"links_analyzed"`
	Confirmed      int           `json:"confirmed"`
	Rejected       int           `json:"rejected"`
	Errors         int           `json:"errors"`
	SecondPass     bool          `json:"second_pass"`
	Duration       time.Duration `json:"duration"`
}

// HitRate is the confirmed-faculty fraction of all analyzed links, 0 when
// nothing was analyzed.
func (s AnalysisStats) HitRate() float64 {
	if s.LinksAnalyzed == 0 {
		return 0
	}
	return float64(s.Confirmed) / float64(s.LinksAnalyzed)
}
