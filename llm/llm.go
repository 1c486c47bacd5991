// Package llm talks to an OpenAI-compatible chat-completions service for
// page classification, research-profile extraction and similarity scoring.
package llm

import (
	"context"
	"errors"

	"faculty-finder/models"
)

// ErrMissingAPIKey is returned when a client is constructed without a key.
var ErrMissingAPIKey = errors.New("llm: API key is required")

// ClassifyResult is the faculty-page decision. Structured marks whether the
// model's JSON parsed; when false, the fields were scraped from Raw by the
// fallback path and Confidence is a coarse default.
type ClassifyResult struct {
	IsProfessor bool
	Confidence  float64
	Name        string
	Title       string
	Department  string
	Structured  bool
	Raw         string
}

// ProfileResult carries extracted research interests. When Structured is
// false the whole response text stands in as the interests summary.
type ProfileResult struct {
	Interests  string
	Keywords   []string
	Structured bool
	Raw        string
}

// SimilarityResult is a free-text similarity analysis plus the 0-100 score
// scraped out of it.
type SimilarityResult struct {
	Analysis string
	Score    int
}

// Service is the classification collaborator consumed by the analyzer. The
// crawl engine only assembles text features and consumes structured (or
// degraded) results.
type Service interface {
	ClassifyFacultyPage(ctx context.Context, features models.PageFeatures) (ClassifyResult, error)
	ExtractResearchProfile(ctx context.Context, title, content string) (ProfileResult, error)
	ScoreSimilarity(ctx context.Context, professorInterests, userInterests string) (SimilarityResult, error)
}
