package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"faculty-finder/models"
)

// Store persists confirmed faculty profiles. It is optional: analysis runs
// fine without a configured database, results just stay in the CSV output.
type Store struct {
	DB *sql.DB
}

func NewStore(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &Store{DB: db}
	if err := store.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS faculty_profiles (
			id SERIAL PRIMARY KEY,
			url TEXT UNIQUE NOT NULL,
			name TEXT,
			title TEXT,
			department TEXT,
			research_interests TEXT,
			keywords TEXT[],
			related_urls TEXT[],
			confidence FLOAT DEFAULT 0,
			discovered_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_faculty_profiles_url ON faculty_profiles(url)`,
		`CREATE INDEX IF NOT EXISTS idx_faculty_profiles_department ON faculty_profiles(department)`,
	}

	for _, query := range queries {
		if _, err := s.DB.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}

	return nil
}

// SaveProfile upserts one confirmed faculty record, keyed by URL.
func (s *Store) SaveProfile(result models.CrawlResult) error {
	if result.IsProfessor != models.ClassifiedYes || result.Profile == nil {
		return fmt.Errorf("refusing to save non-faculty result for %s", result.URL)
	}

	query := `
		INSERT INTO faculty_profiles (url, name, title, department, research_interests, keywords, related_urls, confidence)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (url) DO UPDATE SET
			name = EXCLUDED.name,
			title = EXCLUDED.title,
			department = EXCLUDED.department,
			research_interests = EXCLUDED.research_interests,
			keywords = EXCLUDED.keywords,
			related_urls = EXCLUDED.related_urls,
			confidence = EXCLUDED.confidence,
			discovered_at = CURRENT_TIMESTAMP`

	p := result.Profile
	_, err := s.DB.Exec(query,
		result.URL, p.Name, p.Title, p.Department, p.ResearchInterests,
		pq.Array(p.Keywords), pq.Array(p.RelatedURLs), p.Confidence,
	)
	return err
}

// SaveAll persists every confirmed profile in results, returning the count
// saved and the first error encountered.
func (s *Store) SaveAll(results []models.CrawlResult) (int, error) {
	saved := 0
	for _, r := range results {
		if r.IsProfessor != models.ClassifiedYes || r.Profile == nil {
			continue
		}
		if err := s.SaveProfile(r); err != nil {
			return saved, err
		}
		saved++
	}
	return saved, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
