package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testScorer() *Scorer {
	return NewScorer(zap.NewNop().Sugar())
}

func TestScoreAlwaysClamped(t *testing.T) {
	s := testScorer()

	cases := []struct {
		name         string
		text         string
		url          string
		inNonContent bool
		academic     bool
	}{
		{"empty anchor", "", "https://example.edu/", false, false},
		{"keyword stacking", "Professor Faculty Dr. Ph.D Scholar Staff People", "https://example.edu/faculty/people/staff/directory/jane-smith", false, true},
		{"penalty stacking", "Home Contact News Events Login Search", "https://example.com/admin/login/search/", true, false},
		{"name only", "Jane Smith", "https://example.edu/people/jane-smith", false, true},
		{"garbage", "@#$%&*()[]", "https://example.com/x", true, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			score := s.Score(tc.text, tc.url, tc.inNonContent, tc.academic)
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 10.0)
		})
	}
}

func TestNameBonusMonotonic(t *testing.T) {
	s := testScorer()
	url := "https://example.com/members/page"

	withName := s.Score("Jane Smith", url, false, false)
	withoutName := s.Score("jane smith", url, false, false)
	assert.GreaterOrEqual(t, withName, withoutName)
}

func TestThresholdAsymmetry(t *testing.T) {
	// The keep decision on an academic page must never be stricter than on
	// a generic page.
	assert.LessOrEqual(t, Threshold(true), Threshold(false))
}

func TestRegionPenaltyIsSinglePoint(t *testing.T) {
	// Mid-range fixture: both scores must sit below the clamp so the
	// one-point difference stays observable.
	s := testScorer()
	url := "https://example.com/x"

	inContent := s.Score("Jane Smith", url, false, false)
	inChrome := s.Score("Jane Smith", url, true, false)
	assert.Less(t, inContent, 10.0)
	assert.InDelta(t, 1.0, inContent-inChrome, 0.001)
}

func TestNamePatternLinkRetained(t *testing.T) {
	s := testScorer()

	score := s.Score("Jane Smith", "https://example.edu/people/jane-smith", false, true)
	assert.Greater(t, score, AcademicThreshold,
		"a plain-name anchor with a directory-shaped URL must pass the academic threshold")
}

func TestBlacklistedNavLinkExcluded(t *testing.T) {
	s := testScorer()

	score := s.Score("Contact Us", "https://example.edu/contact", false, false)
	assert.LessOrEqual(t, score, GenericThreshold,
		"navigational chrome must not pass the generic threshold")
}

func TestStructuralURLPatterns(t *testing.T) {
	cases := []struct {
		url  string
		want float64
	}{
		{"https://example.edu/user/1042", 3},
		{"https://example.edu/profile/7/", 3},
		{"https://example.edu/faculty/jsmith", 3},
		{"https://example.edu/dept/jane-smith", 2},
		{"https://example.edu/dept/j_smith.html", 2},
		{"https://example.edu/dept/overview", 0},
		{"https://www.example.edu/", 0},
		{"https://www.example.edu", 0},
		{"https://liberal-arts.example.edu/about", 0},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, urlStructureScore(tc.url), "url %s", tc.url)
	}
}

func TestKeywordScoreCapped(t *testing.T) {
	points, matched := anchorKeywordScore("professor faculty dr. ph.d scholar staff people")
	assert.True(t, matched)
	assert.Equal(t, 4.0, points)
}

func TestBareHostLinkGetsNoStructureBonus(t *testing.T) {
	s := testScorer()

	bareHost := s.Score("Example University", "https://www.example.edu/", true, true)
	profile := s.Score("Example University", "https://www.example.edu/people/jane-smith", true, true)
	assert.Less(t, bareHost, profile,
		"a dotted hostname must not collect the name-slug path bonus")
}

func TestBlacklistedChromeDeniedNameShapeBonus(t *testing.T) {
	s := testScorer()

	score := s.Score("Contact Us", "https://example.edu/contact", true, true)
	assert.LessOrEqual(t, score, AcademicThreshold,
		"chrome phrases must not ride the name-shape bonus past the academic threshold")
}

func TestBadURLFragmentPenalty(t *testing.T) {
	s := testScorer()

	clean := s.Score("Jane Smith", "https://example.edu/people/jane-smith", false, true)
	infra := s.Score("Jane Smith", "https://example.edu/api/people/jane-smith", false, true)
	assert.Greater(t, clean, infra)
}
