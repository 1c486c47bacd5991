package crawler

import "strings"

// Generic URL terms that indicate an academic context.
var academicURLIndicators = []string{
	"faculty", "people", "staff", "department", "research",
	"university", "college", "school", "professor", "academic", "scholar",
}

// Academic top-level domain suffixes.
var academicDomainSuffixes = []string{
	".edu", ".ac.uk", ".edu.au", ".edu.cn", ".ac.jp", ".ac.kr", ".edu.sg",
}

// Well-known institution domains that don't always carry an academic TLD.
var knownInstitutionDomains = []string{
	"mit.edu", "stanford.edu", "harvard.edu", "berkeley.edu", "nyu.edu",
	"uiowa.edu", "cmu.edu", "caltech.edu", "ox.ac.uk", "cam.ac.uk",
	"ethz.ch", "epfl.ch", "tsinghua.edu.cn", "pku.edu.cn", "u-tokyo.ac.jp",
}

// Keywords whose co-occurrence across page regions marks an academic page.
var academicRegionKeywords = []string{
	"faculty", "professor", "research", "academic", "department", "college",
}

// IsAcademicURL reports whether the URL alone looks like it belongs to an
// academic institution.
func IsAcademicURL(pageURL string) bool {
	lower := strings.ToLower(pageURL)

	for _, domain := range knownInstitutionDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	for _, suffix := range academicDomainSuffixes {
		if strings.Contains(lower, suffix+"/") || strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	for _, term := range academicURLIndicators {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

// IsAcademicPage classifies the current page as academic from its URL,
// falling back to structural text signals. The fallback requires keyword
// matches in at least two distinct regions so a single stray mention of
// "research" doesn't flip a generic page.
func IsAcademicPage(pageURL string, regions *RegionSet) bool {
	if IsAcademicURL(pageURL) {
		return true
	}
	if regions == nil {
		return false
	}

	matched := 0
	for _, text := range []string{regions.NavText(), regions.ContentText()} {
		lower := strings.ToLower(text)
		for _, kw := range academicRegionKeywords {
			if strings.Contains(lower, kw) {
				matched++
				break
			}
		}
	}
	return matched >= 2
}
