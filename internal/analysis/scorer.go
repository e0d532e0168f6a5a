package analysis

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"cv-match/internal/cv"
)

// Score components. The maximums add up to 100 and every component is
// non-decreasing in its input, so more skills or more structure never lower
// the score.
const (
	breadthPerSkill     = 5.0
	breadthCap          = 8
	depthWeight         = 20.0
	depthSaturation     = 20
	seniorityKeywordPts = 9.0
	seniorityYearsPts   = 6.0
	lengthWeight        = 10.0
	lengthCapWords      = 300
	structurePerHeader  = 3.0
	structureCapHeaders = 5

	// emptySkillsCeiling bounds the score when no skill was recognized.
	emptySkillsCeiling = 10

	strongThreshold   = 65
	moderateThreshold = 35

	// DefaultSummaryTopN is how many skills the summary names by default.
	DefaultSummaryTopN = 3
)

var (
	seniorityPattern = regexp.MustCompile(`\b(?:senior|lead|principal|staff|architect|head of|experienced|manager)\b`)
	yearsPattern     = regexp.MustCompile(`\b\d{1,2}\+?\s?(?:years?|yrs?)\b`)
	sectionPatterns  = compileSections(
		"experience", "work history", "employment", "education", "skills",
		"projects", "summary", "certifications", "publications", "achievements",
	)
)

func compileSections(headers ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(headers))
	for i, h := range headers {
		out[i] = regexp.MustCompile(`\b` + regexp.QuoteMeta(h) + `\b`)
	}
	return out
}

// Scorer derives a 0-100 fitness score and a templated summary.
type Scorer struct {
	topN     int
	taxonomy *cv.Taxonomy
}

// NewScorer returns a scorer whose summary names topN skills. Non-positive
// values fall back to DefaultSummaryTopN. Seniority and section markers are
// looked for with the taxonomy's skill mentions stripped out; a nil taxonomy
// matches them against the whole text.
func NewScorer(topN int, taxonomy *cv.Taxonomy) *Scorer {
	if topN <= 0 {
		topN = DefaultSummaryTopN
	}
	return &Scorer{topN: topN, taxonomy: taxonomy}
}

// Score builds the candidate profile for the extracted skills and the
// normalized text they came from.
func (s *Scorer) Score(skills cv.SkillSet, text string) CandidateProfile {
	// A skill mention inserted inside "5 years" or "head of" must not
	// cost the marker its points.
	rest := cv.StripSkills(text, s.taxonomy)
	total := breadthScore(skills) + depthScore(skills) + seniorityScore(rest) +
		lengthScore(text) + structureScore(rest)

	score := clamp(int(math.Round(total)), 0, 100)
	if len(skills) == 0 && score > emptySkillsCeiling {
		score = emptySkillsCeiling
	}
	band := bandFor(score)

	return CandidateProfile{
		Score:   score,
		Band:    band,
		Summary: s.summarize(skills, text, score, band),
		Skills:  skills,
	}
}

func breadthScore(skills cv.SkillSet) float64 {
	n := len(skills)
	if n > breadthCap {
		n = breadthCap
	}
	return float64(n) * breadthPerSkill
}

// depthScore grows logarithmically with total mentions and saturates.
func depthScore(skills cv.SkillSet) float64 {
	mentions := skills.TotalMentions()
	if mentions <= 0 {
		return 0
	}
	score := depthWeight * math.Log1p(float64(mentions)) / math.Log1p(depthSaturation)
	return math.Min(score, depthWeight)
}

func seniorityScore(text string) float64 {
	score := 0.0
	if seniorityPattern.MatchString(text) {
		score += seniorityKeywordPts
	}
	if yearsPattern.MatchString(text) {
		score += seniorityYearsPts
	}
	return score
}

func lengthScore(text string) float64 {
	words := len(strings.Fields(text))
	if words > lengthCapWords {
		words = lengthCapWords
	}
	return lengthWeight * float64(words) / lengthCapWords
}

func structureScore(text string) float64 {
	found := 0
	for _, p := range sectionPatterns {
		if p.MatchString(text) {
			found++
		}
	}
	if found > structureCapHeaders {
		found = structureCapHeaders
	}
	return float64(found) * structurePerHeader
}

func bandFor(score int) Band {
	switch {
	case score >= strongThreshold:
		return BandStrong
	case score >= moderateThreshold:
		return BandModerate
	default:
		return BandLimited
	}
}

func (s *Scorer) summarize(skills cv.SkillSet, text string, score int, band Band) string {
	if strings.TrimSpace(text) == "" {
		return "No extractable content found in the document; no recognizable skills were found."
	}
	if len(skills) == 0 {
		return fmt.Sprintf("%s candidate profile (%d/100). No recognizable skills were found in the document.", band, score)
	}

	top := topSkills(skills, s.topN)
	return fmt.Sprintf("%s candidate profile (%d/100) with %d recognized skills. Top skills: %s.",
		band, score, len(skills), strings.Join(top, ", "))
}

// topSkills orders by mention count, then by how early the skill first
// appears (skills near the top of a résumé are usually the primary ones),
// then by taxonomy order.
func topSkills(skills cv.SkillSet, n int) []string {
	ranked := make(cv.SkillSet, len(skills))
	copy(ranked, skills)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].FirstOffset < ranked[j].FirstOffset
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked.Names()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
