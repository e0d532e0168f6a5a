package analysis

import (
	"sort"
	"strings"

	"cv-match/internal/cv"
)

// MatchJobs ranks every posting in the catalog against the candidate's
// skills. Relevance is the Jaccard similarity between the candidate skill
// names and the posting's required skills. Postings with no overlap are kept
// with relevance 0 and sort last. Equal relevance is ordered by posting ID.
func MatchJobs(skills cv.SkillSet, catalog []JobPosting) []JobMatch {
	candidate := make(map[string]bool, len(skills))
	for _, s := range skills {
		candidate[strings.ToLower(s.Name)] = true
	}

	matches := make([]JobMatch, 0, len(catalog))
	for _, posting := range catalog {
		matches = append(matches, scorePosting(candidate, posting))
	}

	sortByRelevance(matches)

	for i := range matches {
		matches[i].Rank = i + 1
	}

	return matches
}

func scorePosting(candidate map[string]bool, posting JobPosting) JobMatch {
	required := make(map[string]bool, len(posting.RequiredSkills))
	matched := []string{}
	missing := []string{}

	for _, skill := range posting.RequiredSkills {
		key := strings.ToLower(strings.TrimSpace(skill))
		if key == "" || required[key] {
			continue
		}
		required[key] = true
		if candidate[key] {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	union := len(candidate) + len(required) - len(matched)
	relevance := 0.0
	if union > 0 {
		relevance = float64(len(matched)) / float64(union)
	}

	return JobMatch{
		Posting:       posting,
		Relevance:     relevance,
		MatchedSkills: matched,
		MissingSkills: missing,
	}
}

func sortByRelevance(matches []JobMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Relevance != matches[j].Relevance {
			return matches[i].Relevance > matches[j].Relevance
		}
		return matches[i].Posting.ID < matches[j].Posting.ID
	})
}
