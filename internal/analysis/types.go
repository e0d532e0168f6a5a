// Package analysis scores a candidate's extracted skills, estimates the
// market for them and ranks job postings by relevance.
package analysis

import (
	"encoding/json"

	"cv-match/internal/cv"
)

// Band is the qualitative reading of a candidate score.
type Band string

const (
	BandStrong   Band = "Strong"
	BandModerate Band = "Moderate"
	BandLimited  Band = "Limited"
)

// DemandLevel is the market demand for a skill set.
type DemandLevel string

const (
	DemandLow    DemandLevel = "Low"
	DemandMedium DemandLevel = "Medium"
	DemandHigh   DemandLevel = "High"
)

// SalaryRange is an annual salary band. Min <= Max, both >= 0.
type SalaryRange struct {
	Min int `json:"min" validate:"gte=0"`
	Max int `json:"max" validate:"gtefield=Min"`
}

// CandidateProfile is produced once per analysis and not modified afterwards.
type CandidateProfile struct {
	Score   int
	Band    Band
	Summary string
	Skills  cv.SkillSet
}

// MarketAssessment is the demand level and salary band for a skill set.
type MarketAssessment struct {
	Demand      DemandLevel
	DemandScore float64
	Salary      SalaryRange
}

// JobPosting is reference data supplied by the catalog.
type JobPosting struct {
	ID             string      `json:"id" validate:"required"`
	Title          string      `json:"title" validate:"required"`
	RequiredSkills []string    `json:"requiredSkills" validate:"dive,required"`
	Location       string      `json:"location,omitempty"`
	Salary         SalaryRange `json:"salaryRange"`
}

// JobMatch is a posting scored against one candidate.
type JobMatch struct {
	Posting       JobPosting
	Relevance     float64
	Rank          int
	MatchedSkills []string
	MissingSkills []string
}

// Reference bundles the read-only tables shared by every analysis.
type Reference struct {
	Taxonomy *cv.Taxonomy
	Market   MarketTable
	Catalog  []JobPosting
}

// AnalysisResult is the only value returned to callers of the engine.
type AnalysisResult struct {
	Profile CandidateProfile
	Market  MarketAssessment
	Matches []JobMatch
}

type skillJSON struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type matchJSON struct {
	PostingID     string   `json:"postingId"`
	Title         string   `json:"title"`
	Location      string   `json:"location,omitempty"`
	Relevance     float64  `json:"relevance"`
	Rank          int      `json:"rank"`
	MatchedSkills []string `json:"matchedSkills"`
	MissingSkills []string `json:"missingSkills"`
}

type resultJSON struct {
	Score       int         `json:"score"`
	Band        Band        `json:"band"`
	Summary     string      `json:"summary"`
	Skills      []skillJSON `json:"skills"`
	Demand      DemandLevel `json:"demand"`
	DemandScore float64     `json:"demandScore"`
	SalaryRange SalaryRange `json:"salaryRange"`
	Matches     []matchJSON `json:"matches"`
}

// MarshalJSON flattens the result into the wire shape served to clients.
func (r AnalysisResult) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Score:       r.Profile.Score,
		Band:        r.Profile.Band,
		Summary:     r.Profile.Summary,
		Skills:      make([]skillJSON, 0, len(r.Profile.Skills)),
		Demand:      r.Market.Demand,
		DemandScore: r.Market.DemandScore,
		SalaryRange: r.Market.Salary,
		Matches:     make([]matchJSON, 0, len(r.Matches)),
	}
	for _, s := range r.Profile.Skills {
		out.Skills = append(out.Skills, skillJSON{Name: s.Name, Count: s.Count})
	}
	for _, m := range r.Matches {
		out.Matches = append(out.Matches, matchJSON{
			PostingID:     m.Posting.ID,
			Title:         m.Posting.Title,
			Location:      m.Posting.Location,
			Relevance:     m.Relevance,
			Rank:          m.Rank,
			MatchedSkills: nonNil(m.MatchedSkills),
			MissingSkills: nonNil(m.MissingSkills),
		})
	}
	return json.Marshal(out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
