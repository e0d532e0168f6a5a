package analysis

import (
	"fmt"
	"strings"

	"cv-match/internal/cv"
)

// MarketEntry is the demand weight and salary contribution of one skill.
type MarketEntry struct {
	Skill        string  `json:"skill" validate:"required"`
	DemandWeight float64 `json:"demandWeight" validate:"gte=0"`
	SalaryMin    int     `json:"salaryMin" validate:"gte=0"`
	SalaryMax    int     `json:"salaryMax" validate:"gtefield=SalaryMin"`
}

// MarketTable is the static reference table behind the market estimate.
// Demand is High when the summed weights reach HighCutoff, Medium when they
// reach MediumCutoff, otherwise Low.
type MarketTable struct {
	Skills       []MarketEntry `json:"skills" validate:"dive"`
	Floor        SalaryRange   `json:"floor"`
	Ceiling      int           `json:"ceiling" validate:"gt=0"`
	MediumCutoff float64       `json:"mediumCutoff" validate:"gt=0"`
	HighCutoff   float64       `json:"highCutoff" validate:"gtfield=MediumCutoff"`
}

// MarketEstimator is a pure lookup over a MarketTable.
type MarketEstimator struct {
	entries map[string]MarketEntry
	table   MarketTable
}

// NewMarketEstimator indexes the table by lower-cased skill name.
func NewMarketEstimator(table MarketTable) (*MarketEstimator, error) {
	if table.Floor.Min < 0 || table.Floor.Max < table.Floor.Min {
		return nil, fmt.Errorf("invalid salary floor %d-%d", table.Floor.Min, table.Floor.Max)
	}
	if table.Ceiling < table.Floor.Max {
		return nil, fmt.Errorf("salary ceiling %d is below floor max %d", table.Ceiling, table.Floor.Max)
	}
	if table.MediumCutoff <= 0 || table.HighCutoff <= table.MediumCutoff {
		return nil, fmt.Errorf("invalid demand cutoffs medium=%v high=%v", table.MediumCutoff, table.HighCutoff)
	}

	entries := make(map[string]MarketEntry, len(table.Skills))
	for _, e := range table.Skills {
		if e.DemandWeight < 0 || e.SalaryMin < 0 || e.SalaryMax < e.SalaryMin {
			return nil, fmt.Errorf("invalid market entry for %q", e.Skill)
		}
		key := strings.ToLower(strings.TrimSpace(e.Skill))
		if _, exists := entries[key]; exists {
			return nil, fmt.Errorf("duplicate market entry for %q", e.Skill)
		}
		entries[key] = e
	}

	return &MarketEstimator{entries: entries, table: table}, nil
}

// Estimate sums demand weights and salary contributions for the skill set.
// Skills missing from the table contribute nothing.
func (m *MarketEstimator) Estimate(skills cv.SkillSet) MarketAssessment {
	demand := 0.0
	salaryMin, salaryMax := 0, 0
	for _, s := range skills {
		entry, ok := m.entries[strings.ToLower(s.Name)]
		if !ok {
			continue
		}
		demand += entry.DemandWeight
		salaryMin += entry.SalaryMin
		salaryMax += entry.SalaryMax
	}

	salary := SalaryRange{
		Min: clamp(salaryMin, m.table.Floor.Min, m.table.Ceiling),
		Max: clamp(salaryMax, m.table.Floor.Max, m.table.Ceiling),
	}
	if salary.Max < salary.Min {
		salary.Max = salary.Min
	}

	return MarketAssessment{
		Demand:      m.demandLevel(demand),
		DemandScore: demand,
		Salary:      salary,
	}
}

func (m *MarketEstimator) demandLevel(score float64) DemandLevel {
	switch {
	case score >= m.table.HighCutoff:
		return DemandHigh
	case score >= m.table.MediumCutoff:
		return DemandMedium
	default:
		return DemandLow
	}
}
