package reference

import (
	"encoding/json"
	"fmt"
	"strings"

	"cv-match/internal/analysis"
	"cv-match/internal/cv"
	"cv-match/internal/storage"
)

type taxonomyDocument struct {
	Skills []cv.SkillDefinition `json:"skills" validate:"required,dive"`
}

type catalogDocument struct {
	Postings []analysis.JobPosting `validate:"dive"`
}

// ParseTaxonomy validates a taxonomy document and builds the taxonomy.
func ParseTaxonomy(data []byte) (*cv.Taxonomy, error) {
	if err := validateJSON("taxonomy", taxonomySchema, data); err != nil {
		return nil, err
	}

	var doc taxonomyDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode taxonomy: %w", err)
	}
	if err := validateStruct("taxonomy", doc); err != nil {
		return nil, err
	}

	return cv.NewTaxonomy(doc.Skills)
}

// ParseMarket validates a market reference table.
func ParseMarket(data []byte) (analysis.MarketTable, error) {
	var table analysis.MarketTable
	if err := validateJSON("market table", marketSchema, data); err != nil {
		return table, err
	}
	if err := json.Unmarshal(data, &table); err != nil {
		return table, fmt.Errorf("failed to decode market table: %w", err)
	}
	if err := validateStruct("market table", table); err != nil {
		return table, err
	}
	if _, err := analysis.NewMarketEstimator(table); err != nil {
		return table, fmt.Errorf("invalid market table: %w", err)
	}
	return table, nil
}

// ParseCatalog validates a JSON array of job postings. Posting ids must be
// unique.
func ParseCatalog(data []byte) ([]analysis.JobPosting, error) {
	if err := validateJSON("catalog", catalogSchema, data); err != nil {
		return nil, err
	}

	var postings []analysis.JobPosting
	if err := json.Unmarshal(data, &postings); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if postings == nil {
		postings = []analysis.JobPosting{}
	}
	if err := validateStruct("catalog", catalogDocument{Postings: postings}); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(postings))
	for _, p := range postings {
		if seen[p.ID] {
			return nil, &ValidationError{
				Document: "catalog",
				Errors:   []FieldError{{Field: p.ID, Message: "duplicate posting id"}},
			}
		}
		seen[p.ID] = true
	}
	return postings, nil
}

// CanonicalizeCatalog rewrites required skills to their taxonomy names so
// aliases in a posting ("golang") match extracted skills ("Go"). Skills the
// taxonomy does not know are kept as written.
func CanonicalizeCatalog(taxonomy *cv.Taxonomy, postings []analysis.JobPosting) []analysis.JobPosting {
	out := make([]analysis.JobPosting, len(postings))
	for i, p := range postings {
		skills := make([]string, 0, len(p.RequiredSkills))
		for _, s := range p.RequiredSkills {
			s = strings.TrimSpace(s)
			if name, ok := taxonomy.Canonical(s); ok {
				s = name
			}
			skills = append(skills, s)
		}
		p.RequiredSkills = skills
		out[i] = p
	}
	return out
}

// FromStorage converts catalog rows into postings.
func FromStorage(rows []storage.JobPosting) []analysis.JobPosting {
	postings := make([]analysis.JobPosting, 0, len(rows))
	for _, r := range rows {
		postings = append(postings, analysis.JobPosting{
			ID:             r.ID,
			Title:          r.Title,
			Location:       r.Location,
			RequiredSkills: r.RequiredSkills,
			Salary:         analysis.SalaryRange{Min: r.SalaryMin, Max: r.SalaryMax},
		})
	}
	return postings
}

// ToStorage converts postings into catalog rows.
func ToStorage(postings []analysis.JobPosting) []storage.JobPosting {
	rows := make([]storage.JobPosting, 0, len(postings))
	for _, p := range postings {
		rows = append(rows, storage.JobPosting{
			ID:             p.ID,
			Title:          p.Title,
			Location:       p.Location,
			RequiredSkills: p.RequiredSkills,
			SalaryMin:      p.Salary.Min,
			SalaryMax:      p.Salary.Max,
		})
	}
	return rows
}
