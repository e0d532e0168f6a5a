package analysis

import (
	"testing"

	"cv-match/internal/cv"

	"github.com/stretchr/testify/require"
)

func testTaxonomy(t *testing.T) *cv.Taxonomy {
	t.Helper()
	tax, err := cv.NewTaxonomy([]cv.SkillDefinition{
		{Name: "Python"},
		{Name: "Go", Aliases: []string{"golang"}},
		{Name: "distributed systems"},
		{Name: "Kubernetes", Aliases: []string{"k8s"}},
		{Name: "Docker"},
		{Name: "Java"},
		{Name: "SQL"},
		{Name: "C"},
		{Name: "Objective-C"},
		{Name: "Terraform"},
	})
	require.NoError(t, err)
	return tax
}

func testMarketTable() MarketTable {
	return MarketTable{
		Skills: []MarketEntry{
			{Skill: "Python", DemandWeight: 1.5, SalaryMin: 40000, SalaryMax: 70000},
			{Skill: "Go", DemandWeight: 1.5, SalaryMin: 45000, SalaryMax: 75000},
			{Skill: "distributed systems", DemandWeight: 1.0, SalaryMin: 20000, SalaryMax: 35000},
			{Skill: "Kubernetes", DemandWeight: 1.2, SalaryMin: 25000, SalaryMax: 40000},
			{Skill: "Docker", DemandWeight: 0.8, SalaryMin: 10000, SalaryMax: 20000},
			{Skill: "Java", DemandWeight: 1.0, SalaryMin: 35000, SalaryMax: 60000},
			{Skill: "SQL", DemandWeight: 0.5, SalaryMin: 10000, SalaryMax: 15000},
		},
		Floor:        SalaryRange{Min: 30000, Max: 45000},
		Ceiling:      250000,
		MediumCutoff: 1.5,
		HighCutoff:   3.0,
	}
}

func testCatalog() []JobPosting {
	return []JobPosting{
		{ID: "job-4", Title: "Java Developer", RequiredSkills: []string{"Java"}},
		{ID: "job-2", Title: "Python Data Engineer", RequiredSkills: []string{"Python", "SQL"}},
		{ID: "job-1", Title: "Backend Go Engineer", RequiredSkills: []string{"Go", "distributed systems", "Kubernetes"}},
		{ID: "job-3", Title: "iOS Developer", RequiredSkills: []string{"Objective-C"}},
	}
}

func testReference(t *testing.T) *Reference {
	t.Helper()
	return &Reference{
		Taxonomy: testTaxonomy(t),
		Market:   testMarketTable(),
		Catalog:  testCatalog(),
	}
}

func skillSet(names ...string) cv.SkillSet {
	set := cv.SkillSet{}
	for i, n := range names {
		set = append(set, cv.SkillMention{Name: n, Count: 1, FirstOffset: i * 10})
	}
	return set
}
