package analysis

import (
	"testing"

	"cv-match/internal/cv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func matchIDs(matches []JobMatch) []string {
	ids := make([]string, len(matches))
	for i, m := range matches {
		ids[i] = m.Posting.ID
	}
	return ids
}

func TestMatchJobs_RanksByJaccard(t *testing.T) {
	matches := MatchJobs(skillSet("Python", "Go", "distributed systems"), testCatalog())

	require.Len(t, matches, 4)
	assert.Equal(t, []string{"job-1", "job-2", "job-3", "job-4"}, matchIDs(matches))

	assert.InDelta(t, 0.5, matches[0].Relevance, 1e-9)
	assert.InDelta(t, 0.25, matches[1].Relevance, 1e-9)
	assert.Zero(t, matches[2].Relevance)
	assert.Zero(t, matches[3].Relevance)

	assert.Equal(t, []string{"Go", "distributed systems"}, matches[0].MatchedSkills)
	assert.Equal(t, []string{"Kubernetes"}, matches[0].MissingSkills)

	for i, m := range matches {
		assert.Equal(t, i+1, m.Rank)
	}
}

func TestMatchJobs_TiesBreakByID(t *testing.T) {
	catalog := []JobPosting{
		{ID: "b", Title: "B", RequiredSkills: []string{"Go"}},
		{ID: "c", Title: "C", RequiredSkills: []string{"Go"}},
		{ID: "a", Title: "A", RequiredSkills: []string{"Go"}},
	}

	matches := MatchJobs(skillSet("Go"), catalog)
	assert.Equal(t, []string{"a", "b", "c"}, matchIDs(matches))
	for _, m := range matches {
		assert.InDelta(t, 1.0, m.Relevance, 1e-9)
	}
}

func TestMatchJobs_EmptySkillsKeepsEveryPosting(t *testing.T) {
	matches := MatchJobs(cv.SkillSet{}, testCatalog())

	require.Len(t, matches, 4)
	assert.Equal(t, []string{"job-1", "job-2", "job-3", "job-4"}, matchIDs(matches))
	for _, m := range matches {
		assert.Zero(t, m.Relevance)
		assert.Empty(t, m.MatchedSkills)
		assert.Equal(t, m.Posting.RequiredSkills, m.MissingSkills)
	}
}

func TestMatchJobs_EmptyCatalog(t *testing.T) {
	matches := MatchJobs(skillSet("Go"), nil)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestMatchJobs_RequiredSkillsAreDeduplicated(t *testing.T) {
	catalog := []JobPosting{
		{ID: "dup", Title: "Dup", RequiredSkills: []string{"Go", "go", " GO ", "", "Docker"}},
	}

	matches := MatchJobs(skillSet("Go"), catalog)
	require.Len(t, matches, 1)
	assert.InDelta(t, 0.5, matches[0].Relevance, 1e-9)
	assert.Equal(t, []string{"Go"}, matches[0].MatchedSkills)
	assert.Equal(t, []string{"Docker"}, matches[0].MissingSkills)
}

func TestMatchJobs_RelevanceWithinBounds(t *testing.T) {
	sets := []cv.SkillSet{
		{},
		skillSet("Java"),
		skillSet("Objective-C", "Go"),
		skillSet("Python", "SQL"),
		skillSet("Python", "Go", "distributed systems", "Kubernetes", "Docker", "Java", "SQL", "Objective-C"),
	}

	for _, skills := range sets {
		matches := MatchJobs(skills, testCatalog())
		for i, m := range matches {
			assert.GreaterOrEqual(t, m.Relevance, 0.0)
			assert.LessOrEqual(t, m.Relevance, 1.0)
			if i > 0 {
				assert.GreaterOrEqual(t, matches[i-1].Relevance, m.Relevance)
			}
		}
	}
}

func TestMatchJobs_DoesNotReorderCatalog(t *testing.T) {
	catalog := testCatalog()
	MatchJobs(skillSet("Go"), catalog)
	assert.Equal(t, testCatalog(), catalog)
}
