package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"cv-match/internal/cv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = "Experienced Python and Go backend engineer, 5 years, built distributed systems"

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	engine, err := NewEngine(testReference(t), opts...)
	require.NoError(t, err)
	return engine
}

func TestEngine_AnalyzeSampleResume(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Analyze(context.Background(), cv.Document{Data: []byte(sampleResume), Format: cv.FormatText}, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Python", "Go", "distributed systems"}, result.Profile.Skills.Names())
	assert.Contains(t, []Band{BandModerate, BandStrong}, result.Profile.Band)
	assert.Equal(t, DemandHigh, result.Market.Demand)
	assert.Equal(t, SalaryRange{Min: 105000, Max: 180000}, result.Market.Salary)

	require.Len(t, result.Matches, 4)
	assert.Equal(t, "job-1", result.Matches[0].Posting.ID)
	assert.Equal(t, 1, result.Matches[0].Rank)
}

func TestEngine_AnalyzeEmptyText(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Analyze(context.Background(), cv.Document{Format: cv.FormatText}, nil)
	require.NoError(t, err)

	assert.Empty(t, result.Profile.Skills)
	assert.LessOrEqual(t, result.Profile.Score, 10)
	assert.Contains(t, strings.ToLower(result.Profile.Summary), "no recognizable skills")
	assert.Equal(t, DemandLow, result.Market.Demand)
	assert.Equal(t, testMarketTable().Floor, result.Market.Salary)
	for _, m := range result.Matches {
		assert.Zero(t, m.Relevance)
	}
}

func TestEngine_AnalyzeEmptyBinaryFormats(t *testing.T) {
	engine := newTestEngine(t)

	for _, format := range []cv.Format{cv.FormatPDF, cv.FormatDOCX} {
		result, err := engine.Analyze(context.Background(), cv.Document{Format: format}, nil)
		require.NoError(t, err, format)
		assert.Empty(t, result.Profile.Skills)
		assert.Equal(t, BandLimited, result.Profile.Band)
	}
}

func TestEngine_AnalyzeErrors(t *testing.T) {
	engine := newTestEngine(t, WithMaxDocumentBytes(64))
	ctx := context.Background()

	t.Run("too large", func(t *testing.T) {
		_, err := engine.Analyze(ctx, cv.Document{Data: make([]byte, 65), Format: cv.FormatText}, nil)

		var tooLarge *InputTooLargeError
		require.True(t, errors.As(err, &tooLarge))
		assert.Equal(t, int64(65), tooLarge.Size)
		assert.Equal(t, int64(64), tooLarge.Limit)
	})

	t.Run("at the limit", func(t *testing.T) {
		_, err := engine.Analyze(ctx, cv.Document{Data: []byte(strings.Repeat("a", 64)), Format: cv.FormatText}, nil)
		assert.NoError(t, err)
	})

	t.Run("unsupported format", func(t *testing.T) {
		_, err := engine.Analyze(ctx, cv.Document{Data: []byte("x"), Format: cv.Format("rtf")}, nil)

		var unsupported *cv.UnsupportedFormatError
		require.True(t, errors.As(err, &unsupported))
		assert.Equal(t, "rtf", unsupported.Format)
	})

	t.Run("corrupt pdf", func(t *testing.T) {
		_, err := engine.Analyze(ctx, cv.Document{Data: []byte("not a pdf"), Format: cv.FormatPDF}, nil)

		var corrupt *cv.CorruptDocumentError
		require.True(t, errors.As(err, &corrupt))
		assert.Equal(t, cv.FormatPDF, corrupt.Format)
	})
}

func TestEngine_CustomCatalog(t *testing.T) {
	engine := newTestEngine(t)
	catalog := []JobPosting{{ID: "custom", Title: "Go only", RequiredSkills: []string{"Go"}}}

	result, err := engine.Analyze(context.Background(), cv.Document{Data: []byte("golang"), Format: cv.FormatText}, catalog)
	require.NoError(t, err)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "custom", result.Matches[0].Posting.ID)
	assert.InDelta(t, 1.0, result.Matches[0].Relevance, 1e-9)

	empty, err := engine.Analyze(context.Background(), cv.Document{Data: []byte("golang"), Format: cv.FormatText}, []JobPosting{})
	require.NoError(t, err)
	assert.Empty(t, empty.Matches)
}

func TestEngine_ConcurrentAnalysesAgree(t *testing.T) {
	engine := newTestEngine(t)
	doc := cv.Document{Data: []byte(sampleResume), Format: cv.FormatText}

	expected, err := engine.Analyze(context.Background(), doc, nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*AnalysisResult, 16)
	errs := make([]error, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = engine.Analyze(context.Background(), doc, nil)
		}(i)
	}
	wg.Wait()

	for i := range results {
		require.NoError(t, errs[i])
		assert.Equal(t, expected, results[i])
	}
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(nil)
	assert.Error(t, err)

	_, err = NewEngine(&Reference{Market: testMarketTable()})
	assert.Error(t, err)

	ref := testReference(t)
	ref.Market.Ceiling = 1
	_, err = NewEngine(ref)
	assert.Error(t, err)
}

func TestCheckInvariants(t *testing.T) {
	valid := func() *AnalysisResult {
		return &AnalysisResult{
			Profile: CandidateProfile{Score: 50, Band: BandModerate, Summary: "ok"},
			Market:  MarketAssessment{Demand: DemandLow, Salary: SalaryRange{Min: 1, Max: 2}},
			Matches: []JobMatch{{Relevance: 0.5}, {Relevance: 0.1}},
		}
	}
	require.NoError(t, checkInvariants(valid()))

	tests := []struct {
		name   string
		mutate func(*AnalysisResult)
		stage  string
	}{
		{"score over 100", func(r *AnalysisResult) { r.Profile.Score = 101 }, "scoring"},
		{"empty summary", func(r *AnalysisResult) { r.Profile.Summary = "" }, "scoring"},
		{"inverted salary", func(r *AnalysisResult) { r.Market.Salary = SalaryRange{Min: 5, Max: 1} }, "market"},
		{"relevance out of range", func(r *AnalysisResult) { r.Matches[0].Relevance = 1.5 }, "matching"},
		{"unsorted matches", func(r *AnalysisResult) { r.Matches[1].Relevance = 0.9 }, "matching"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid()
			tt.mutate(r)

			var internal *InternalComputationError
			require.True(t, errors.As(checkInvariants(r), &internal))
			assert.Equal(t, tt.stage, internal.Stage)
		})
	}
}

func TestAnalysisResult_MarshalJSON(t *testing.T) {
	engine := newTestEngine(t)

	result, err := engine.Analyze(context.Background(), cv.Document{Data: []byte(sampleResume), Format: cv.FormatText}, nil)
	require.NoError(t, err)

	body, err := json.Marshal(result)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(body, &wire))

	for _, key := range []string{"score", "band", "summary", "skills", "demand", "demandScore", "salaryRange", "matches"} {
		assert.Contains(t, wire, key)
	}
	assert.Equal(t, "High", wire["demand"])

	skills := wire["skills"].([]any)
	require.Len(t, skills, 3)
	assert.Equal(t, map[string]any{"name": "Python", "count": float64(1)}, skills[0])

	matches := wire["matches"].([]any)
	first := matches[0].(map[string]any)
	assert.Equal(t, "job-1", first["postingId"])
	assert.Equal(t, []any{"Kubernetes"}, first["missingSkills"])
}

func TestAnalysisResult_MarshalJSONEmptyCollections(t *testing.T) {
	body, err := json.Marshal(AnalysisResult{})
	require.NoError(t, err)
	assert.Contains(t, string(body), `"skills":[]`)
	assert.Contains(t, string(body), `"matches":[]`)
}
