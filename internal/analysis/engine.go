package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"cv-match/internal/cv"
)

// DefaultMaxDocumentBytes matches the upload ceiling of the reference
// deployment (16 MiB).
const DefaultMaxDocumentBytes int64 = 16 << 20

// Engine runs the extract, skills, score, market and match pipeline. It holds
// only immutable reference data and is safe for concurrent use.
type Engine struct {
	ref      *Reference
	scorer   *Scorer
	market   *MarketEstimator
	maxBytes int64
	topN     int
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxDocumentBytes sets the size ceiling checked before extraction.
func WithMaxDocumentBytes(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxBytes = n
		}
	}
}

// WithSummaryTopN sets how many skills the summary names.
func WithSummaryTopN(n int) Option {
	return func(e *Engine) {
		e.topN = n
	}
}

// NewEngine validates the reference tables and builds an engine around them.
func NewEngine(ref *Reference, opts ...Option) (*Engine, error) {
	if ref == nil || ref.Taxonomy == nil {
		return nil, errors.New("reference data with a taxonomy is required")
	}

	market, err := NewMarketEstimator(ref.Market)
	if err != nil {
		return nil, fmt.Errorf("invalid market table: %w", err)
	}

	e := &Engine{
		ref:      ref,
		market:   market,
		maxBytes: DefaultMaxDocumentBytes,
		topN:     DefaultSummaryTopN,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.scorer = NewScorer(e.topN, ref.Taxonomy)

	return e, nil
}

// Reference returns the shared reference tables.
func (e *Engine) Reference() *Reference {
	return e.ref
}

// Analyze runs the full pipeline on one document. A nil catalog means the
// engine's reference catalog. Extraction failures are returned as the typed
// cv errors; anything that goes wrong after extraction is an
// *InternalComputationError.
func (e *Engine) Analyze(ctx context.Context, doc cv.Document, catalog []JobPosting) (*AnalysisResult, error) {
	if size := int64(len(doc.Data)); size > e.maxBytes {
		return nil, &InputTooLargeError{Size: size, Limit: e.maxBytes}
	}

	start := time.Now()
	text, err := cv.Extract(doc)
	if err != nil {
		return nil, err
	}
	slog.DebugContext(ctx, "document extracted", "format", doc.Format, "bytes", len(doc.Data), "text_length", len(text))

	if catalog == nil {
		catalog = e.ref.Catalog
	}

	result, err := e.evaluate(text, catalog)
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "analysis completed",
		"skills", len(result.Profile.Skills),
		"score", result.Profile.Score,
		"demand", result.Market.Demand,
		"matches", len(result.Matches),
		"duration", time.Since(start),
	)

	return result, nil
}

// evaluate runs the pure stages. They are total over normalized text, so a
// panic or a broken invariant here is a defect and is reported as one.
func (e *Engine) evaluate(text string, catalog []JobPosting) (result *AnalysisResult, err error) {
	stage := "skills"
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &InternalComputationError{Stage: stage, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()

	skills := cv.ExtractSkills(text, e.ref.Taxonomy)

	stage = "scoring"
	profile := e.scorer.Score(skills, text)

	stage = "market"
	market := e.market.Estimate(skills)

	stage = "matching"
	matches := MatchJobs(skills, catalog)

	result = &AnalysisResult{Profile: profile, Market: market, Matches: matches}
	if err := checkInvariants(result); err != nil {
		return nil, err
	}
	return result, nil
}

func checkInvariants(r *AnalysisResult) error {
	if r.Profile.Score < 0 || r.Profile.Score > 100 {
		return &InternalComputationError{Stage: "scoring", Cause: fmt.Errorf("score %d out of range", r.Profile.Score)}
	}
	if r.Profile.Summary == "" {
		return &InternalComputationError{Stage: "scoring", Cause: errors.New("empty summary")}
	}
	if r.Market.Salary.Min < 0 || r.Market.Salary.Max < r.Market.Salary.Min {
		return &InternalComputationError{Stage: "market", Cause: fmt.Errorf("invalid salary range %d-%d", r.Market.Salary.Min, r.Market.Salary.Max)}
	}
	for i, m := range r.Matches {
		if m.Relevance < 0 || m.Relevance > 1 || math.IsNaN(m.Relevance) {
			return &InternalComputationError{Stage: "matching", Cause: fmt.Errorf("relevance %v out of range for %s", m.Relevance, m.Posting.ID)}
		}
		if i > 0 && r.Matches[i-1].Relevance < m.Relevance {
			return &InternalComputationError{Stage: "matching", Cause: errors.New("matches not sorted by relevance")}
		}
	}
	return nil
}
