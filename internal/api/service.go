package api

import (
	"context"
	"io"
	"strings"

	"cv-match/internal/analysis"
	"cv-match/internal/cv"
	"cv-match/internal/reference"
	"cv-match/internal/upload"
)

// CatalogError wraps a rejected catalog override.
type CatalogError struct {
	Cause error
}

func (e *CatalogError) Error() string {
	return "invalid catalog: " + e.Cause.Error()
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// Service is the upload-to-result flow shared by both HTTP front ends.
type Service struct {
	engine  *analysis.Engine
	uploads *upload.Store
}

func NewService(engine *analysis.Engine, uploads *upload.Store) *Service {
	return &Service{engine: engine, uploads: uploads}
}

// Reference returns the loaded reference tables.
func (s *Service) Reference() *analysis.Reference {
	return s.engine.Reference()
}

// MaxUploadBytes is the per-file size ceiling.
func (s *Service) MaxUploadBytes() int64 {
	return s.uploads.MaxBytes()
}

// AnalyzeUpload stores the upload for the duration of the analysis and runs
// the engine on it. catalogJSON, when not blank, replaces the loaded catalog
// for this request only.
func (s *Service) AnalyzeUpload(ctx context.Context, file io.Reader, filename, catalogJSON string) (*analysis.AnalysisResult, error) {
	catalog, err := s.parseCatalog(catalogJSON)
	if err != nil {
		return nil, err
	}

	var result *analysis.AnalysisResult
	err = s.uploads.WithTempFile(file, filename, func(doc cv.Document) error {
		var analyzeErr error
		result, analyzeErr = s.engine.Analyze(ctx, doc, catalog)
		return analyzeErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) parseCatalog(catalogJSON string) ([]analysis.JobPosting, error) {
	if strings.TrimSpace(catalogJSON) == "" {
		return nil, nil
	}
	postings, err := reference.ParseCatalog([]byte(catalogJSON))
	if err != nil {
		return nil, &CatalogError{Cause: err}
	}
	return reference.CanonicalizeCatalog(s.engine.Reference().Taxonomy, postings), nil
}

// SkillsResponse lists the taxonomy.
type SkillsResponse struct {
	Total  int                  `json:"total"`
	Skills []cv.SkillDefinition `json:"skills"`
}

// JobsResponse lists the loaded catalog.
type JobsResponse struct {
	Total int                   `json:"total"`
	Jobs  []analysis.JobPosting `json:"jobs"`
}

func (s *Service) Skills() SkillsResponse {
	skills := s.Reference().Taxonomy.Skills()
	return SkillsResponse{Total: len(skills), Skills: skills}
}

func (s *Service) Jobs() JobsResponse {
	jobs := s.Reference().Catalog
	if jobs == nil {
		jobs = []analysis.JobPosting{}
	}
	return JobsResponse{Total: len(jobs), Jobs: jobs}
}
