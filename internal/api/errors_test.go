package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"cv-match/internal/analysis"
	"cv-match/internal/cv"
	"cv-match/internal/upload"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"missing file", ErrMissingFile, http.StatusBadRequest},
		{"empty file", upload.ErrEmptyFile, http.StatusBadRequest},
		{"disallowed", &upload.DisallowedExtensionError{Filename: "a.exe"}, http.StatusBadRequest},
		{"unsupported", &cv.UnsupportedFormatError{Format: "rtf"}, http.StatusBadRequest},
		{"catalog", &CatalogError{Cause: errors.New("bad")}, http.StatusBadRequest},
		{"too large", &analysis.InputTooLargeError{Size: 2, Limit: 1}, http.StatusRequestEntityTooLarge},
		{"max bytes", &http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge},
		{"wrapped corrupt", fmt.Errorf("extract: %w", &cv.CorruptDocumentError{Format: cv.FormatPDF}), http.StatusUnprocessableEntity},
		{"internal", &analysis.InternalComputationError{Stage: "scoring"}, http.StatusInternalServerError},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := MapError(tt.err)
			assert.Equal(t, tt.status, apiErr.Code)
			assert.NotContains(t, apiErr.Message, "disk on fire")
		})
	}
}
