package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// multipartSlack covers the multipart framing and the optional catalog field
// on top of the file itself.
const multipartSlack = 1 << 20

// CVUploadHandler analyzes an uploaded CV
// @Summary Upload and analyze CV
// @Description Upload a CV file (PDF, DOCX or TXT) and get its score, skills, market estimate and ranked job matches
// @Tags cv
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CV file (PDF, DOCX or TXT)"
// @Param catalog formData string false "JSON array of job postings to match against instead of the loaded catalog"
// @Success 200 {object} analysis.AnalysisResult
// @Failure 400 {object} apierror.ApiError
// @Failure 413 {object} apierror.ApiError
// @Failure 422 {object} apierror.ApiError
// @Failure 500 {object} apierror.ApiError
// @Router /api/cv/upload [post]
func (a *API) CVUploadHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, a.service.MaxUploadBytes()+multipartSlack)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			a.respondWithMappedError(w, r, err)
			return
		}
		a.respondWithMappedError(w, r, ErrMissingFile)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		a.respondWithMappedError(w, r, ErrMissingFile)
		return
	}
	defer file.Close()

	result, err := a.service.AnalyzeUpload(r.Context(), file, header.Filename, r.FormValue("catalog"))
	if err != nil {
		a.respondWithMappedError(w, r, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, result)
	slog.InfoContext(r.Context(), "cv analyzed",
		"filename", header.Filename,
		"bytes", header.Size,
		"score", result.Profile.Score,
		"duration_ms", time.Since(startTime).Milliseconds(),
	)
}
