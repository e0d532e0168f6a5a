// Package api is the net/http front end: routing, middleware, the upload
// handler and the JSON error mapping shared with the Fiber front end.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"

	"cv-match/pkg/logger"
)

//go:embed static/index.html
var IndexHTML []byte

type API struct {
	service *Service
}

func NewAPI(service *Service) *API {
	return &API{service: service}
}

// IndexHandler serves the upload page.
func (a *API) IndexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(IndexHTML); err != nil {
		slog.WarnContext(r.Context(), "failed to write index page", "error", err)
	}
}

// HealthHandler reports liveness.
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (a *API) HealthHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// SkillsHandler lists the skill taxonomy
// @Summary List skills
// @Description List every skill the extractor recognizes, with aliases
// @Tags reference
// @Produce json
// @Success 200 {object} SkillsResponse
// @Router /api/skills [get]
func (a *API) SkillsHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, a.service.Skills())
}

// JobsHandler lists the job catalog
// @Summary List job postings
// @Description List the job catalog uploads are matched against
// @Tags reference
// @Produce json
// @Success 200 {object} JobsResponse
// @Router /api/jobs [get]
func (a *API) JobsHandler(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, a.service.Jobs())
}

func (a *API) respondWithMappedError(w http.ResponseWriter, r *http.Request, err error) {
	apiErr := MapError(err).WithRequestID(logger.GetRequestID(r.Context()))
	if apiErr.Code >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "error", err, "status", apiErr.Code)
	} else {
		slog.WarnContext(r.Context(), "request rejected", "error", err, "status", apiErr.Code)
	}
	RespondWithError(w, apiErr)
}
