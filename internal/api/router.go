package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter wires the routes and wraps them in request id, access log and
// panic recovery middleware. swaggerURL is where the UI fetches doc.json.
func NewRouter(a *API, swaggerURL string) http.Handler {
	mux := http.NewServeMux()

	// Swagger documentation
	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL(swaggerURL),
	))

	mux.HandleFunc("GET /{$}", a.IndexHandler)

	// Health check (for Railway, k8s, etc.)
	mux.HandleFunc("GET /health", a.HealthHandler)

	// CV analysis
	mux.HandleFunc("POST /api/cv/upload", a.CVUploadHandler)

	// Reference data
	mux.HandleFunc("GET /api/skills", a.SkillsHandler)
	mux.HandleFunc("GET /api/jobs", a.JobsHandler)

	return RequestID(Logger(Recover(mux)))
}
