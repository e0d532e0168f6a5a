package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-match/internal/analysis"
	"cv-match/internal/reference"
	"cv-match/internal/upload"
)

const sampleResume = "Experienced Python and Go backend engineer, 5 years, built distributed systems"

func newTestService(t *testing.T, maxBytes int64) (*Service, string) {
	t.Helper()
	ref, err := reference.Builtin(context.Background())
	require.NoError(t, err)
	engine, err := analysis.NewEngine(ref)
	require.NoError(t, err)

	dir := t.TempDir()
	return NewService(engine, upload.NewStore(dir, maxBytes)), dir
}

func newTestServer(t *testing.T, maxBytes int64) (http.Handler, string) {
	t.Helper()
	svc, dir := newTestService(t, maxBytes)
	return NewRouter(NewAPI(svc), "/swagger/doc.json"), dir
}

func multipartRequest(t *testing.T, filename string, content []byte, catalog string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	if catalog != "" {
		require.NoError(t, mw.WriteField("catalog", catalog))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/cv/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestUpload_Success(t *testing.T) {
	handler, dir := newTestServer(t, 1<<20)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, "resume.txt", []byte(sampleResume), ""))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	body := decodeBody(t, rec)
	assert.Equal(t, "High", body["demand"])
	assert.Contains(t, []any{"Moderate", "Strong"}, body["band"])
	skills := body["skills"].([]any)
	assert.Len(t, skills, 3)
	matches := body["matches"].([]any)
	require.NotEmpty(t, matches)
	assert.Greater(t, matches[0].(map[string]any)["relevance"].(float64), 0.0)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUpload_CatalogOverride(t *testing.T) {
	handler, _ := newTestServer(t, 1<<20)
	catalog := `[{"id":"only","title":"Gopher","requiredSkills":["golang"]}]`

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, "resume.txt", []byte("go developer"), catalog))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	matches := decodeBody(t, rec)["matches"].([]any)
	require.Len(t, matches, 1)
	first := matches[0].(map[string]any)
	assert.Equal(t, "only", first["postingId"])
	assert.Equal(t, 1.0, first["relevance"])
	assert.Equal(t, []any{"Go"}, first["matchedSkills"])
}

func TestUpload_EmptyTextDocument(t *testing.T) {
	handler, _ := newTestServer(t, 1<<20)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, multipartRequest(t, "blank.txt", []byte("   \n\t "), ""))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Low", body["demand"])
	assert.Empty(t, body["skills"])
	assert.LessOrEqual(t, body["score"].(float64), 10.0)
}

func TestUpload_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		req      func(t *testing.T) *http.Request
		status   int
		contains string
	}{
		{
			name:   "missing file",
			req:    func(t *testing.T) *http.Request { return multipartRequest(t, "", nil, "") },
			status: http.StatusBadRequest,
		},
		{
			name: "not multipart",
			req: func(t *testing.T) *http.Request {
				return httptest.NewRequest(http.MethodPost, "/api/cv/upload", strings.NewReader("{}"))
			},
			status: http.StatusBadRequest,
		},
		{
			name:     "empty file",
			req:      func(t *testing.T) *http.Request { return multipartRequest(t, "cv.pdf", nil, "") },
			status:   http.StatusBadRequest,
			contains: "empty",
		},
		{
			name:     "disallowed extension",
			req:      func(t *testing.T) *http.Request { return multipartRequest(t, "cv.exe", []byte("MZ"), "") },
			status:   http.StatusBadRequest,
			contains: "not allowed",
		},
		{
			name:     "invalid catalog",
			req:      func(t *testing.T) *http.Request { return multipartRequest(t, "cv.txt", []byte("go"), `[{"id":1}]`) },
			status:   http.StatusBadRequest,
			contains: "catalog",
		},
		{
			name: "too large",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "cv.txt", bytes.Repeat([]byte("a"), 300), "")
			},
			status:   http.StatusRequestEntityTooLarge,
			contains: "too large",
		},
		{
			name: "corrupt pdf",
			req: func(t *testing.T) *http.Request {
				return multipartRequest(t, "cv.pdf", []byte("definitely not a pdf"), "")
			},
			status:   http.StatusUnprocessableEntity,
			contains: "could not be parsed",
		},
	}

	handler, dir := newTestServer(t, 256)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, tt.req(t))

			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			body := decodeBody(t, rec)
			assert.Equal(t, float64(tt.status), body["code"])
			assert.NotEmpty(t, body["request_id"])
			if tt.contains != "" {
				assert.Contains(t, body["message"], tt.contains)
			}
		})
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRoutes(t *testing.T) {
	handler, _ := newTestServer(t, 1<<20)

	t.Run("index", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "/api/cv/upload")
	})

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
	})

	t.Run("skills", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/skills", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp SkillsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, len(resp.Skills), resp.Total)
		assert.Equal(t, "Python", resp.Skills[0].Name)
	})

	t.Run("jobs", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/jobs", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var resp JobsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotZero(t, resp.Total)
		assert.Len(t, resp.Jobs, resp.Total)
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cv/upload", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRecoverMiddleware(t *testing.T) {
	handler := RequestID(Recover(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.NotContains(t, string(body), "boom")
	assert.Contains(t, string(body), rec.Header().Get("X-Request-ID"))
}
