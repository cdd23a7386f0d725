package api

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/phantom-scope/internal/analysis"
	"github.com/ZanzyTHEbar/phantom-scope/internal/config"
	apperrors "github.com/ZanzyTHEbar/phantom-scope/internal/errors"
	"github.com/ZanzyTHEbar/phantom-scope/internal/monitoring"
	"github.com/ZanzyTHEbar/phantom-scope/internal/types"
)

const backendProfile = `{
	"commit_count": 500,
	"active_days": 300,
	"streak_days": 45,
	"last_commit_age_days": 1,
	"repo_count": 40,
	"pr_opened": 80,
	"pr_merged": 70,
	"reviews_given": 60,
	"forks_received": 25,
	"org_count": 2,
	"account_age_days": 2000,
	"languages": {"Go": 500000, "Python": 120000},
	"topics": ["gin", "docker"],
	"commits": [
		{"timestamp": "2024-05-01T10:00:00Z", "message": "feat: add handler", "co_authors": ["Claude <noreply@anthropic.com>"]},
		{"timestamp": "2024-05-01T10:01:00Z", "message": "fix: tests"},
		{"timestamp": "2024-05-01T10:02:00Z", "message": "chore: lint"}
	]
}`

type testServer struct {
	router  *gin.Engine
	metrics *monitoring.Metrics
	logs    *bytes.Buffer
}

func newTestServer(t *testing.T, mutate func(*config.ServerConfig)) testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default().Server
	cfg.RateLimitPerMin = 6000
	cfg.RateLimitBurst = 1000
	if mutate != nil {
		mutate(&cfg)
	}

	var logs bytes.Buffer
	metrics := monitoring.NewMetrics()
	logger := monitoring.NewLoggerWithWriter(&logs, "debug")
	srv := NewServer(cfg, analysis.NewDefaultEngine(), metrics, logger, "test")

	return testServer{router: srv.Router(), metrics: metrics, logs: &logs}
}

func (ts testServer) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "test", resp.Version)
	assert.NotEmpty(t, resp.Timestamp)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestArchetypesEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodGet, "/v1/archetypes", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.ArchetypesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, analysis.Archetypes(), resp.Archetypes)
}

func TestAnalyzeEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodPost, "/v1/analyze", backendProfile)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	want, err := analysis.NewDefaultEngine().AnalyzeJSON([]byte(backendProfile))
	require.NoError(t, err)
	assert.Equal(t, want, result)

	assert.Contains(t, ts.logs.String(), `"msg":"Analysis Completed"`)
	assert.NotContains(t, ts.logs.String(), "feat: add handler", "commit text must never be logged")
}

func TestAnalyzeEndpointErrors(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
		wantCode    string
		wantField   string
	}{
		{name: "empty body", body: "", wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "malformed json", body: `{"commit_count":`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR"},
		{name: "wrong type", body: `{"commit_count": "many"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "commit_count"},
		{name: "negative count", body: `{"reviews_given": -4}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "reviews_given"},
		{name: "commits not a list", body: `{"commits": {"message": 7}}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "commits"},
		{name: "form content type", body: `{}`, contentType: "text/plain", wantStatus: http.StatusUnsupportedMediaType, wantCode: "VALIDATION_ERROR", wantField: "content_type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, nil)

			req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(tt.body))
			contentType := tt.contentType
			if contentType == "" {
				contentType = "application/json"
			}
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			ts.router.ServeHTTP(w, req)

			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())

			var resp apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantField, resp.Field)
			assert.Equal(t, w.Header().Get("X-Request-ID"), resp.RequestID)
			assert.NotContains(t, w.Body.String(), "many", "values are never echoed")
		})
	}
}

const malformedCommitsProfile = `{"commit_count": 12, "commits": [
	{"timestamp": "2025-03-01T09:00:00Z", "message": "wire auth\n\nCo-authored-by: Claude <noreply@anthropic.com>"},
	{"timestamp": 1700000000, "message": "fix"},
	"stray",
	{"message": "tidy", "co_authors": "Copilot <copilot@github.com>"}
]}`

func TestAnalyzeEndpointMalformedCommits(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodPost, "/v1/analyze", malformedCommitsProfile)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result analysis.Result
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 4, result.AIAnalysis.CommitsAnalyzed)
	assert.Equal(t, []string{"claude", "github_copilot"}, result.AIAnalysis.DetectedTools)
}

func TestTeamAnalyzeEndpointMalformedCommits(t *testing.T) {
	ts := newTestServer(t, nil)

	body := `{"members": [` + backendProfile + `, ` + malformedCommitsProfile + `]}`
	w := ts.do(http.MethodPost, "/v1/team/analyze", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.TeamAnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Members, 2)
	assert.Equal(t, 4, resp.Members[1].AIAnalysis.CommitsAnalyzed)
	assert.Equal(t, []string{"claude", "github_copilot"}, resp.Members[1].AIAnalysis.DetectedTools)
}

func TestAnalyzeEndpointBodyLimit(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.ServerConfig) { cfg.MaxBodyBytes = 64 })

	w := ts.do(http.MethodPost, "/v1/analyze", backendProfile)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"body"`)
}

func TestAnalyzeEndpointRateLimit(t *testing.T) {
	ts := newTestServer(t, func(cfg *config.ServerConfig) {
		cfg.RateLimitPerMin = 1
		cfg.RateLimitBurst = 2
	})

	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/v1/analyze", "{}").Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodPost, "/v1/analyze", "{}").Code)

	w := ts.do(http.MethodPost, "/v1/analyze", "{}")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")

	// Read-only routes are not limited.
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/v1/archetypes", "").Code)

	metrics := ts.do(http.MethodGet, "/metrics", "")
	assert.Contains(t, metrics.Body.String(), "phantom_scope_http_rate_limited_total 1")
}

func teamBody(t *testing.T, members int) string {
	t.Helper()
	profiles := make([]json.RawMessage, members)
	for i := range profiles {
		profiles[i] = json.RawMessage(backendProfile)
	}
	body, err := json.Marshal(map[string]any{"members": profiles})
	require.NoError(t, err)
	return string(body)
}

func TestTeamAnalyzeEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(http.MethodPost, "/v1/team/analyze", teamBody(t, 3))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp types.TeamAnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Members, 3)
	assert.Equal(t, 3, resp.Summary.TeamSize)
	assert.Equal(t, resp.Members[0], resp.Members[2])
	assert.Equal(t, 3, resp.Summary.ArchetypeDistribution[resp.Members[0].Archetype.ID])
	assert.InDelta(t, 100.0, resp.Summary.AIAdoptionRate, 1e-9)

	metrics := ts.do(http.MethodGet, "/metrics", "")
	assert.Contains(t, metrics.Body.String(), `phantom_scope_analysis_duration_seconds_count{kind="team"} 1`)
}

func TestTeamAnalyzeEndpointCompressed(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/team/analyze", strings.NewReader(teamBody(t, 10)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	var resp types.TeamAnalyzeResponse
	require.NoError(t, json.NewDecoder(gz).Decode(&resp))
	assert.Len(t, resp.Members, 10)

	health := ts.do(http.MethodGet, "/health", "")
	var status types.HealthResponse
	require.NoError(t, json.Unmarshal(health.Body.Bytes(), &status))
	assert.Equal(t, int64(1), status.Compression.CompressedResponses)
}

func TestTeamAnalyzeEndpointErrors(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{name: "missing members", body: `{}`, wantField: "members"},
		{name: "empty members", body: `{"members": []}`, wantField: "members"},
		{name: "too many members", body: "", wantField: "members"},
		{name: "member type error", body: `{"members": [{"commit_count": "x"}]}`, wantField: "members.commit_count"},
		{name: "member commits not a list", body: `{"members": [{"commits": "x"}]}`, wantField: "members.commits"},
		{name: "member invalid value", body: `{"members": [{}, {"org_count": -1}]}`, wantField: "members[1].org_count"},
		{name: "malformed json", body: `{"members": [`, wantField: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(cfg *config.ServerConfig) { cfg.MaxBodyBytes = 8 << 20 })
			body := tt.body
			if body == "" {
				body = teamBody(t, types.MaxTeamSize+1)
			}

			w := ts.do(http.MethodPost, "/v1/team/analyze", body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

			var resp apperrors.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "VALIDATION_ERROR", resp.Code)
			assert.Equal(t, tt.wantField, resp.Field)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(http.MethodPost, "/v1/analyze", backendProfile)

	w := ts.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "phantom_scope_analysis_archetypes_assigned_total")
	assert.Contains(t, w.Body.String(), `route="/v1/analyze"`)
}

func TestSwaggerToggle(t *testing.T) {
	tests := []struct {
		name       string
		enabled    bool
		wantStatus int
	}{
		{name: "enabled", enabled: true, wantStatus: http.StatusOK},
		{name: "disabled", enabled: false, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, func(cfg *config.ServerConfig) { cfg.EnableSwagger = tt.enabled })
			w := ts.do(http.MethodGet, "/swagger/doc.json", "")
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.enabled {
				assert.Contains(t, w.Body.String(), "/v1/team/analyze")
			}
		})
	}
}

func TestCORSHeaders(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/v1/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestConcurrentAnalyze(t *testing.T) {
	ts := newTestServer(t, nil)

	const workers = 16
	var wg sync.WaitGroup
	codes := make([]int, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			codes[i] = ts.do(http.MethodPost, "/v1/analyze", backendProfile).Code
		}(i)
	}
	wg.Wait()

	for i, code := range codes {
		assert.Equal(t, http.StatusOK, code, fmt.Sprintf("worker %d", i))
	}
}
