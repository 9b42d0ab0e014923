package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/streamdash/streamdash-server/internal/assets"
	"github.com/streamdash/streamdash-server/internal/catalog"
	"github.com/streamdash/streamdash-server/internal/ratelimit"
	"github.com/streamdash/streamdash-server/internal/search"
	"github.com/streamdash/streamdash-server/internal/service"
)

// testEnvelope decodes a success envelope with typed data.
type testEnvelope[T any] struct {
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
}

// testErrorEnvelope decodes a coded error envelope.
type testErrorEnvelope struct {
	Version int               `json:"v"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
}

type testServer struct {
	*Server
	api humatest.TestAPI
}

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Title{
		{Title: "Cidade de Deus", Platform: catalog.PlatformNetflix, Type: catalog.TypeMovie, Country: "Brazil", ReleaseYear: 2002, Genres: []string{"Dramas"}},
		{Title: "Loki", Platform: catalog.PlatformDisney, Type: catalog.TypeSeries, Country: "United States", ReleaseYear: 2021, Genres: []string{"Ação e Aventura"}},
		{Title: "Orphan Black", Platform: catalog.PlatformAmazon, Type: catalog.TypeMovie, Country: "Canada", ReleaseYear: 2013, Genres: []string{"Ficção Científica"}},
	})
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := testCatalog()

	dashboard, err := service.NewDashboardService(c, logger)
	require.NoError(t, err)

	index, err := search.BuildFromCatalog(context.Background(), c, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	searchService, err := service.NewSearchService(index, c, logger)
	require.NoError(t, err)

	stylesheet, err := assets.Load(assets.Builtin, logger)
	require.NoError(t, err)

	s, err := NewServer(&Services{Dashboard: dashboard, Search: searchService}, stylesheet, opts, logger)
	require.NoError(t, err)

	return &testServer{Server: s, api: humatest.Wrap(t, s.API())}
}

func decodeBody[T any](t *testing.T, body []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(body, &out), "body: %s", body)
	return out
}

func (ts *testServer) get(t *testing.T, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	ts.ServeHTTP(w, req)
	return w
}

func TestNewServer_RequiresDashboard(t *testing.T) {
	_, err := NewServer(&Services{}, nil, Options{}, nil)
	assert.Error(t, err)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeBody[testEnvelope[HealthResponse]](t, resp.Body.Bytes())
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.True(t, env.Success)
	assert.Equal(t, "healthy", env.Data.Status)
	assert.Equal(t, "healthy", env.Data.Components["catalog"].Status)
	assert.Equal(t, "3 titles loaded", env.Data.Components["catalog"].Message)
	assert.Equal(t, "healthy", env.Data.Components["search"].Status)
}

func TestHealthCheck_SearchNotConfigured(t *testing.T) {
	ts := setupTestServer(t, Options{})
	ts.services.Search = nil

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeBody[testEnvelope[HealthResponse]](t, resp.Body.Bytes())
	assert.Equal(t, "degraded", env.Data.Status)
}

func TestGetFilters(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/filters")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeBody[testEnvelope[service.FilterOptions]](t, resp.Body.Bytes())
	assert.Equal(t, []string{catalog.PlatformNetflix, catalog.PlatformDisney, catalog.PlatformAmazon}, env.Data.Platforms)
	assert.Equal(t, []string{catalog.TypeMovie, catalog.TypeSeries}, env.Data.Types)
}

func TestGetDashboard(t *testing.T) {
	ts := setupTestServer(t, Options{})

	tests := []struct {
		name      string
		query     string
		total     int
		platforms []string
	}{
		{"default selects everything", "", 3, []string{catalog.PlatformNetflix, catalog.PlatformDisney, catalog.PlatformAmazon}},
		{"single platform", "?platform=Netflix", 1, []string{catalog.PlatformNetflix}},
		{"platform and type", "?platform=Netflix&platform=Amazon+Prime&type=Filmes", 2, []string{catalog.PlatformNetflix, catalog.PlatformAmazon}},
		{"blank selects nothing", "?platform=", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Get("/api/v1/dashboard" + tt.query)
			require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

			env := decodeBody[testEnvelope[service.Render]](t, resp.Body.Bytes())
			assert.Equal(t, tt.total, env.Data.Summary.Total)
			assert.Equal(t, tt.platforms, env.Data.Selection.Platforms)
			assert.NotEmpty(t, env.Data.ID)
		})
	}
}

func TestGetDashboard_UnknownPlatform(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/dashboard?platform=Netflix&platform=Hulu")
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	env := decodeBody[testErrorEnvelope](t, resp.Body.Bytes())
	assert.Equal(t, EnvelopeVersion, env.Version)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details, "platforms[1]")
}

func TestGetSummary(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/summaries/countries?type=Filmes")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeBody[testEnvelope[[]map[string]any]](t, resp.Body.Bytes())
	require.Len(t, env.Data, 2)
	assert.Equal(t, "Brazil", env.Data[0]["country"])
	assert.Equal(t, "Canada", env.Data[1]["country"])
}

func TestGetSummary_UnknownView(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/summaries/ratings")
	require.Equal(t, http.StatusNotFound, resp.Code)

	env := decodeBody[testErrorEnvelope](t, resp.Body.Bytes())
	assert.Equal(t, "NOT_FOUND", env.Code)
}

func TestSearchTitles(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/titles?q=loki")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeBody[testEnvelope[search.Result]](t, resp.Body.Bytes())
	require.NotEmpty(t, env.Data.Hits)
	assert.Equal(t, "Loki", env.Data.Hits[0].Title)
	assert.Equal(t, []string{"Ação e Aventura"}, env.Data.Hits[0].Genres)
	assert.Equal(t, []string{"acao-e-aventura"}, env.Data.Hits[0].GenreSlugs)
}

func TestSearchTitles_RestrictedToSelection(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/titles?q=loki&platform=Netflix")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeBody[testEnvelope[search.Result]](t, resp.Body.Bytes())
	assert.Empty(t, env.Data.Hits)
}

func TestSearchTitles_LimitOutOfRange(t *testing.T) {
	ts := setupTestServer(t, Options{})

	resp := ts.api.Get("/api/v1/titles?limit=500")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	env := decodeBody[testErrorEnvelope](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", env.Code)
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.New(0.001, 1, ratelimit.DefaultIdleTTL)
	t.Cleanup(limiter.Stop)
	ts := setupTestServer(t, Options{Limiter: limiter})

	first := ts.get(t, "/api/v1/filters")
	assert.Equal(t, http.StatusOK, first.Code)

	second := ts.get(t, "/api/v1/filters")
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "RATE_LIMITED")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/filters", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	other := httptest.NewRecorder()
	ts.ServeHTTP(other, req)
	assert.Equal(t, http.StatusOK, other.Code, "limits are per client")
}

func TestCORS(t *testing.T) {
	ts := setupTestServer(t, Options{CORSAllowedOrigins: []string{"https://example.com"}})

	w := ts.get(t, "/api/v1/filters", "Origin", "https://example.com")
	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = ts.get(t, "/api/v1/filters", "Origin", "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{"ignores forwarded header", map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.1"}, "10.0.0.2:1234", "10.0.0.2"},
		{"ignores real ip header", map[string]string{"X-Real-IP": "203.0.113.2"}, "10.0.0.2:1234", "10.0.0.2"},
		{"remote addr", nil, "192.0.2.7:5555", "192.0.2.7"},
		{"remote addr without port", nil, "192.0.2.8", "192.0.2.8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
