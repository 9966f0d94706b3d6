package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jkauppila.dev/internal/cms"
	"jkauppila.dev/internal/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(t *testing.T, opts services.OrchestratorOptions) http.Handler {
	t.Helper()
	opts.Logger = discardLogger()
	svc := services.NewProjectService(services.NewOrchestrator(opts))
	return SetupRoutes(svc, discardLogger())
}

func fallbackRouter(t *testing.T) http.Handler {
	return newRouter(t, services.OrchestratorOptions{})
}

func cmsRouter(t *testing.T, status int, body string, policy services.Policy) http.Handler {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return newRouter(t, services.OrchestratorOptions{
		Client:   cms.NewClient(srv.URL, ""),
		Endpoint: srv.URL,
		Policy:   policy,
	})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, fallbackRouter(t), "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestListProjects(t *testing.T) {
	rec := get(t, fallbackRouter(t), "/api/projects")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []projectSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "wind-map-tool", got[0].Slug)
	assert.Equal(t, "Internal / Personal · Next.js, Deck.gl, Mapbox, Neon · 2025", got[0].Byline)
	assert.Equal(t, "/project/wind-map-tool", got[0].URL)
	assert.Equal(t, "/images/placeholders/p1.jpg", got[0].Images[0].Src)
}

func TestListProjects_CategoryFilter(t *testing.T) {
	router := fallbackRouter(t)

	rec := get(t, router, "/api/projects?category=art")
	require.Equal(t, http.StatusOK, rec.Code)
	var got []projectSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "light-series", got[0].Slug)

	rec = get(t, router, "/api/projects?category=web")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSections(t *testing.T) {
	rec := get(t, fallbackRouter(t), "/api/sections")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []sectionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 3)
	assert.Equal(t, "Software Projects", got[0].Title)
	assert.Equal(t, "Fabrication Projects", got[1].Title)
	assert.Equal(t, "Art Projects", got[2].Title)
}

func TestGetProject(t *testing.T) {
	rec := get(t, fallbackRouter(t), "/api/projects/cnc-fixture")
	require.Equal(t, http.StatusOK, rec.Code)

	var got projectDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "CNC Composite Fixture", got.Title)
	assert.Contains(t, got.DescriptionHTML, "<p>Robotic layup fixture")
}

func TestGetProject_NotFound(t *testing.T) {
	rec := get(t, fallbackRouter(t), "/api/projects/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Project not found"}`, rec.Body.String())
}

func TestGetProject_RichTextFromCMS(t *testing.T) {
	body := `{"data":{"projects":[{
		"slug":"doc","title":"Doc","category":"fabrication",
		"description":{
			"raw":{"children":[
				{"type":"heading-one","children":[{"text":"Hi"}]},
				{"type":"embed","nodeType":"Asset","url":"https://cdn/brochure.pdf","mimeType":"application/pdf","fileName":"brochure.pdf"}
			]},
			"text":"Hi"
		},
		"images":[{"url":"https://eu-central-1.graphassets.com/abc","fileName":"shop.jpg"}]
	}]}}`
	rec := get(t, cmsRouter(t, http.StatusOK, body, services.PolicyExplicit), "/api/projects/doc")
	require.Equal(t, http.StatusOK, rec.Code)

	var got projectDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, got.DescriptionHTML, ">Hi</h1>")
	assert.Contains(t, got.DescriptionHTML, "Download PDF: brochure.pdf")
	require.Len(t, got.Images, 1)
	assert.Equal(t, "https://eu-central-1.graphassets.com/abc?auto=format&fit=max&h=500", got.Images[0].Src)
	assert.Equal(t, "https://eu-central-1.graphassets.com/abc?auto=format&fit=max&h=300", got.Images[0].MobileSrc)
	assert.Equal(t, "shop.jpg", got.Images[0].Alt)
}

func TestExplicitPolicy_Unavailable(t *testing.T) {
	router := cmsRouter(t, http.StatusInternalServerError, `{}`, services.PolicyExplicit)

	for _, path := range []string{"/api/projects", "/api/sections", "/api/projects/anything"} {
		rec := get(t, router, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)

		var got map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "Unable to load projects", got["error"])
		assert.Equal(t, "GraphQL error: 500 Internal Server Error", got["detail"])
	}
}

func TestSoftPolicy_ServesFallback(t *testing.T) {
	router := cmsRouter(t, http.StatusInternalServerError, `{}`, services.PolicySoft)

	rec := get(t, router, "/api/projects")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []projectSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 3)
}
