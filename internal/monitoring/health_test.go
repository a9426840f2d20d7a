package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewisedginton/recipe_buddy/pkg/health"
)

func serve(t *testing.T, hm *HealthMonitor, paths Paths, path string) (int, health.HealthResponse) {
	t.Helper()
	r := chi.NewRouter()
	hm.RegisterHandlers(r, paths)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body health.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHealthMonitor_RecipeAPIReachable(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer api.Close()

	hm := NewHealthMonitor(Config{RecipeAPIURL: api.URL, FailureThreshold: 1})

	code, body := serve(t, hm, Paths{}, DefaultReadinessPath)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Checks["recipe_api"].Status)

	code, body = serve(t, hm, Paths{}, DefaultLivenessPath)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body.Checks, "process")
}

func TestHealthMonitor_RecipeAPIDown(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer api.Close()

	hm := NewHealthMonitor(Config{RecipeAPIURL: api.URL, FailureThreshold: 1})

	code, body := serve(t, hm, Paths{}, DefaultReadinessPath)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "error", body.Checks["recipe_api"].Status)

	// liveness does not depend on the recipe API
	code, _ = serve(t, hm, Paths{}, DefaultLivenessPath)
	assert.Equal(t, http.StatusOK, code)
}

func TestHealthMonitor_CustomPaths(t *testing.T) {
	hm := NewHealthMonitor(Config{})
	paths := Paths{Liveness: "/livez", Readiness: "/readyz", Combined: "/healthz"}

	code, _ := serve(t, hm, paths, "/readyz")
	assert.Equal(t, http.StatusOK, code)

	r := chi.NewRouter()
	hm.RegisterHandlers(r, paths)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var combined health.CombinedResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &combined))
	assert.Equal(t, health.StatusHealthy, combined.Status)
}

func TestHealthMonitor_ShutdownCheck(t *testing.T) {
	hm := NewHealthMonitor(Config{})

	code, _ := serve(t, hm, Paths{}, DefaultReadinessPath)
	assert.Equal(t, http.StatusOK, code)

	hm.ShutdownCheck()

	code, body := serve(t, hm, Paths{}, DefaultReadinessPath)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body.Message, "shutting down")
}
