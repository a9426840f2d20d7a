package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultCORSConfig(t *testing.T) {
	config := DefaultCORSConfig()

	assert.Contains(t, config.AllowedMethods, http.MethodPost)
	assert.NotContains(t, config.AllowedMethods, http.MethodDelete)
	assert.Contains(t, config.AllowedHeaders, "Content-Type")
	assert.NotEmpty(t, config.AllowedOrigins)
	assert.Contains(t, config.ExposedHeaders, "X-Correlation-ID")
	assert.Positive(t, config.MaxAge)
}

func TestCORSMiddleware(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS(DefaultCORSConfig())(testHandler)

	t.Run("answers preflight for POST", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/skill", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assert.NotEmpty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("rejects preflight for DELETE", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/skill", nil)
		req.Header.Set("Origin", "https://example.com")
		req.Header.Set("Access-Control-Request-Method", "DELETE")
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, req)

		assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSecurityMiddleware(t *testing.T) {
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("library defaults", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		Security(nil)(testHandler).ServeHTTP(recorder, httptest.NewRequest("GET", "/test", nil))
		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("json api options", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		Security(DefaultSecurityOptions(true))(testHandler).ServeHTTP(recorder, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "DENY", recorder.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", recorder.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "no-referrer", recorder.Header().Get("Referrer-Policy"))
	})
}
