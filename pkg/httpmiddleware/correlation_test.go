package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

func TestCorrelationIdMiddleware(t *testing.T) {
	var capturedHeaderID, capturedContextID string
	testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedHeaderID = r.Header.Get(logger.CorrelationIDHeader)
		capturedContextID = logger.GetCorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	handler := CorrelationID()(testHandler)

	tests := []struct {
		name    string
		inbound string
	}{
		{"no header", ""},
		{"valid uuid", uuid.New().String()},
		{"not a uuid", "not-a-uuid"},
		{"truncated uuid", "123e4567-e89b-12d3-a456-42661417400"},
		{"nil uuid", "00000000-0000-0000-0000-000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/skill", nil)
			if tt.inbound != "" {
				req.Header.Set(logger.CorrelationIDHeader, tt.inbound)
			}
			recorder := httptest.NewRecorder()

			handler.ServeHTTP(recorder, req)

			if capturedHeaderID == "" || capturedHeaderID == tt.inbound {
				t.Errorf("Expected a freshly generated correlation ID, got %q", capturedHeaderID)
			}
			if capturedHeaderID != capturedContextID {
				t.Errorf("Header ID (%s) should match context ID (%s)", capturedHeaderID, capturedContextID)
			}
			if got := recorder.Header().Get(logger.CorrelationIDHeader); got != capturedHeaderID {
				t.Errorf("Response header ID (%s) should match request ID (%s)", got, capturedHeaderID)
			}
			if _, err := uuid.Parse(capturedHeaderID); err != nil {
				t.Errorf("Generated correlation ID is not a valid UUID: %s", capturedHeaderID)
			}
		})
	}

	t.Run("generates unique IDs for different requests", func(t *testing.T) {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/skill", nil))
		id1 := capturedHeaderID
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/skill", nil))
		id2 := capturedHeaderID

		if id1 == id2 {
			t.Error("Expected different correlation IDs for different requests")
		}
	})
}
