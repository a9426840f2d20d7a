package health

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

// Check statuses.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthResponse is the JSON document returned by the health handlers.
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp string                 `json:"timestamp"`
	Checks    map[string]CheckStatus `json:"checks,omitempty"`
	Message   string                 `json:"message,omitempty"`
}

// CombinedResponse is returned by HealthHandler.
type CombinedResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Uptime    string         `json:"uptime,omitempty"`
	Version   string         `json:"version,omitempty"`
	Liveness  HealthResponse `json:"liveness"`
	Readiness HealthResponse `json:"readiness"`
}

// CheckStatus represents the status of an individual check in the HTTP response.
type CheckStatus struct {
	Status  string `json:"status"` // "ok" | "error"
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// LivenessHandler answers 200 when the process is alive and 503 otherwise.
func (h *HealthChecker) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := h.CheckLiveness(r.Context())
		resp := toResponse(status, err)
		h.writeJSON(w, httpStatus(status.Healthy), resp)
	}
}

// ReadinessHandler answers 200 when the service can take traffic and 503 otherwise.
func (h *HealthChecker) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := h.CheckReadiness(r.Context())
		resp := toResponse(status, err)
		h.writeJSON(w, httpStatus(status.Healthy), resp)
	}
}

// HealthHandler reports liveness and readiness together. started and version
// are included in the body when set.
func (h *HealthChecker) HealthHandler(started time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		live, liveErr := h.CheckLiveness(r.Context())
		ready, readyErr := h.CheckReadiness(r.Context())

		resp := CombinedResponse{
			Status:    StatusHealthy,
			Timestamp: now(),
			Version:   version,
			Liveness:  toResponse(live, liveErr),
			Readiness: toResponse(ready, readyErr),
		}
		if !started.IsZero() {
			resp.Uptime = time.Since(started).Round(time.Second).String()
		}

		healthy := live.Healthy && ready.Healthy
		if !healthy {
			resp.Status = StatusUnhealthy
		}
		h.writeJSON(w, httpStatus(healthy), resp)
	}
}

func toResponse(status *HealthStatus, err error) HealthResponse {
	resp := HealthResponse{
		Status:    StatusHealthy,
		Timestamp: now(),
		Checks:    make(map[string]CheckStatus, len(status.Checks)),
	}
	if !status.Healthy {
		resp.Status = StatusUnhealthy
		if err != nil {
			resp.Message = err.Error()
		}
	}

	for _, result := range status.Checks {
		cs := CheckStatus{Status: "ok", Latency: result.Latency.String()}
		if !result.Healthy {
			cs.Status = "error"
			cs.Error = result.Error
		}
		resp.Checks[result.Name] = cs
	}
	return resp
}

func httpStatus(healthy bool) int {
	if healthy {
		return http.StatusOK
	}
	return http.StatusServiceUnavailable
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func (h *HealthChecker) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("Failed to encode health response", logger.ErrorField(err))
	}
}
