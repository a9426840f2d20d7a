// Package monitoring wires the service's liveness and readiness checks.
package monitoring

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/lewisedginton/recipe_buddy/pkg/health"
	"github.com/lewisedginton/recipe_buddy/pkg/health/checkers"
	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

// Default health check paths.
const (
	DefaultLivenessPath  = "/health/live"
	DefaultReadinessPath = "/health/ready"
	DefaultCombinedPath  = "/health"
)

// HealthMonitor manages health checks and monitoring endpoints for the application
type HealthMonitor struct {
	checker   *health.HealthChecker
	logger    logger.Logger
	startTime time.Time
	version   string
}

// Config holds configuration for the health monitor
type Config struct {
	Logger logger.Logger

	// RecipeAPIURL is called by the readiness check. Empty disables the check.
	RecipeAPIURL     string
	HTTPClient       *http.Client
	Timeout          time.Duration
	FailureThreshold int
	Version          string
}

// Paths are the routes RegisterHandlers mounts the health handlers on.
type Paths struct {
	Liveness  string
	Readiness string
	Combined  string
}

// NewHealthMonitor creates a new health monitor with configured checks
func NewHealthMonitor(cfg Config) *HealthMonitor {
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNopLogger()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}

	checker := health.New(
		health.WithLogger(cfg.Logger),
		health.WithTimeout(cfg.Timeout),
		health.WithFailureThreshold(cfg.FailureThreshold),
	)

	// Process is running if we can execute this check
	checker.AddLivenessCheck(health.NewCheckFunc("process", func(ctx context.Context) error {
		return nil
	}))

	if cfg.RecipeAPIURL != "" {
		checker.AddReadinessCheck(checkers.NewHTTPChecker(cfg.RecipeAPIURL, "recipe_api",
			checkers.WithClient(cfg.HTTPClient)))
	}

	return &HealthMonitor{
		checker:   checker,
		logger:    cfg.Logger,
		startTime: time.Now(),
		version:   cfg.Version,
	}
}

// AddReadinessCheck adds a dependency the service needs before taking traffic.
func (hm *HealthMonitor) AddReadinessCheck(check health.Check) {
	hm.checker.AddReadinessCheck(check)
}

// RegisterHandlers mounts the health endpoints on r. Empty paths fall back to
// the defaults.
func (hm *HealthMonitor) RegisterHandlers(r chi.Router, paths Paths) {
	if paths.Liveness == "" {
		paths.Liveness = DefaultLivenessPath
	}
	if paths.Readiness == "" {
		paths.Readiness = DefaultReadinessPath
	}
	if paths.Combined == "" {
		paths.Combined = DefaultCombinedPath
	}

	r.Get(paths.Combined, hm.checker.HealthHandler(hm.startTime, hm.version))
	r.Get(paths.Liveness, hm.checker.LivenessHandler())
	r.Get(paths.Readiness, hm.checker.ReadinessHandler())

	hm.logger.Debug("Registered health endpoints",
		logger.StringField("liveness", paths.Liveness),
		logger.StringField("readiness", paths.Readiness),
		logger.StringField("combined", paths.Combined))
}

// ShutdownCheck marks the service as not ready so traffic drains before the
// listener closes.
func (hm *HealthMonitor) ShutdownCheck() {
	hm.logger.Info("Marking service not ready for shutdown")
	hm.checker.Drain()
}
