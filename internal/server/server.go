// Package server exposes the skill as an HTTPS webhook.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	appconfig "github.com/lewisedginton/recipe_buddy/internal/config"
	"github.com/lewisedginton/recipe_buddy/internal/middleware"
	"github.com/lewisedginton/recipe_buddy/internal/monitoring"
	"github.com/lewisedginton/recipe_buddy/internal/skill"
	"github.com/lewisedginton/recipe_buddy/pkg/httpmiddleware"
	"github.com/lewisedginton/recipe_buddy/pkg/logger"
	"github.com/lewisedginton/recipe_buddy/pkg/metrics"
	"github.com/lewisedginton/recipe_buddy/pkg/utils"
)

// SkillHandler answers one platform event.
type SkillHandler interface {
	Handle(ctx context.Context, req skill.Request) (skill.Response, error)
}

// Config holds the server's collaborators. Metrics and Health are optional.
type Config struct {
	App     *appconfig.AppConfig
	Skill   SkillHandler
	Metrics *metrics.Metrics
	Health  *monitoring.HealthMonitor
	Logger  logger.Logger
}

// Server encapsulates the webhook listener and its lifecycle
type Server struct {
	cfg     *appconfig.AppConfig
	skill   SkillHandler
	metrics *metrics.Metrics
	health  *monitoring.HealthMonitor
	log     logger.Logger
	router  chi.Router
	server  *http.Server
}

// New builds the router and HTTP server. Nothing listens until Listen is called.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("app config is required")
	}
	if cfg.Skill == nil {
		return nil, errors.New("skill handler is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNopLogger()
	}

	s := &Server{
		cfg:     cfg.App,
		skill:   cfg.Skill,
		metrics: cfg.Metrics,
		health:  cfg.Health,
		log:     cfg.Logger,
	}
	s.router = s.createRouter()
	s.server = &http.Server{
		Addr:           fmt.Sprintf(":%d", s.cfg.HTTP.Port),
		Handler:        s.router,
		ReadTimeout:    s.cfg.HTTP.ReadTimeout(),
		WriteTimeout:   s.cfg.HTTP.WriteTimeout(),
		IdleTimeout:    s.cfg.HTTP.IdleTimeout(),
		MaxHeaderBytes: s.cfg.HTTP.MaxHeaderBytes,
	}

	s.log.Info("HTTP server initialized",
		logger.IntField("http_port", s.cfg.HTTP.Port),
		logger.StringField("skill_path", s.cfg.Skill.Path))
	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// createRouter sets up all routes and middleware
func (s *Server) createRouter() chi.Router {
	r := chi.NewRouter()

	mw := httpmiddleware.DefaultConfig()
	mw.Logger = s.log
	mw.EnableLogging = true
	mw.Security = httpmiddleware.DefaultSecurityOptions(s.cfg.IsDevelopment())
	mw.Timeout = s.cfg.Skill.RequestTimeout
	mw.StripPrefix = s.cfg.Skill.StripPrefix
	mw.EnableStripPrefix = s.cfg.Skill.StripPrefix != ""

	rc := middleware.DefaultRecoveryConfig()
	rc.Logger = s.log
	mw.Recovery = middleware.Recovery(rc)

	if s.metrics != nil {
		mw.Metrics = s.metrics.HTTPMiddleware()
	}
	httpmiddleware.ApplyToRouter(r, mw)

	if s.health != nil {
		s.health.RegisterHandlers(r, monitoring.Paths{
			Liveness:  s.cfg.Health.LivenessPath,
			Readiness: s.cfg.Health.ReadinessPath,
			Combined:  s.cfg.Health.CombinedPath,
		})
	}

	r.Method(http.MethodPost, s.cfg.Skill.Path,
		otelhttp.NewHandler(http.HandlerFunc(s.skillHandler), "skill"))

	return r
}

func (s *Server) skillHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.GetLoggerFromContext(r.Context(), s.log)

	body := http.MaxBytesReader(w, r.Body, s.cfg.Skill.MaxBodyBytes)
	var req skill.Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("Skill request body too large", logger.Int64Field("limit", tooLarge.Limit))
			middleware.WriteError(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		log.Warn("Invalid skill request body", logger.ErrorField(err))
		middleware.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.skill.Handle(r.Context(), req)
	if err != nil {
		middleware.WriteError(w, r, http.StatusInternalServerError, "failed to handle request")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error("Failed to encode skill response", logger.ErrorField(err))
	}
}

// Listen starts the HTTP server, and the metrics listener when exposed. The
// returned channel carries the first listener failure and closes once every
// listener has stopped.
func (s *Server) Listen() <-chan error {
	httpErrs := make(chan error, 1)
	go func() {
		defer close(httpErrs)
		s.log.Info("Starting HTTP server", logger.StringField("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			httpErrs <- fmt.Errorf("http listener: %w", err)
		}
	}()

	var metricsErrs <-chan error
	if s.metrics != nil && s.cfg.Metrics.ExposeMetrics {
		metricsErrs = s.metrics.Listen(s.cfg.Metrics.Port)
	}

	return utils.MergeErrorChans(httpErrs, metricsErrs)
}

// Shutdown fails readiness, then drains the HTTP and metrics listeners.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.health != nil {
		s.health.ShutdownCheck()
	}

	var result error
	s.log.Info("Gracefully closing HTTP server")
	if err := s.server.Shutdown(ctx); err != nil {
		result = multierror.Append(result, fmt.Errorf("server shutdown error: %w", err))
	}
	if s.metrics != nil {
		if err := s.metrics.Shutdown(ctx); err != nil {
			result = multierror.Append(result, fmt.Errorf("metrics shutdown error: %w", err))
		}
	}
	return result
}
