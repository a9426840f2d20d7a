// Package skill turns voice platform events into spoken responses.
package skill

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/lewisedginton/recipe_buddy/internal/recipe"
	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

// RecipeLookup finds one recipe that uses an ingredient.
type RecipeLookup interface {
	Lookup(ctx context.Context, ingredient string) (recipe.Recipe, error)
}

// Observer receives one call per handled turn and per recipe lookup.
type Observer interface {
	ObserveTurn(requestType, intent string, endSession bool, err error)
	ObserveLookup(outcome string, duration time.Duration)
}

var tracer = otel.Tracer("github.com/lewisedginton/recipe_buddy/internal/skill")

type nopObserver struct{}

func (nopObserver) ObserveTurn(string, string, bool, error) {}
func (nopObserver) ObserveLookup(string, time.Duration)     {}

// Config holds the collaborators of a Skill
type Config struct {
	Recipes  RecipeLookup
	Logger   logger.Logger
	Observer Observer
}

// Skill handles voice platform events. It keeps no per-request state and is
// safe for concurrent use.
type Skill struct {
	recipes  RecipeLookup
	log      logger.Logger
	observer Observer
	router   *Router
}

// New creates a skill around the given recipe lookup
func New(cfg Config) (*Skill, error) {
	if cfg.Recipes == nil {
		return nil, errors.New("recipe lookup is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNopLogger()
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}

	s := &Skill{
		recipes:  cfg.Recipes,
		log:      cfg.Logger,
		observer: cfg.Observer,
	}
	s.registerHandlers()
	return s, nil
}

// Handle answers one platform event. Graceful failures come back as spoken
// responses; an error is returned only when the recipe API fails outright.
func (s *Skill) Handle(ctx context.Context, req Request) (Response, error) {
	ctx, span := tracer.Start(ctx, "skill.Handle",
		trace.WithAttributes(attribute.String("skill.request_type", req.Body.Type)))
	defer span.End()

	log := logger.GetLoggerFromContext(ctx, s.log).WithFields(
		logger.RequestTypeField(req.Body.Type),
		logger.StringField("request_id", req.Body.RequestID),
	)

	var (
		resp   Response
		err    error
		intent string
	)

	switch req.Body.Type {
	case LaunchRequest:
		resp = Statement(TitleRecipeBuddy, PromptLaunch, false, nil)
	case IntentRequest:
		intent = ParseIntent(req.Body.Intent.Name).String()
		log.Debug("Dispatching intent",
			logger.IntentField(req.Body.Intent.Name),
			logger.StringField("kind", intent))
		resp, err = s.router.Dispatch(ctx, req.Body.Intent, req.Session.Attributes)
	case SessionEndedRequest:
		log.Debug("Session ended", logger.StringField("reason", req.Body.Reason))
		resp = Statement(TitleExit, PromptGoodbye, true, nil)
	default:
		log.Info("Unsupported request type, answering with fallback prompt")
		resp = Statement(TitleRecipeBuddy, PromptFallback, false, nil)
	}

	s.observer.ObserveTurn(req.Body.Type, intent, resp.EndsSession(), err)
	span.SetAttributes(
		attribute.String("skill.intent", intent),
		attribute.Bool("skill.end_session", resp.EndsSession()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "turn failed")
		log.Error("Failed to handle request", logger.ErrorField(err))
		return Response{}, err
	}
	return resp, nil
}
