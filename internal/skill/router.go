package skill

import (
	"context"
)

// IntentKind enumerates the intents the skill understands.
type IntentKind int

const (
	IntentUnknown IntentKind = iota
	IntentFindRecipe
	IntentListIngredients
	IntentCancel
	IntentStop
	IntentHelp
	IntentFallback
	IntentNavigateHome
)

// Intent names as configured in the interaction model.
const (
	IntentNameFindRecipe      = "getPriceIntent"
	IntentNameListIngredients = "getIngredientsIntent"
	IntentNameCancel          = "AMAZON.CancelIntent"
	IntentNameStop            = "AMAZON.StopIntent"
	IntentNameHelp            = "AMAZON.HelpIntent"
	IntentNameFallback        = "AMAZON.FallbackIntent"
	IntentNameNavigateHome    = "AMAZON.NavigateHomeIntent"
)

var intentKinds = map[string]IntentKind{
	IntentNameFindRecipe:      IntentFindRecipe,
	IntentNameListIngredients: IntentListIngredients,
	IntentNameCancel:          IntentCancel,
	IntentNameStop:            IntentStop,
	IntentNameHelp:            IntentHelp,
	IntentNameFallback:        IntentFallback,
	IntentNameNavigateHome:    IntentNavigateHome,
}

// ParseIntent maps an intent name to its kind. Unrecognised names yield IntentUnknown.
func ParseIntent(name string) IntentKind {
	if kind, ok := intentKinds[name]; ok {
		return kind
	}
	return IntentUnknown
}

func (k IntentKind) String() string {
	switch k {
	case IntentFindRecipe:
		return "find_recipe"
	case IntentListIngredients:
		return "list_ingredients"
	case IntentCancel:
		return "cancel"
	case IntentStop:
		return "stop"
	case IntentHelp:
		return "help"
	case IntentFallback:
		return "fallback"
	case IntentNavigateHome:
		return "navigate_home"
	default:
		return "unknown"
	}
}

// HandlerFunc answers a single intent given the session attributes of the turn.
type HandlerFunc func(ctx context.Context, intent Intent, attrs Attributes) (Response, error)

// Router dispatches intents to their handlers
type Router struct {
	handlers map[IntentKind]HandlerFunc
	fallback HandlerFunc
}

// NewRouter creates a router that sends unregistered intents to fallback
func NewRouter(fallback HandlerFunc) *Router {
	return &Router{
		handlers: make(map[IntentKind]HandlerFunc),
		fallback: fallback,
	}
}

// Register adds a handler for an intent kind
func (r *Router) Register(kind IntentKind, handler HandlerFunc) {
	r.handlers[kind] = handler
}

// Dispatch runs the handler registered for the intent, or the fallback handler.
func (r *Router) Dispatch(ctx context.Context, intent Intent, attrs Attributes) (Response, error) {
	handler, exists := r.handlers[ParseIntent(intent.Name)]
	if !exists {
		handler = r.fallback
	}
	return handler(ctx, intent, attrs)
}
