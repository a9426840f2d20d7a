package skill

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lewisedginton/recipe_buddy/internal/recipe"
	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

// Card titles.
const (
	TitleRecipeBuddy = "Recipe Buddy"
	TitleHowTo       = "How To"
	TitleExit        = "Exit"
)

// Canned prompts.
const (
	PromptLaunch       = "What food would you like to include in a recipe?"
	PromptHelp         = "Ask Recipe Buddy what food you would like to learn about"
	PromptGoodbye      = "Thank you for using Recipe Buddy"
	PromptFallback     = "What food would you like a recipe with?"
	PromptNavigateHome = "What food would you like to learn about?"
	PromptNoFood       = "I could not find that food"
	PromptNoRecipe     = "Sorry, I could not find a recipe with that ingredient"
)

// FoodSlot is the slot carrying the ingredient of a recipe search.
const FoodSlot = "food"

// Lookup outcomes reported to the Observer.
const (
	LookupFound    = "found"
	LookupNotFound = "not_found"
	LookupError    = "error"
)

func (s *Skill) registerHandlers() {
	s.router = NewRouter(s.handleFallback)
	s.router.Register(IntentFindRecipe, s.handleFindRecipe)
	s.router.Register(IntentListIngredients, s.handleListIngredients)
	s.router.Register(IntentCancel, s.handleStop)
	s.router.Register(IntentStop, s.handleStop)
	s.router.Register(IntentHelp, s.handleHelp)
	s.router.Register(IntentFallback, s.handleFallback)
	s.router.Register(IntentNavigateHome, s.handleNavigateHome)
}

func (s *Skill) handleFindRecipe(ctx context.Context, intent Intent, _ Attributes) (Response, error) {
	log := logger.GetLoggerFromContext(ctx, s.log)

	food, ok := intent.SlotValue(FoodSlot)
	if !ok {
		log.Info("Recipe search without food slot", logger.IntentField(intent.Name))
		return Statement(TitleRecipeBuddy, PromptNoFood, true, nil), nil
	}

	start := time.Now()
	found, err := s.recipes.Lookup(ctx, food)
	switch {
	case errors.Is(err, recipe.ErrNoRecipe):
		s.observer.ObserveLookup(LookupNotFound, time.Since(start))
		log.Info("No recipe found for ingredient", logger.StringField("food", food))
		return Statement(TitleRecipeBuddy, PromptNoRecipe, true, nil), nil
	case err != nil:
		s.observer.ObserveLookup(LookupError, time.Since(start))
		return Response{}, fmt.Errorf("find recipe with %q: %w", food, err)
	}
	s.observer.ObserveLookup(LookupFound, time.Since(start))

	ingredients := found.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}

	text := "Using " + food + ", You can make " + found.Title +
		". Would you like to hear the ingredients of the recipe?"
	return Statement(TitleRecipeBuddy, text, false, Attributes{
		AttrRecipe:      found.Title,
		AttrIngredients: ingredients,
	}), nil
}

func (s *Skill) handleListIngredients(ctx context.Context, intent Intent, attrs Attributes) (Response, error) {
	name, ok := attrs.String(AttrRecipe)
	if !ok {
		logger.GetLoggerFromContext(ctx, s.log).Info("Ingredients requested without a recipe in session")
		return s.handleFallback(ctx, intent, attrs)
	}
	ingredients, _ := attrs.Strings(AttrIngredients)

	var b strings.Builder
	b.WriteString("The ingredients of ")
	b.WriteString(name)
	b.WriteString(" are ")
	for _, item := range ingredients {
		b.WriteString(item)
		b.WriteString(", ")
	}

	return Statement(TitleRecipeBuddy, b.String(), true, nil), nil
}

func (s *Skill) handleStop(context.Context, Intent, Attributes) (Response, error) {
	return Statement(TitleExit, PromptGoodbye, true, nil), nil
}

func (s *Skill) handleHelp(context.Context, Intent, Attributes) (Response, error) {
	return Statement(TitleHowTo, PromptHelp, false, nil), nil
}

func (s *Skill) handleFallback(context.Context, Intent, Attributes) (Response, error) {
	return Statement(TitleRecipeBuddy, PromptFallback, false, nil), nil
}

func (s *Skill) handleNavigateHome(context.Context, Intent, Attributes) (Response, error) {
	return Statement(TitleRecipeBuddy, PromptNavigateHome, false, nil), nil
}
