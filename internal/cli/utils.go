package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	appconfig "github.com/lewisedginton/recipe_buddy/internal/config"
	"github.com/lewisedginton/recipe_buddy/internal/recipe"
	"github.com/lewisedginton/recipe_buddy/internal/skill"
	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

// getLogger retrieves the logger from the CLI context metadata
func getLogger(ctx *cli.Context) logger.Logger {
	if ctx.App.Metadata != nil {
		if log, ok := ctx.App.Metadata["logger"].(logger.Logger); ok {
			return log
		}
	}

	// Fallback to default logger if not found
	return logger.NewLogger(logger.Config{
		Level:   logger.InfoLevel,
		Format:  "json",
		Service: "recipe-buddy",
	})
}

// loadConfig reads the file named by --config-file plus the environment and validates the result.
func loadConfig(ctx *cli.Context) (*appconfig.AppConfig, error) {
	cfg, err := appconfig.Load(ctx.String("config-file"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// buildSkill wires the recipe client into a skill. observer may be nil.
func buildSkill(cfg *appconfig.AppConfig, log logger.Logger, observer skill.Observer) (*skill.Skill, error) {
	rc := cfg.RecipeClientConfig()
	rc.Logger = log

	client, err := recipe.New(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to create recipe client: %w", err)
	}

	return skill.New(skill.Config{
		Recipes:  client,
		Logger:   log,
		Observer: observer,
	})
}
