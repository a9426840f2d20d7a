// Command lambda serves the skill as an AWS Lambda function.
package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	appconfig "github.com/lewisedginton/recipe_buddy/internal/config"
	"github.com/lewisedginton/recipe_buddy/internal/recipe"
	"github.com/lewisedginton/recipe_buddy/internal/skill"
	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

func main() {
	cfg, err := appconfig.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	l := logger.NewLogger(cfg.LoggerConfig())

	rc := cfg.RecipeClientConfig()
	rc.Logger = l
	client, err := recipe.New(rc)
	if err != nil {
		log.Fatalf("Failed to create recipe client: %v", err)
	}

	sk, err := skill.New(skill.Config{Recipes: client, Logger: l})
	if err != nil {
		log.Fatalf("Failed to create skill: %v", err)
	}

	l.Info("Starting lambda handler", logger.StringField("version", cfg.Version))
	lambda.Start(func(ctx context.Context, req skill.Request) (skill.Response, error) {
		ctx, _ = logger.EnsureCorrelationID(ctx)
		return sk.Handle(ctx, req)
	})
}
