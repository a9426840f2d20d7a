// Package cli holds the recipe-buddy command line application.
package cli

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

// NewApp builds the recipe-buddy command line application.
func NewApp(version string) *cli.App {
	return &cli.App{
		Name:    "recipe-buddy",
		Usage:   "Voice assistant webhook that suggests recipes for an ingredient",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "json",
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "config-file",
				Value:   "",
				Usage:   "Path to configuration file",
				EnvVars: []string{"CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Value: ".env",
				Usage: "Dotenv file loaded before configuration; a missing file is ignored",
			},
		},
		Before: before,
		Commands: []*cli.Command{
			ConfigCommand(),
			ServerCommand(),
			InvokeCommand(),
			ChatCommand(),
			HealthCommand(),
		},
	}
}

func before(ctx *cli.Context) error {
	// Existing environment variables win over the dotenv file
	if err := godotenv.Load(ctx.String("env-file")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	log := logger.NewLogger(logger.Config{
		Level:   logger.ParseLevel(ctx.String("log-level")),
		Format:  ctx.String("log-format"),
		Service: "recipe-buddy",
		Output:  ctx.App.ErrWriter,
	})

	// Store logger in context for commands to use
	ctx.App.Metadata = map[string]interface{}{
		"logger": log,
	}
	return nil
}
