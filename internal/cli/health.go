package cli

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

// HealthCommand returns a command that checks a running server
func HealthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check the liveness endpoint of a running server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "url",
				Usage: "Health URL; defaults to the configured port and liveness path on localhost",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 3 * time.Second,
				Usage: "Request timeout",
			},
		},
		Action: healthAction,
	}
}

func healthAction(ctx *cli.Context) error {
	log := getLogger(ctx)

	url := ctx.String("url")
	if url == "" {
		cfg, err := loadConfig(ctx)
		if err != nil {
			return err
		}
		url = fmt.Sprintf("http://localhost:%d%s", cfg.HTTP.Port, cfg.Health.LivenessPath)
	}

	reqCtx, cancel := context.WithTimeout(ctx.Context, ctx.Duration("timeout"))
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Error("Health check failed", logger.ErrorField(err))
		return fmt.Errorf("health check failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Error("Health check failed with status", logger.IntField("status_code", resp.StatusCode))
		return fmt.Errorf("health check failed with status: %d", resp.StatusCode)
	}

	log.Info("Health check passed", logger.StringField("url", url))
	_, _ = fmt.Fprintln(ctx.App.Writer, "Health check passed")
	return nil
}
