package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/lewisedginton/recipe_buddy/internal/monitoring"
	"github.com/lewisedginton/recipe_buddy/internal/server"
	"github.com/lewisedginton/recipe_buddy/internal/telemetry"
	"github.com/lewisedginton/recipe_buddy/pkg/logger"
	"github.com/lewisedginton/recipe_buddy/pkg/metrics"
)

// ServerCommand returns a command for server operations
func ServerCommand() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Server operations",
		Subcommands: []*cli.Command{
			{
				Name:   "start",
				Usage:  "Start the skill webhook server",
				Action: serverStartAction,
			},
		},
	}
}

func serverStartAction(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		getLogger(ctx).Error("Failed to load config", logger.ErrorField(err))
		return err
	}

	// The config file may carry its own logging settings
	log := logger.NewLogger(cfg.LoggerConfig())
	log.Info("Configuration loaded successfully",
		logger.StringField("version", cfg.Version),
		logger.StringField("environment", cfg.Environment))

	shutdownTracer, err := telemetry.InitTracer(telemetry.Config{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.Version,
		Enabled:        cfg.Tracing.Enabled,
		Exporter:       cfg.Tracing.Exporter,
		SampleRatio:    cfg.Tracing.SampleRatio,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialise tracing: %w", err)
	}

	m := metrics.NewMetrics(cfg.Metrics.EnableHTTPMetrics, cfg.Metrics.EnableSkillMetrics, log)

	sk, err := buildSkill(cfg, log, m)
	if err != nil {
		log.Error("Failed to create skill", logger.ErrorField(err))
		return err
	}

	hc := monitoring.Config{
		Logger:           log,
		Timeout:          cfg.Health.Timeout,
		FailureThreshold: cfg.Health.FailureThreshold,
		Version:          cfg.Version,
	}
	if cfg.Health.CheckRecipeAPI {
		hc.RecipeAPIURL = cfg.Recipe.BaseURL
	}

	s, err := server.New(server.Config{
		App:     cfg,
		Skill:   sk,
		Metrics: m,
		Health:  monitoring.NewHealthMonitor(hc),
		Logger:  log,
	})
	if err != nil {
		log.Error("Failed to create server", logger.ErrorField(err))
		return fmt.Errorf("failed to create server: %w", err)
	}

	errs := s.Listen()
	log.Info("HTTP service started successfully")

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", logger.StringField("signal", sig.String()))
	case err := <-errs:
		if err != nil {
			log.Error("Fatal server error occurred", logger.ErrorField(err))
			runErr = fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout())
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Error("Error during graceful shutdown", logger.ErrorField(err))
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error("Failed to flush traces", logger.ErrorField(err))
	}

	log.Info("Server exited")
	return runErr
}
