// Package config defines the recipe buddy application configuration.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/lewisedginton/recipe_buddy/internal/recipe"
	pkgconfig "github.com/lewisedginton/recipe_buddy/pkg/config"
	"github.com/lewisedginton/recipe_buddy/pkg/logger"
)

// AppConfig holds all application configuration
type AppConfig struct {
	ServiceName string `env:"SERVICE_NAME" yaml:"service_name" default:"recipe-buddy"`
	Version     string `env:"VERSION" yaml:"version" default:"dev"`
	Environment string `env:"ENVIRONMENT" yaml:"environment" default:"development"`

	pkgconfig.CommonConfig `yaml:",inline"`

	HTTP    pkgconfig.HTTPServerConfig `yaml:"http"`
	Metrics pkgconfig.MetricsConfig    `yaml:"metrics"`
	Health  HealthConfig               `yaml:"health"`
	Tracing TracingConfig              `yaml:"tracing"`
	Skill   SkillConfig                `yaml:"skill"`
	Recipe  RecipeAPIConfig            `yaml:"recipe"`
}

// HealthConfig holds health check configuration
type HealthConfig struct {
	LivenessPath     string        `env:"HEALTH_LIVENESS_PATH" yaml:"liveness_path" default:"/health/live"`
	ReadinessPath    string        `env:"HEALTH_READINESS_PATH" yaml:"readiness_path" default:"/health/ready"`
	CombinedPath     string        `env:"HEALTH_COMBINED_PATH" yaml:"combined_path" default:"/health"`
	Timeout          time.Duration `env:"HEALTH_TIMEOUT" yaml:"timeout" default:"5s"`
	FailureThreshold int           `env:"HEALTH_FAILURE_THRESHOLD" yaml:"failure_threshold" default:"3"`

	// CheckRecipeAPI adds the recipe API to the readiness checks.
	CheckRecipeAPI bool `env:"HEALTH_CHECK_RECIPE_API" yaml:"check_recipe_api" default:"true"`
}

// TracingConfig holds OpenTelemetry settings
type TracingConfig struct {
	Enabled     bool    `env:"TRACING_ENABLED" yaml:"enabled" default:"false"`
	Exporter    string  `env:"TRACING_EXPORTER" yaml:"exporter" default:"stdout"`
	SampleRatio float64 `env:"TRACING_SAMPLE_RATIO" yaml:"sample_ratio" default:"1"`
}

// SkillConfig holds the webhook settings
type SkillConfig struct {
	Path           string        `env:"SKILL_PATH" yaml:"path" default:"/skill"`
	MaxBodyBytes   int64         `env:"SKILL_MAX_BODY_BYTES" yaml:"max_body_bytes" default:"65536"`
	RequestTimeout time.Duration `env:"SKILL_REQUEST_TIMEOUT" yaml:"request_timeout" default:"10s"`
	StripPrefix    string        `env:"HTTP_STRIP_PREFIX" yaml:"strip_prefix"`
}

// RecipeAPIConfig holds settings for the recipe search API
type RecipeAPIConfig struct {
	BaseURL string        `env:"RECIPE_API_BASE_URL" yaml:"base_url" default:"https://www.food2fork.com"`
	APIKey  string        `env:"RECIPE_API_KEY" yaml:"api_key" required:"true"`
	Sort    string        `env:"RECIPE_API_SORT" yaml:"sort" default:"r"`
	Timeout time.Duration `env:"RECIPE_API_TIMEOUT" yaml:"timeout" default:"3s"`
}

// Load reads configuration from path (optional) and the environment.
func Load(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := pkgconfig.GetConfig(&cfg, path, false); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c AppConfig) Validate() error {
	var result error

	for _, err := range []error{c.CommonConfig.Validate(), c.HTTP.Validate(), c.Metrics.Validate()} {
		if err != nil {
			result = multierror.Append(result, err)
		}
	}

	if !strings.HasPrefix(c.Skill.Path, "/") {
		result = multierror.Append(result, fmt.Errorf("skill path must start with '/', got %q", c.Skill.Path))
	}
	if c.Skill.MaxBodyBytes <= 0 {
		result = multierror.Append(result, fmt.Errorf("skill max_body_bytes must be positive, got %d", c.Skill.MaxBodyBytes))
	}
	if c.Skill.RequestTimeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("skill request_timeout must be positive, got %s", c.Skill.RequestTimeout))
	}

	if u, err := url.Parse(c.Recipe.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf("recipe base_url must be an absolute http(s) URL, got %q", c.Recipe.BaseURL))
	}
	if c.Recipe.Sort != recipe.SortRating && c.Recipe.Sort != recipe.SortTrending {
		result = multierror.Append(result, fmt.Errorf("recipe sort must be 'r' or 't', got %q", c.Recipe.Sort))
	}
	if c.Recipe.Timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("recipe timeout must be positive, got %s", c.Recipe.Timeout))
	}

	if c.Health.FailureThreshold < 1 {
		result = multierror.Append(result, fmt.Errorf("health failure_threshold must be at least 1, got %d", c.Health.FailureThreshold))
	}

	if c.Tracing.Exporter != "stdout" && c.Tracing.Exporter != "none" {
		result = multierror.Append(result, fmt.Errorf("tracing exporter must be 'stdout' or 'none', got %q", c.Tracing.Exporter))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		result = multierror.Append(result, fmt.Errorf("tracing sample_ratio must be within [0, 1], got %g", c.Tracing.SampleRatio))
	}

	return result
}

// IsDevelopment reports whether the service runs in a development environment.
func (c AppConfig) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, "development")
}

// LoggerConfig returns the logger settings derived from the configuration.
func (c AppConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:   logger.ParseLevel(c.LogLevel),
		Format:  c.LogFormat,
		Service: c.ServiceName,
	}
}

// RecipeClientConfig returns the recipe client settings. Runtime collaborators
// (HTTP client, logger) are left for the caller to fill in.
func (c AppConfig) RecipeClientConfig() recipe.Config {
	return recipe.Config{
		APIKey:  c.Recipe.APIKey,
		BaseURL: c.Recipe.BaseURL,
		Sort:    c.Recipe.Sort,
		Timeout: c.Recipe.Timeout,
	}
}
