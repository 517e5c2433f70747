// Package config loads the planner's runtime configuration: a YAML file with
// environment-variable overrides layered on top, validated before use.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/orchestrator"
	"github.com/RBATHINENI78/AI-Powered-Vacation-Planner-sub001/internal/types"
)

// Logging controls the structured logger.
type Logging struct {
	Level  string `yaml:"level" env:"VACATION_PLANNER_LOG_LEVEL"`
	Format string `yaml:"format" env:"VACATION_PLANNER_LOG_FORMAT"`
}

// LLM selects the completion provider for activity narratives.
type LLM struct {
	Provider string `yaml:"provider" env:"VACATION_PLANNER_LLM_PROVIDER"`
	Model    string `yaml:"model" env:"VACATION_PLANNER_LLM_MODEL"`
	APIKey   string `yaml:"api_key" env:"VACATION_PLANNER_LLM_API_KEY"`
}

// Config is the full runtime configuration.
type Config struct {
	Logging Logging             `yaml:"logging"`
	Planner orchestrator.Config `yaml:"planner"`
	LLM     LLM                 `yaml:"llm"`
}

// Default returns the standard configuration: text logging at info level,
// default pipeline parameters, no language model.
func Default() Config {
	return Config{
		Logging: Logging{Level: "info", Format: "text"},
		Planner: orchestrator.DefaultConfig(),
		LLM:     LLM{Provider: "none"},
	}
}

// Load builds the configuration in three layers: defaults, then the YAML
// file (optional; a missing path or missing file falls through to defaults),
// then environment-variable overrides. The merged result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, types.WrapError(types.CONFIG_LOAD_FAILED, "read config file", err)
			}
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, types.WrapError(types.CONFIG_PARSE_FAILED, "parse config file", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, types.WrapError(types.CONFIG_PARSE_FAILED, "parse environment overrides", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the merged configuration before anything is built from it.
func (c Config) Validate() error {
	if _, err := parseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown log format %q", c.Logging.Format))
	}

	if c.Planner.MaxIterations < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "planner.max_iterations must not be negative")
	}
	if c.Planner.MaxParallel < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "planner.max_parallel must not be negative")
	}
	if c.Planner.Thresholds.OverrunRatio < 0 || c.Planner.Thresholds.SurplusRatio < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "planner.thresholds must not be negative")
	}

	return nil
}

// NewLogger builds the slog logger described by the logging section.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := parseLevel(c.Logging.Level)
	handlerOpts := &slog.HandlerOptions{Level: level}

	if strings.ToLower(c.Logging.Format) == "json" {
		return slog.New(slog.NewJSONHandler(w, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(w, handlerOpts))
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, types.NewError(types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown log level %q", s))
	}
}
