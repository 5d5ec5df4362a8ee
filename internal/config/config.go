// Package config loads scheduler configuration from the environment and
// an optional .env file into a typed Config with documented defaults.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds every tunable of the scheduler pipeline: the defaults and
// objective weights the model is built with (Defaults), how long the
// solver is given, and how the run is observed.
type Config struct {
	Env string

	Log LogConfig

	Solver   SolverConfig
	Defaults DefaultsConfig

	OutputDir string
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string
	Format string
}

// SolverConfig bounds the ILP solver invocation.
type SolverConfig struct {
	TimeBudget time.Duration
}

// DefaultsConfig holds the input adapter's defined defaults and the
// model builder's objective weights. Operators may widen the priority
// ratio when request counts grow, but the ordering must stay strictly
// decreasing: required over requested over recommended.
type DefaultsConfig struct {
	CourseCapacity int

	RequiredWeight    float64
	RequestedWeight   float64
	RecommendedWeight float64
}

// Load reads configuration from environment variables (optionally backed
// by a local .env file), applying the documented defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{
		Env: v.GetString("ENV"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Solver: SolverConfig{
			TimeBudget: parseDuration(v.GetString("SOLVER_TIME_BUDGET"), 30*time.Second),
		},
		Defaults: DefaultsConfig{
			CourseCapacity:    v.GetInt("DEFAULT_COURSE_CAPACITY"),
			RequiredWeight:    v.GetFloat64("WEIGHT_REQUIRED"),
			RequestedWeight:   v.GetFloat64("WEIGHT_REQUESTED"),
			RecommendedWeight: v.GetFloat64("WEIGHT_RECOMMENDED"),
		},
		OutputDir: v.GetString("OUTPUT_DIR"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("SOLVER_TIME_BUDGET", "30s")
	v.SetDefault("DEFAULT_COURSE_CAPACITY", 30)
	v.SetDefault("WEIGHT_REQUIRED", 100.0)
	v.SetDefault("WEIGHT_REQUESTED", 10.0)
	v.SetDefault("WEIGHT_RECOMMENDED", 1.0)

	v.SetDefault("OUTPUT_DIR", ".")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}
