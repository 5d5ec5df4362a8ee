// Package logging builds the structured logger used across the
// scheduler pipeline.
package logging

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sreevallabh04/masterschedule/internal/config"
)

// New builds a *zap.Logger from cfg. cfg.Env picks zap's production or
// development base config; the encoding is JSON when cfg.Log.Format is
// "json" and console otherwise, in every environment.
func New(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.Env == config.EnvProduction {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Log.Format {
	case "json":
		zapCfg.Encoding = "json"
	default:
		zapCfg.Encoding = "console"
	}

	if cfg.Log.Level != "" {
		if err := zapCfg.Level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}

	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapCfg.Build()
}

// NewRunID mints a correlation id for one pipeline run, logged on every
// line emitted during that run, the batch-job analogue of the reference
// corpus's per-HTTP-request id.
func NewRunID() string {
	return uuid.NewString()
}

// WithRun returns logger annotated with run, for use for the duration of
// one pipeline invocation.
func WithRun(logger *zap.Logger, runID string) *zap.Logger {
	return logger.With(zap.String("run_id", runID))
}
