// Package logger provides the process-wide structured logger.
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Component identifies the subsystem emitting a log line, for filtering.
type Component string

const (
	ComponentServer       Component = "server"
	ComponentSchema       Component = "schema"
	ComponentSubmission   Component = "submission"
	ComponentBilling      Component = "billing"
	ComponentWebhook      Component = "webhook"
	ComponentReconciler   Component = "reconciler"
	ComponentCatalog      Component = "catalog"
	ComponentAuth         Component = "auth"
	ComponentConfig       Component = "config"
)

// Log is the global logger instance, set by Init.
var Log *zap.Logger

const (
	StageLocal = "local"
	StageDev   = "dev"
	StageProd  = "prod"
)

// Init initializes the global logger for the given deployment stage.
func Init(stage string) {
	var cfg zap.Config
	if stage == StageProd {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	built, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	Log = built
}

// For tells the given component which sub-logger to use.
func For(component Component) *zap.Logger {
	if Log == nil {
		Init(StageLocal)
	}
	return Log.With(zap.String("component", string(component)))
}

// Sync flushes buffered log entries.
func Sync() error {
	if Log == nil {
		return nil
	}
	return Log.Sync()
}
