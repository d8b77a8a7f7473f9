// Package logging builds the zap logger. The terminal belongs to the UI, so
// output goes to a file unless a caller asks for stderr.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/storyreel/internal/config"
)

// Options describes logger construction parameters.
type Options struct {
	Level       string
	OutputPaths []string
	Development bool
}

// New constructs a JSON zap logger writing to opts.OutputPaths.
func New(opts Options) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(defaultString(opts.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	paths := opts.OutputPaths
	if len(paths) == 0 {
		paths = []string{"stderr"}
	}
	for _, p := range paths {
		if p == "stdout" || p == "stderr" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.Development = opts.Development
	cfg.OutputPaths = paths
	cfg.ErrorOutputPaths = paths
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if level.Level() <= zapcore.DebugLevel {
		cfg.Sampling = nil
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// NewFromConfig logs to the configured file at the configured level.
func NewFromConfig(cfg config.Config) (*zap.Logger, error) {
	var paths []string
	if strings.TrimSpace(cfg.LogFile) != "" {
		paths = []string{cfg.LogFile}
	}
	return New(Options{Level: cfg.LogLevel, OutputPaths: paths})
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
