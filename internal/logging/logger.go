// Package logging builds the zap logger shared by every component.
// The TUI owns the terminal, so logs always go to a file.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultFileName is used when no log path is configured
const DefaultFileName = "hybridsearch.log"

// DefaultPath returns the log file location under the user state directory
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return DefaultFileName
	}
	return filepath.Join(dir, "hybridsearch", DefaultFileName)
}

// New builds a JSON logger appending to path. Verbose enables debug level.
func New(path string, verbose bool) (*zap.Logger, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
