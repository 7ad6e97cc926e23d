// Package observability provides logger construction for the CLI.
//
// All diagnostics go to stderr so stdout stays reserved for command
// output (JSONL records, tables, object bytes).
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the process-wide logger for CLI commands.
//
// It starts as a no-op logger so packages can log unconditionally; the
// root command replaces it via InitCLILogger before running subcommands.
var CLILogger = zap.NewNop()

// InitCLILogger builds the CLI logger at the given level and installs it
// as CLILogger.
//
// Levels follow zap conventions: debug, info, warn, error. An empty level
// means info.
func InitCLILogger(level string) error {
	if level == "" {
		level = "info"
	}

	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	CLILogger = logger
	return nil
}

// SyncCLILogger flushes buffered log entries. Safe to call at exit;
// sync errors on stderr are ignored.
func SyncCLILogger() {
	_ = CLILogger.Sync()
}
