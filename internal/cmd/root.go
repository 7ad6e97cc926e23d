// Package cmd implements the bucketfs CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudbound/bucketfs/internal/config"
	"github.com/cloudbound/bucketfs/internal/observability"
)

var versionInfo = struct {
	Version   string
	Commit    string
	BuildDate string
}{
	Version:   "dev",
	Commit:    "HEAD",
	BuildDate: "unknown",
}

// SetVersionInfo records build metadata injected via ldflags.
func SetVersionInfo(version, commit, buildDate string) {
	versionInfo.Version = version
	versionInfo.Commit = commit
	versionInfo.BuildDate = buildDate
}

var rootLogLevel string

var rootCmd = &cobra.Command{
	Use:   "bucketfs",
	Short: "Filesystem-style operations on S3 buckets",
	Long: `bucketfs presents hierarchical filesystem semantics over flat object
storage. Directories are zero-byte marker objects and common prefixes;
files are ordinary objects.

Commands operate on s3:// URIs:
  bucketfs ls s3://bucket/prefix/
  bucketfs stat s3://bucket/path/file.txt
  bucketfs get s3://bucket/path/file.txt ./file.txt
  bucketfs put ./file.txt s3://bucket/path/file.txt
  bucketfs rmdir s3://bucket/prefix/ --recursive`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cmd.Context())
		if err != nil {
			return exitError(foundry.ExitInvalidArgument, "Failed to load configuration", err)
		}

		level := rootLogLevel
		if level == "" {
			level = cfg.Logging.Level
		}
		if err := observability.InitCLILogger(level); err != nil {
			return exitError(foundry.ExitInvalidArgument, "Failed to initialize logger", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.Version = fmt.Sprintf("%s (commit %s, built %s)",
		versionInfo.Version, versionInfo.Commit, versionInfo.BuildDate)
}

// exitCodeError carries a process exit code alongside the message.
type exitCodeError struct {
	code    int
	message string
	err     error
}

func (e *exitCodeError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v (exit code %d)", e.message, e.err, e.code)
	}
	return fmt.Sprintf("%s (exit code %d)", e.message, e.code)
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}

// exitError logs the failure and returns an error carrying the exit code.
func exitError(code int, message string, err error) error {
	observability.CLILogger.Error(message, zap.Error(err))
	return &exitCodeError{code: code, message: message, err: err}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command under the given context and
// returns the process exit code.
func ExecuteContext(ctx context.Context) int {
	defer observability.SyncCLILogger()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)

		var coded *exitCodeError
		if errors.As(err, &coded) {
			return coded.code
		}
		return 1
	}
	return 0
}
