package cmd

import (
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudbound/bucketfs/internal/observability"
	"github.com/cloudbound/bucketfs/pkg/store"
)

var getCmd = &cobra.Command{
	Use:   "get <uri> [dest]",
	Short: "Download a file",
	Long: `Download a file to a local path, or to stdout when no destination
is given.

Examples:
  bucketfs get s3://bucket/data/report.csv ./report.csv
  bucketfs get s3://bucket/data/report.csv | head`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runGet,
}

var getConn connFlags

func init() {
	rootCmd.AddCommand(getCmd)
	registerConnFlags(getCmd, &getConn)
}

func runGet(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	parsed, err := ParseURI(args[0])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}
	if parsed.IsPattern() || parsed.IsPrefix() {
		return exitError(foundry.ExitInvalidArgument, "get requires an exact file URI",
			fmt.Errorf("provide a file URI (no glob, no trailing '/'): %s", args[0]))
	}

	fs, err := connectFS(ctx, parsed.Bucket, &getConn)
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	if len(args) == 1 {
		if err := fs.ReadInto(ctx, parsed.Key, cmd.OutOrStdout()); err != nil {
			if store.IsNotFound(err) {
				return exitError(foundry.ExitFileNotFound, "No such file", err)
			}
			return exitError(foundry.ExitExternalServiceUnavailable, "Download failed", err)
		}
		return nil
	}

	dest := args[1]
	out, err := os.Create(dest)
	if err != nil {
		return exitError(foundry.ExitFileWriteError, "Failed to create destination file", err)
	}

	if err := fs.ReadInto(ctx, parsed.Key, out); err != nil {
		_ = out.Close()
		_ = os.Remove(dest)
		if store.IsNotFound(err) {
			return exitError(foundry.ExitFileNotFound, "No such file", err)
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Download failed", err)
	}
	if err := out.Close(); err != nil {
		return exitError(foundry.ExitFileWriteError, "Failed to flush destination file", err)
	}

	observability.CLILogger.Info("Downloaded file",
		zap.String("uri", parsed.String()),
		zap.String("dest", dest))
	return nil
}
