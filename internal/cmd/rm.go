package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudbound/bucketfs/internal/observability"
)

var rmCmd = &cobra.Command{
	Use:   "rm <uri>",
	Short: "Delete a file",
	Long: `Delete a single file. Deleting a file that does not exist succeeds.

Examples:
  bucketfs rm s3://bucket/data/report.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runRm,
}

var rmConn connFlags

func init() {
	rootCmd.AddCommand(rmCmd)
	registerConnFlags(rmCmd, &rmConn)
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	parsed, err := ParseURI(args[0])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}
	if parsed.IsPattern() || parsed.IsPrefix() {
		return exitError(foundry.ExitInvalidArgument, "rm requires an exact file URI",
			fmt.Errorf("use rmdir for directories: %s", args[0]))
	}

	fs, err := connectFS(ctx, parsed.Bucket, &rmConn)
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	if err := fs.DeleteFile(ctx, parsed.Key); err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to delete file", err)
	}

	observability.CLILogger.Info("Deleted file", zap.String("path", parsed.Key))
	return nil
}
