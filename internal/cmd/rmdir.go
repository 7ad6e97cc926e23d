package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudbound/bucketfs/internal/observability"
	"github.com/cloudbound/bucketfs/pkg/bucketfs"
)

var rmdirCmd = &cobra.Command{
	Use:   "rmdir <uri>",
	Short: "Delete a directory",
	Long: `Delete a directory.

Without --recursive the directory must be empty; a non-empty directory
fails without deleting anything. With --recursive the whole subtree is
deleted in batches.

Examples:
  bucketfs rmdir s3://bucket/data/2024/
  bucketfs rmdir s3://bucket/data/ --recursive`,
	Args: cobra.ExactArgs(1),
	RunE: runRmdir,
}

var (
	rmdirConn      connFlags
	rmdirRecursive bool
)

func init() {
	rootCmd.AddCommand(rmdirCmd)

	registerConnFlags(rmdirCmd, &rmdirConn)
	rmdirCmd.Flags().BoolVar(&rmdirRecursive, "recursive", false, "Delete the whole subtree")
}

func runRmdir(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	parsed, err := ParseURI(args[0])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}
	if parsed.IsPattern() {
		return exitError(foundry.ExitInvalidArgument, "rmdir requires a directory URI",
			fmt.Errorf("glob patterns are not supported: %s", args[0]))
	}

	fs, err := connectFS(ctx, parsed.Bucket, &rmdirConn)
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	if err := fs.DeleteDirectory(ctx, parsed.Key, rmdirRecursive); err != nil {
		if bucketfs.IsNotEmpty(err) {
			return exitError(foundry.ExitInvalidArgument, "Directory not empty",
				fmt.Errorf("%s is not empty; pass --recursive to delete its contents", args[0]))
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to delete directory", err)
	}

	observability.CLILogger.Info("Deleted directory",
		zap.String("path", parsed.Key),
		zap.Bool("recursive", rmdirRecursive))
	return nil
}
