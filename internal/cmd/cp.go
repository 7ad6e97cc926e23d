package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudbound/bucketfs/internal/observability"
	"github.com/cloudbound/bucketfs/pkg/store"
)

var cpCmd = &cobra.Command{
	Use:   "cp <src-uri> <dst-uri>",
	Short: "Copy a file within a bucket",
	Long: `Copy a file to a new path using a server-side copy. Both paths
must be in the same bucket.

Examples:
  bucketfs cp s3://bucket/data/report.csv s3://bucket/archive/report.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runCp,
}

var cpConn connFlags

func init() {
	rootCmd.AddCommand(cpCmd)
	registerConnFlags(cpCmd, &cpConn)
}

func runCp(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src, err := ParseURI(args[0])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid source URI", err)
	}
	dst, err := ParseURI(args[1])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid destination URI", err)
	}

	if src.IsPattern() || src.IsPrefix() || dst.IsPattern() || dst.IsPrefix() {
		return exitError(foundry.ExitInvalidArgument, "cp requires exact file URIs",
			fmt.Errorf("directories and glob patterns are not supported"))
	}
	if src.Bucket != dst.Bucket {
		return exitError(foundry.ExitInvalidArgument, "cp is limited to a single bucket",
			fmt.Errorf("source bucket %q differs from destination bucket %q", src.Bucket, dst.Bucket))
	}

	fs, err := connectFS(ctx, src.Bucket, &cpConn)
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	link, err := fs.CopyFile(ctx, src.Key, dst.Key)
	if err != nil {
		if store.IsNotFound(err) {
			return exitError(foundry.ExitFileNotFound, "No such file", err)
		}
		return exitError(foundry.ExitExternalServiceUnavailable, "Copy failed", err)
	}

	observability.CLILogger.Info("Copied file",
		zap.String("src", src.Key),
		zap.String("dst", link.FullName))
	return nil
}
