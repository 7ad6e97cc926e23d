package cmd

import (
	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudbound/bucketfs/internal/observability"
)

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <uri>",
	Short: "Create a directory",
	Long: `Create a directory by writing its zero-byte marker object.

Creating a directory that already exists succeeds.

Examples:
  bucketfs mkdir s3://bucket/data/2025/`,
	Args: cobra.ExactArgs(1),
	RunE: runMkdir,
}

var mkdirConn connFlags

func init() {
	rootCmd.AddCommand(mkdirCmd)
	registerConnFlags(mkdirCmd, &mkdirConn)
}

func runMkdir(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	parsed, err := ParseURI(args[0])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}

	fs, err := connectFS(ctx, parsed.Bucket, &mkdirConn)
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	link, err := fs.CreateDirectory(ctx, parsed.Key)
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to create directory", err)
	}

	observability.CLILogger.Info("Created directory", zap.String("path", link.FullName))
	return nil
}
