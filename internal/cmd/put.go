package cmd

import (
	"fmt"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudbound/bucketfs/internal/observability"
)

var putCmd = &cobra.Command{
	Use:   "put <src> <uri>",
	Short: "Upload a file",
	Long: `Upload a local file to a bucket path.

Examples:
  bucketfs put ./report.csv s3://bucket/data/report.csv`,
	Args: cobra.ExactArgs(2),
	RunE: runPut,
}

var (
	putConn        connFlags
	putNoOverwrite bool
)

func init() {
	rootCmd.AddCommand(putCmd)

	registerConnFlags(putCmd, &putConn)
	putCmd.Flags().BoolVar(&putNoOverwrite, "no-overwrite", false, "Fail if the destination already exists")
}

func runPut(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	src := args[0]

	parsed, err := ParseURI(args[1])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}
	if parsed.IsPattern() || parsed.IsPrefix() {
		return exitError(foundry.ExitInvalidArgument, "put requires an exact file URI",
			fmt.Errorf("provide a file URI (no glob, no trailing '/'): %s", args[1]))
	}

	in, err := os.Open(src)
	if err != nil {
		return exitError(foundry.ExitFileReadError, "Failed to open source file", err)
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return exitError(foundry.ExitFileReadError, "Failed to stat source file", err)
	}

	fs, err := connectFS(ctx, parsed.Bucket, &putConn)
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	if putNoOverwrite {
		existing, err := fs.Resolve(ctx, parsed.Key)
		if err != nil {
			return exitError(foundry.ExitExternalServiceUnavailable, "Failed to check destination", err)
		}
		if existing != nil {
			return exitError(foundry.ExitInvalidArgument, "Destination already exists",
				fmt.Errorf("%s exists; drop --no-overwrite to replace it", args[1]))
		}
	}

	link, err := fs.Write(ctx, parsed.Key, in, info.Size(), !putNoOverwrite)
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Upload failed", err)
	}

	observability.CLILogger.Info("Uploaded file",
		zap.String("src", src),
		zap.String("uri", parsed.String()),
		zap.Int64("bytes", link.Length))
	return nil
}
