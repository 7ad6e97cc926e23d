package cmd

import (
	"fmt"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/cloudbound/bucketfs/pkg/bucketfs"
	"github.com/cloudbound/bucketfs/pkg/output"
)

var statCmd = &cobra.Command{
	Use:   "stat <uri>",
	Short: "Resolve a single entry",
	Long: `Resolve a path to its entry metadata.

A path without a trailing slash is first tried as a file; if the name
has no extension and no such file exists, the directory form is tried.

Examples:
  bucketfs stat s3://bucket/data/report.csv
  bucketfs stat s3://bucket/data/`,
	Args: cobra.ExactArgs(1),
	RunE: runStat,
}

var (
	statConn   connFlags
	statOutput string
)

func init() {
	rootCmd.AddCommand(statCmd)

	registerConnFlags(statCmd, &statConn)
	statCmd.Flags().StringVar(&statOutput, "output", "table", "Output format: table or jsonl")
}

func runStat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	parsed, err := ParseURI(args[0])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}
	if parsed.IsPattern() {
		return exitError(foundry.ExitInvalidArgument, "stat requires an exact path",
			fmt.Errorf("glob patterns are not supported: %s", args[0]))
	}

	fs, err := connectFS(ctx, parsed.Bucket, &statConn)
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	link, err := fs.Resolve(ctx, parsed.Key)
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to resolve path", err)
	}
	if link == nil {
		return exitError(foundry.ExitFileNotFound, "No such entry", fmt.Errorf("%s does not exist", args[0]))
	}

	if statOutput == "jsonl" {
		writer := newRecordWriter(cmd, parsed.Bucket)
		defer func() { _ = writer.Close() }()
		if err := writer.WriteLink(ctx, output.NewLinkRecord(link)); err != nil {
			return exitError(foundry.ExitFileWriteError, "Failed to write record", err)
		}
		return nil
	}

	return writeLinkTable(cmd, []*bucketfs.Link{link})
}
