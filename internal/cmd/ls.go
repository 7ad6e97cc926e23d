package cmd

import (
	"fmt"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cloudbound/bucketfs/internal/observability"
	"github.com/cloudbound/bucketfs/pkg/bucketfs"
	"github.com/cloudbound/bucketfs/pkg/match"
	"github.com/cloudbound/bucketfs/pkg/output"
)

var lsCmd = &cobra.Command{
	Use:   "ls <uri>",
	Short: "List directory entries",
	Long: `List the entries under a directory prefix.

By default only the immediate children are listed; --recursive flattens
the whole subtree. Directory entries are included with --dirs. A glob
URI filters results by pattern.

Examples:
  bucketfs ls s3://bucket/data/
  bucketfs ls s3://bucket/data/ --recursive --output jsonl
  bucketfs ls 's3://bucket/data/**/*.parquet'`,
	Args: cobra.ExactArgs(1),
	RunE: runLs,
}

var (
	lsConn      connFlags
	lsRecursive bool
	lsDirs      bool
	lsIncludes  []string
	lsExcludes  []string
	lsOutput    string
)

func init() {
	rootCmd.AddCommand(lsCmd)

	registerConnFlags(lsCmd, &lsConn)
	lsCmd.Flags().BoolVar(&lsRecursive, "recursive", false, "List the whole subtree")
	lsCmd.Flags().BoolVar(&lsDirs, "dirs", false, "Include directory entries")
	lsCmd.Flags().StringSliceVar(&lsIncludes, "include", nil, "Glob patterns entries must match")
	lsCmd.Flags().StringSliceVar(&lsExcludes, "exclude", nil, "Glob patterns entries must not match")
	lsCmd.Flags().StringVar(&lsOutput, "output", "table", "Output format: table or jsonl")
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	parsed, err := ParseURI(args[0])
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid URI", err)
	}
	if lsOutput != "table" && lsOutput != "jsonl" {
		return exitError(foundry.ExitInvalidArgument, "Invalid output format",
			fmt.Errorf("output %q is not supported (table, jsonl)", lsOutput))
	}

	includes := lsIncludes
	if parsed.IsPattern() {
		// A glob URI lists from its static prefix and filters by pattern.
		includes = append(includes, parsed.Pattern)
		lsRecursive = true
	} else if !parsed.IsPrefix() {
		return exitError(foundry.ExitInvalidArgument, "ls requires a directory URI",
			fmt.Errorf("append '/' to treat %s as a directory", args[0]))
	}

	matcher, err := match.New(includes, lsExcludes)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid glob pattern", err)
	}

	fs, err := connectFS(ctx, parsed.Bucket, &lsConn)
	if err != nil {
		return err
	}
	defer func() { _ = fs.Close() }()

	start := time.Now()
	links, err := fs.List(ctx, parsed.Key, bucketfs.ListOptions{
		Recursive:          lsRecursive,
		IncludeDirectories: lsDirs,
	})
	if err != nil {
		return exitError(foundry.ExitExternalServiceUnavailable, "Failed to list directory", err)
	}

	filtered := links[:0]
	for _, link := range links {
		if link.IsDir() || matcher.Match(link.FullName) {
			filtered = append(filtered, link)
		}
	}
	links = filtered

	if lsOutput == "table" {
		return writeLinkTable(cmd, links)
	}

	writer := newRecordWriter(cmd, parsed.Bucket)
	defer func() { _ = writer.Close() }()

	var bytesTotal int64
	for _, link := range links {
		if err := writer.WriteLink(ctx, output.NewLinkRecord(link)); err != nil {
			observability.CLILogger.Error("Failed to write record", zap.Error(err))
			return exitError(foundry.ExitFileWriteError, "Failed to write record", err)
		}
		bytesTotal += link.Length
	}

	elapsed := time.Since(start)
	if err := writer.WriteSummary(ctx, &output.SummaryRecord{
		Entries:       int64(len(links)),
		BytesTotal:    bytesTotal,
		Duration:      elapsed,
		DurationHuman: elapsed.Round(time.Millisecond).String(),
	}); err != nil {
		return exitError(foundry.ExitFileWriteError, "Failed to write summary", err)
	}

	return nil
}
