package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cloudbound/bucketfs/internal/config"
	"github.com/cloudbound/bucketfs/pkg/bucketfs"
	"github.com/cloudbound/bucketfs/pkg/output"
	"github.com/cloudbound/bucketfs/pkg/store/s3"
)

// connFlags are the per-command store connection flags. Empty values fall
// back to loaded configuration.
type connFlags struct {
	region   string
	profile  string
	endpoint string
}

func registerConnFlags(cmd *cobra.Command, f *connFlags) {
	cmd.Flags().StringVarP(&f.region, "region", "r", "", "AWS region")
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "AWS profile")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "Custom S3 endpoint")
}

// newFS builds a filesystem view over the named bucket, merging command
// flags with loaded configuration.
func newFS(ctx context.Context, bucket string, f *connFlags) (*bucketfs.FS, error) {
	cfg := config.GetConfig()
	if cfg == nil {
		cfg = &config.Config{}
	}

	region := f.region
	if region == "" {
		region = cfg.S3.Region
	}
	profile := f.profile
	if profile == "" {
		profile = cfg.S3.Profile
	}
	endpoint := f.endpoint
	if endpoint == "" {
		endpoint = cfg.S3.Endpoint
	}

	client, err := s3.New(ctx, s3.Config{
		Bucket:         bucket,
		Region:         region,
		Endpoint:       endpoint,
		Profile:        profile,
		ForcePathStyle: endpoint != "" || cfg.S3.ForcePathStyle,
		MaxKeys:        cfg.S3.MaxKeys,
	})
	if err != nil {
		return nil, err
	}

	var opts []bucketfs.Option
	if cfg.List.PageRateLimit > 0 {
		opts = append(opts, bucketfs.WithPageRateLimit(cfg.List.PageRateLimit))
	}

	fs, err := bucketfs.New(client, opts...)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return fs, nil
}

// connectFS parses connection errors into exit-coded errors.
func connectFS(ctx context.Context, bucket string, f *connFlags) (*bucketfs.FS, error) {
	fs, err := newFS(ctx, bucket, f)
	if err != nil {
		return nil, exitError(foundry.ExitExternalServiceUnavailable, "Failed to connect to storage", err)
	}
	return fs, nil
}

// newRecordWriter builds a JSONL writer for the command's stdout.
func newRecordWriter(cmd *cobra.Command, bucket string) *output.JSONLWriter {
	return output.NewJSONLWriter(cmd.OutOrStdout(), uuid.New().String(), bucket)
}

// writeLinkTable renders links in aligned columns.
func writeLinkTable(cmd *cobra.Command, links []*bucketfs.Link) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tSIZE\tMODIFIED\tPATH")
	for _, link := range links {
		modified := ""
		if !link.LastWriteTime.IsZero() {
			modified = link.LastWriteTime.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", link.Kind, link.Length, modified, link.FullName)
	}
	return tw.Flush()
}
