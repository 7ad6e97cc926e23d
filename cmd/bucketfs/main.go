// Command bucketfs presents filesystem-style operations over S3 buckets.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudbound/bucketfs/internal/cmd"
)

// Injected via ldflags at build time.
var (
	version   = "dev"
	commit    = "HEAD"
	buildDate = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, buildDate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := cmd.ExecuteContext(ctx)
	stop()
	os.Exit(code)
}
