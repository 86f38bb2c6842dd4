// Command inconfluential mirrors Confluence spaces into a git repository
// of Markdown files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dinjou/inconfluential/internal/adapters/driving/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
