// Command commentctl reads and writes comment threads on the comment
// service and plays guided tours in the terminal.
//
// Configuration comes from COMMENTCTL_CONFIG (default ./commentctl.yaml),
// environment variables and the --url, --token and --timeout flags.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/bizdesk-backend/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "commentctl: %v\n", err)
		stop()
		os.Exit(1)
	}
}
