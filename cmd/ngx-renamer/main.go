// Command ngx-renamer generates document titles for Paperless-NGX with an LLM.
// Run without a subcommand it behaves as a post-consume hook: it reads
// DOCUMENT_ID from the environment and renames that document.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/germanamz/ngx-renamer/pkg/renamer"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		}
		os.Exit(exitCode(err))
	}
}

// exitCode is 2 for configuration problems and 1 for anything else.
func exitCode(err error) int {
	if renamer.IsConfigurationError(err) {
		return 2
	}

	return 1
}
