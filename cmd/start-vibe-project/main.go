// Package main provides the entry point for the start-vibe-project CLI.
package main

import (
	"context"
	"os"

	"github.com/itechmeat/start-vibe-project/internal/cli"
	"github.com/itechmeat/start-vibe-project/internal/signal"
)

// Set via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	h := signal.NewHandler(context.Background(), signal.WithForce(func(os.Signal) {
		os.Exit(cli.ExitInterrupted)
	}))

	err := cli.Execute(h.Context(), cli.BuildInfo{Version: version, Commit: commit, Date: date})

	code := cli.ExitCodeForError(err)
	if h.Signal() != nil {
		code = cli.ExitInterrupted
	}
	h.Stop()
	os.Exit(code)
}
