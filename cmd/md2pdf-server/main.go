package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/eckman-tech/md2pdf-server/internal/config"
	"github.com/eckman-tech/md2pdf-server/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	// Variables already in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	os.Exit(run(os.Args[1:], DefaultEnv()))
}

// notifyContext returns a context canceled on the first shutdown signal.
// Call stop() to release resources.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}

// run executes the command line and returns the process exit code.
func run(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	root := newRootCmd(env)
	root.SetArgs(args)
	root.SetOut(env.Stdout)
	root.SetErr(env.Stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v", err)
		if errors.Is(err, config.ErrConfigNotFound) {
			fmt.Fprint(env.Stderr, hints.ForConfigNotFound(config.SearchPaths()))
		}
		fmt.Fprintln(env.Stderr)
	}
	return exitCodeFor(err)
}
