// Command altwalker runs model-based tests: it drives an external
// GraphWalker path generator and dispatches each generated step to test
// code over HTTP.
//
// Grounded on _examples/specialistvlad-burstgridgo/cmd/cli/main.go for the
// bootstrap-logger / run(outW, args) / ExitError-to-os.Exit shape.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/altwalker/altwalker/internal/app"
	"github.com/altwalker/altwalker/internal/cli"
	"github.com/altwalker/altwalker/internal/config"
)

// projectConfigFile is the optional project file whose values replace
// Parse's hardcoded flag defaults, following altwalker.yaml convention.
const projectConfigFile = "altwalker.yaml"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitRunnerFail)
	}
}

func run(outW io.Writer, args []string) error {
	defaults, err := config.Load(projectConfigFile)
	if err != nil {
		return &cli.ExitError{Code: cli.ExitUsage, Message: fmt.Sprintf("could not read %s: %v", projectConfigFile, err)}
	}

	cfg, shouldExit, err := cli.ParseWithDefaults(args, outW, defaults)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := app.NewApp(outW, cfg)
	return a.Run(ctx)
}
