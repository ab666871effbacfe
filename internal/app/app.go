// Package app wires a parsed cli.Config into the runner's components
// (model loader, validator, planner, executor, walker, reporters) and
// runs a single subcommand to completion.
//
// Grounded on _examples/specialistvlad-burstgridgo/internal/app/{app,logger}.go
// for the outW/logger/config wiring shape, generalized from a single
// pipeline (grid -> DAG -> executor) into a dispatch over AltWalker's five
// subcommands.
package app

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/altwalker/altwalker/internal/cli"
	"github.com/altwalker/altwalker/internal/ctxlog"
)

// App owns the process-wide dependencies for a single invocation: the
// output stream, the configured logger, and the parsed configuration.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	cfg    *cli.Config
}

// NewApp builds an App with an isolated logger configured from cfg. It
// never fails: flag validation already happened in cli.Parse.
//
// Every log line the App emits carries a runID, so that generator and
// executor subprocess output can be cross-referenced with walker-side
// events when a test harness invokes altwalker concurrently or repeatedly.
func NewApp(outW io.Writer, cfg *cli.Config) *App {
	runID := uuid.New().String()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW).With(slog.String("runID", runID))
	logger.Debug("logger configured", slog.String("command", cfg.Command))

	return &App{outW: outW, logger: logger, cfg: cfg}
}

// Logger returns the app's configured logger, primarily for testing.
func (a *App) Logger() *slog.Logger { return a.logger }

func (a *App) ctx(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// fileLogger opens path for writing and returns a plain-text logger backed
// by it, for the --report-file flag. The file is intentionally left open
// for the lifetime of the process; the OS reclaims it on exit.
func (a *App) fileLogger(path string) *slog.Logger {
	f, err := os.Create(path)
	if err != nil {
		a.logger.Error("could not open report file", slog.String("file", path), slog.Any("error", err))
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(f, nil))
}
