package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/altwalker/altwalker/internal/cli"
	walkererrors "github.com/altwalker/altwalker/internal/errors"
	"github.com/altwalker/altwalker/internal/executor"
)

// buildExecutor returns the Executor to run test code against. "" or
// "http" connects to a service the user already started; "none" selects
// the no-op NullExecutor; any other value is
// treated as the command to co-spawn (and supervise) as the executor
// service, generalizing original_source's PythonExecutor/DotnetExecutor
// split into "connect" vs "spawn and connect" the way ExecutorProcess
// already does for any language.
func (a *App) buildExecutor(ctx context.Context, cfg *cli.Config) (executor.Executor, func(), error) {
	switch cfg.ExecutorType {
	case "", "http":
		return executor.NewHTTPExecutor(cfg.ExecutorURL), func() {}, nil
	case "none":
		// Dry-run: walk the generated path and run every fixture hook
		// without dispatching to any test code, to check step/fixture
		// ordering alone.
		return executor.NullExecutor{}, func() {}, nil
	}

	proc, err := executor.StartProcess(ctx, executor.ProcessConfig{
		Command: []string{cfg.ExecutorType, cfg.TestPackage},
		URL:     cfg.ExecutorURL,
	})
	if err != nil {
		return nil, func() {}, fmt.Errorf("starting executor service: %w", err)
	}
	return proc, proc.Kill, nil
}

// executorErrorExitCode classifies an error surfaced by the executor or
// walker into the AltWalker exit-code taxonomy: generator failures are 3
// ("GraphWalker Error: "), everything else runner-side is 4
// ("AltWalker Error: "). errors.As is used rather than a type assertion
// so a *GeneratorError wrapped by walker.Run's startup fmt.Errorf calls
// still classifies as exit 3.
func executorErrorExitCode(err error) (int, string) {
	var genErr *walkererrors.GeneratorError
	if errors.As(err, &genErr) {
		return cli.ExitGeneratorFail, "GraphWalker Error: " + err.Error()
	}
	return cli.ExitRunnerFail, "AltWalker Error: " + err.Error()
}
