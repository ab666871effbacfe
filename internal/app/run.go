package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/altwalker/altwalker/internal/cli"
	"github.com/altwalker/altwalker/internal/codeverifier"
	"github.com/altwalker/altwalker/internal/executor"
	"github.com/altwalker/altwalker/internal/gwclient"
	"github.com/altwalker/altwalker/internal/model"
	"github.com/altwalker/altwalker/internal/planner"
	"github.com/altwalker/altwalker/internal/validator"
	"github.com/altwalker/altwalker/internal/walker"
)

// Run executes the subcommand cfg was parsed for and returns nil on
// success or a *cli.ExitError carrying the process exit code and message
// on the taxonomy original_source's handle_errors decorator establishes:
// 1 failed tests, 2 usage error (already handled by cli.Parse), 3
// generator error, 4 runner error.
func (a *App) Run(ctx context.Context) error {
	ctx = a.ctx(ctx)

	switch a.cfg.Command {
	case "check":
		return a.runCheck(ctx)
	case "verify":
		return a.runVerify(ctx)
	case "online":
		return a.runOnline(ctx)
	case "offline":
		return a.runOffline(ctx)
	case "walk":
		return a.runWalk(ctx)
	default:
		return &cli.ExitError{Code: cli.ExitUsage, Message: fmt.Sprintf("unknown command %q", a.cfg.Command)}
	}
}

func (a *App) loadAndValidateModels(cfg *cli.Config) (model.ModelSet, error) {
	paths := make([]string, len(cfg.Models))
	for i, m := range cfg.Models {
		paths[i] = m.Path
	}

	ms, err := model.LoadFiles(paths)
	if err != nil {
		return model.ModelSet{}, &cli.ExitError{Code: cli.ExitRunnerFail, Message: "AltWalker Error: " + err.Error()}
	}

	for _, p := range paths {
		raw, err := os.ReadFile(p)
		if err != nil {
			return model.ModelSet{}, &cli.ExitError{Code: cli.ExitRunnerFail, Message: "AltWalker Error: " + err.Error()}
		}
		if err := validator.ValidateSchema(raw); err != nil {
			return model.ModelSet{}, &cli.ExitError{Code: cli.ExitRunnerFail, Message: "AltWalker Error: " + err.Error()}
		}
	}
	if err := validator.ValidateSemantics(ms); err != nil {
		return model.ModelSet{}, &cli.ExitError{Code: cli.ExitRunnerFail, Message: "AltWalker Error: " + err.Error()}
	}

	return ms, nil
}

// runCheck validates every model against its own schema/semantics and,
// additionally, against the generator's own understanding of
// reachability and stop-condition syntax via "gw check".
func (a *App) runCheck(ctx context.Context) error {
	if _, err := a.loadAndValidateModels(a.cfg); err != nil {
		return err
	}

	sources := make([]gwclient.ModelSource, len(a.cfg.Models))
	for i, m := range a.cfg.Models {
		sources[i] = gwclient.ModelSource{Path: m.Path, StopCondition: m.StopCondition}
	}

	blocked := &a.cfg.Blocked
	if output, err := gwclient.Check(ctx, sources, blocked); err != nil {
		code, message := executorErrorExitCode(err)
		return &cli.ExitError{Code: code, Message: message}
	} else if output != "" {
		fmt.Fprint(a.outW, output)
	}

	a.logger.Info("model(s) are valid")
	return nil
}

// runVerify checks that the test code exposes every class/method the
// model set requires, without executing anything.
func (a *App) runVerify(ctx context.Context) error {
	ms, err := a.loadAndValidateModels(a.cfg)
	if err != nil {
		return err
	}

	exec := executor.NewHTTPExecutor(a.cfg.ExecutorURL)
	methods := codeverifier.RequiredMethods(ms, a.cfg.Blocked)

	if err := codeverifier.Verify(ctx, exec, methods); err != nil {
		return &cli.ExitError{Code: cli.ExitRunnerFail, Message: "AltWalker Error: " + err.Error()}
	}

	a.logger.Info("test code matches the model(s)")
	return nil
}

// runOnline generates a path live against a GraphWalker service (spawned
// or connected to via --host) and executes it against test code.
func (a *App) runOnline(ctx context.Context) error {
	ms, err := a.loadAndValidateModels(a.cfg)
	if err != nil {
		return err
	}

	p, cleanupPlanner, err := a.buildOnlinePlanner(ctx)
	if err != nil {
		code, message := executorErrorExitCode(err)
		return &cli.ExitError{Code: code, Message: message}
	}
	defer cleanupPlanner()

	if err := p.Load(ctx, ms); err != nil {
		code, message := executorErrorExitCode(err)
		return &cli.ExitError{Code: code, Message: message}
	}

	return a.runWithPlanner(ctx, p)
}

func (a *App) buildOnlinePlanner(ctx context.Context) (*planner.OnlinePlanner, func(), error) {
	cfg := a.cfg

	if cfg.GWHost != "" {
		client := gwclient.NewClient(cfg.GWHost, cfg.GWPort, cfg.Verbose)
		p := planner.NewOnlinePlanner(client, nil)
		return p, func() { _ = client.Close() }, nil
	}

	sources := make([]gwclient.ModelSource, len(cfg.Models))
	for i, m := range cfg.Models {
		sources[i] = gwclient.ModelSource{Path: m.Path, StopCondition: m.StopCondition}
	}

	proc, err := gwclient.StartService(ctx, gwclient.ServiceConfig{
		Models:       sources,
		Port:         cfg.GWPort,
		StartElement: cfg.StartElement,
		Unvisited:    cfg.Unvisited,
		Blocked:      &cfg.Blocked,
	})
	if err != nil {
		return nil, func() {}, err
	}

	p := planner.NewOnlinePlanner(proc.Client, proc)
	return p, p.Kill, nil
}

// runOffline generates a path and writes it to a file (or stdout),
// without loading test code or executing anything.
func (a *App) runOffline(ctx context.Context) error {
	if _, err := a.loadAndValidateModels(a.cfg); err != nil {
		return err
	}

	sources := make([]gwclient.ModelSource, len(a.cfg.Models))
	for i, m := range a.cfg.Models {
		sources[i] = gwclient.ModelSource{Path: m.Path, StopCondition: m.StopCondition}
	}

	steps, err := gwclient.Offline(ctx, sources, a.cfg.StartElement, a.cfg.Unvisited, &a.cfg.Blocked)
	if err != nil {
		code, message := executorErrorExitCode(err)
		return &cli.ExitError{Code: code, Message: message}
	}

	modelSteps := make([]model.Step, len(steps))
	for i, s := range steps {
		modelSteps[i] = model.Step{
			ID: s.ID, Name: s.Name, ModelName: s.ModelName,
			Data: s.Data, Properties: s.Properties, Actions: s.Actions,
			UnvisitedElements: s.UnvisitedElements,
		}
	}

	if err := writeSteps(modelSteps, a.cfg.OutputFile, a.outW); err != nil {
		return &cli.ExitError{Code: cli.ExitRunnerFail, Message: "AltWalker Error: " + err.Error()}
	}
	return nil
}

// runWalk replays a pre-generated path against test code.
func (a *App) runWalk(ctx context.Context) error {
	steps, err := loadSteps(a.cfg.StepsFile)
	if err != nil {
		return &cli.ExitError{Code: cli.ExitRunnerFail, Message: "AltWalker Error: " + err.Error()}
	}

	p := planner.NewOfflinePlanner(steps)
	return a.runWithPlanner(ctx, p)
}

// runWithPlanner builds an executor and reporters, drives a Walker to
// completion, and translates the result into the process exit taxonomy.
func (a *App) runWithPlanner(ctx context.Context, p planner.Planner) error {
	exec, cleanupExecutor, err := a.buildExecutor(ctx, a.cfg)
	if err != nil {
		code, message := executorErrorExitCode(err)
		return &cli.ExitError{Code: code, Message: message}
	}
	defer cleanupExecutor()

	reporting := a.buildReporters(a.cfg)

	w := walker.New(p, exec, reporting)
	status, err := w.Run(ctx)
	if err != nil {
		code, message := executorErrorExitCode(err)
		return &cli.ExitError{Code: code, Message: message}
	}

	if report := reporting.Report(); report != nil {
		a.logger.Debug("run report assembled", slog.Any("report", report))
	}

	if !status {
		return &cli.ExitError{Code: cli.ExitFailedTests, Message: "Tests failed."}
	}
	return nil
}
