// Package walker coordinates a test run: it asks a Planner for the next
// step, executes it (and its fixtures) against an Executor, propagates
// graph data changes back to the Planner, and reports progress through a
// Reporter.
//
// Grounded on original_source/altwalker/walker.py. The Python Walker is a
// generator (__iter__ yields each executed step); this port runs to
// completion and reports every step through the Reporter as it happens
// instead, since Go has no equivalent to a bare generator and the
// Reporter already receives every event Run needs to surface.
package walker

import (
	"context"
	"errors"
	"fmt"
	"time"

	walkererrors "github.com/altwalker/altwalker/internal/errors"
	"github.com/altwalker/altwalker/internal/executor"
	"github.com/altwalker/altwalker/internal/model"
	"github.com/altwalker/altwalker/internal/planner"
	"github.com/altwalker/altwalker/internal/reporter"
)

// teardownTimeout bounds tearDownModel/tearDownRun once the run's own
// context has already been cancelled, so best-effort teardown gets a
// fresh window instead of running against a context that is already done.
const teardownTimeout = 30 * time.Second

// Walker runs a single test session end to end.
type Walker struct {
	planner  planner.Planner
	executor executor.Executor
	reporter reporter.Interface

	status   bool
	abortErr error    // set when a transport/generator error must abort the run
	models   []string // models that had setUpModel run, in order, for teardown
}

// New builds a Walker. rep may be reporter.Reporter{} for a silent run.
func New(p planner.Planner, e executor.Executor, rep reporter.Interface) *Walker {
	if rep == nil {
		rep = reporter.Reporter{}
	}
	return &Walker{planner: p, executor: e, reporter: rep}
}

// Status reports whether the most recently completed run passed.
func (w *Walker) Status() bool { return w.status }

// Run drives the full test session: setUpRun, every generated step with
// its beforeStep/afterStep fixtures and setUpModel/tearDownModel around
// model transitions, then tearDownRun. It returns the final pass/fail
// status. Run returns an error for two kinds of conditions: startup
// failures that abort before any reporting can happen, and mid-run
// transport/generator failures (*errors.GeneratorError,
// *errors.ExecutorTransportError) or cancellation
// (*errors.Interrupted), which abort the loop, run teardown on a best
// effort basis, and then bubble out. Ordinary step and fixture test
// failures never produce a returned error; they are only reflected in
// the returned status and reported via the Reporter.
func (w *Walker) Run(ctx context.Context) (bool, error) {
	w.reporter.Start()

	if err := w.planner.Restart(ctx); err != nil {
		return false, fmt.Errorf("walker: restarting planner: %w", err)
	}
	if err := w.executor.Reset(ctx); err != nil {
		return false, fmt.Errorf("walker: resetting executor: %w", err)
	}

	w.status = w.executeFixture(ctx, "setUpRun", "", nil)

	if !w.status {
		w.finish(ctx)
		return w.status, w.abortErr
	}

	for w.status {
		if err := ctx.Err(); err != nil {
			w.status = false
			w.abortErr = &walkererrors.Interrupted{}
			w.reporter.Error(nil, w.abortErr.Error(), "")
			break
		}

		hasNext, err := w.planner.HasNext(ctx)
		if err != nil {
			w.reporter.Error(nil, err.Error(), "")
			w.status = false
			w.recordAbort(err)
			break
		}
		if !hasNext {
			break
		}

		step, err := w.planner.GetNext(ctx)
		if err != nil {
			w.reporter.Error(nil, err.Error(), "")
			w.status = false
			w.recordAbort(err)
			break
		}

		if !step.IsFixture() && !contains(w.models, step.ModelName) {
			w.status = w.executeFixture(ctx, "setUpModel", step.ModelName, nil)
			if w.status {
				w.models = append(w.models, step.ModelName)
			} else {
				break
			}
		}

		w.status = w.runStep(ctx, step)
	}

	teardownCtx := ctx
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		teardownCtx, cancel = context.WithTimeout(context.Background(), teardownTimeout)
		defer cancel()
	}

	teardownStatus := w.teardownModels(teardownCtx)
	w.status = w.status && teardownStatus

	runTeardownStatus := w.executeFixture(teardownCtx, "tearDownRun", "", nil)
	w.status = w.status && runTeardownStatus

	w.finish(ctx)
	return w.status, w.abortErr
}

// recordAbort classifies err as a transport/generator failure worth
// bubbling out of Run; the first such error wins, later ones (including
// teardown failures after an abort) are only reflected in status.
func (w *Walker) recordAbort(err error) {
	if w.abortErr != nil {
		return
	}
	var genErr *walkererrors.GeneratorError
	var transportErr *walkererrors.ExecutorTransportError
	if errors.As(err, &genErr) {
		w.abortErr = genErr
	} else if errors.As(err, &transportErr) {
		w.abortErr = transportErr
	}
}

func (w *Walker) finish(ctx context.Context) {
	stats, err := w.planner.Statistics(ctx)
	if err != nil {
		stats = model.Statistics{}
	}
	var interrupted *walkererrors.Interrupted
	w.reporter.End(stats, w.status, errors.As(w.abortErr, &interrupted))
}

// runStep executes a single step along with its beforeStep/afterStep
// fixtures. Anonymous vertices/edges (no name) are skipped, matching the
// original's "Skip vertices and edges without names".
func (w *Walker) runStep(ctx context.Context, step model.Step) bool {
	if step.Name == "" {
		return true
	}

	if !w.executeFixture(ctx, "beforeStep", "", &step) {
		return false
	}
	if !w.executeFixture(ctx, "beforeStep", step.ModelName, &step) {
		return false
	}

	stepStatus := w.executeTest(ctx, step)

	if !w.executeFixture(ctx, "afterStep", step.ModelName, &step) {
		return false
	}
	if !w.executeFixture(ctx, "afterStep", "", &step) {
		return false
	}

	return stepStatus
}

// executeTest runs the model step itself (not a fixture).
func (w *Walker) executeTest(ctx context.Context, step model.Step) bool {
	has, err := w.executor.HasStep(ctx, step.ModelName, step.Name)
	if err != nil {
		w.failAndReport(ctx, step, err.Error(), "")
		w.recordAbort(err)
		return false
	}
	if !has {
		w.failAndReport(ctx, step,
			"Step not found.\nUse the 'verify' command to validate the test code against the model(s).", "")
		return false
	}

	return w.executeStep(ctx, reporter.Step{
		Type:              "step",
		ID:                step.ID,
		Name:              step.Name,
		ModelName:         step.ModelName,
		UnvisitedElements: step.UnvisitedElements,
	}, step.ModelName, step.Name, &step)
}

// executeFixture runs a fixture hook if the executor defines it.
// modelName is empty for run-level fixtures (setUpRun, tearDownRun,
// global beforeStep/afterStep); current, if non-nil, is the step the
// fixture is bracketing.
func (w *Walker) executeFixture(ctx context.Context, name, modelName string, current *model.Step) bool {
	has, err := w.executor.HasStep(ctx, modelName, name)
	if err != nil {
		w.reportFixtureError(ctx, name, modelName, err.Error(), "")
		if failErr := w.planner.Fail(ctx, err.Error()); failErr != nil {
			w.reporter.Error(nil, failErr.Error(), "")
		}
		w.recordAbort(err)
		return false
	}
	if !has {
		return true
	}

	rs := reporter.Step{Type: "fixture", Name: name, ModelName: modelName}
	return w.executeStep(ctx, rs, modelName, name, current)
}

// executeStep runs a single named step or fixture against the executor,
// propagating graph data changes and reporting the result.
func (w *Walker) executeStep(ctx context.Context, rs reporter.Step, modelName, name string, current *model.Step) bool {
	dataBefore, err := w.planner.GetData(ctx)
	if err != nil {
		w.reporter.Error(&rs, err.Error(), "")
		w.recordAbort(err)
		return false
	}
	rs.Data = dataBefore

	w.reporter.StepStart(rs)
	result, err := w.executor.ExecuteStep(ctx, modelName, name, dataBefore, current)
	if err != nil {
		w.reportExecutorError(ctx, rs, err)
		w.recordAbort(err)
		return false
	}
	w.reporter.StepEnd(rs, result)

	if err := updateData(ctx, w.planner, dataBefore, result.Data); err != nil {
		w.reporter.Error(&rs, err.Error(), "")
		w.recordAbort(err)
		return false
	}

	if result.Failed() {
		if failErr := w.planner.Fail(ctx, result.Error.Message); failErr != nil {
			w.reporter.Error(&rs, failErr.Error(), "")
		}
		return false
	}
	return true
}

func (w *Walker) reportExecutorError(ctx context.Context, rs reporter.Step, err error) {
	message := err.Error()
	trace := ""

	var protoErr *walkererrors.ExecutorProtocolError
	if pe, ok := err.(*walkererrors.ExecutorProtocolError); ok {
		protoErr = pe
		message = pe.Message
		trace = pe.Trace
	}

	if failErr := w.planner.Fail(ctx, message); failErr != nil {
		w.reporter.Error(&rs, failErr.Error(), "")
	}
	w.reporter.Error(&rs, message, trace)

	if protoErr != nil && protoErr.Kind.Fatal() {
		// Fatal protocol errors (PathNotFound/LoadError/NoCodeLoaded)
		// abort the run; the caller's loop exits because status is false.
		return
	}
}

func (w *Walker) failAndReport(ctx context.Context, step model.Step, message, trace string) {
	rs := reporter.Step{Type: "step", ID: step.ID, Name: step.Name, ModelName: step.ModelName}
	if failErr := w.planner.Fail(ctx, message); failErr != nil {
		w.reporter.Error(&rs, failErr.Error(), "")
		return
	}
	w.reporter.Error(&rs, message, trace)
}

func (w *Walker) reportFixtureError(ctx context.Context, name, modelName, message, trace string) {
	rs := reporter.Step{Type: "fixture", Name: name, ModelName: modelName}
	w.reporter.Error(&rs, message, trace)
}

func (w *Walker) teardownModels(ctx context.Context) bool {
	status := true
	for _, m := range w.models {
		if !w.executeFixture(ctx, "tearDownModel", m, nil) {
			status = false
		}
	}
	w.models = nil
	return status
}

// updateData pushes every key in after that is new or changed relative to
// before back to the planner, stopping at the first failure.
func updateData(ctx context.Context, p planner.Planner, before, after map[string]string) error {
	if len(after) == 0 {
		return nil
	}
	for k, v := range after {
		if bv, ok := before[k]; !ok || bv != v {
			if err := p.SetData(ctx, k, v); err != nil {
				return fmt.Errorf("updating data key %q: %w", k, err)
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
