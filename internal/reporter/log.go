package reporter

import (
	"log/slog"

	"github.com/altwalker/altwalker/internal/model"
)

// LogReporter emits run and step lifecycle events through a *slog.Logger,
// the runner's replacement for original_source's click.echo-based
// ClickReporter.
type LogReporter struct {
	Reporter
	logger *slog.Logger
}

// NewLogReporter wraps logger. Pass ctxlog.FromContext(ctx) from the
// caller so the reporter picks up the run-scoped attrs already attached
// to it.
func NewLogReporter(logger *slog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

func (r *LogReporter) Start() {
	r.logger.Info("run started")
}

func (r *LogReporter) End(statistics model.Statistics, status, interrupted bool) {
	r.logger.Info("run finished",
		slog.Bool("passed", status),
		slog.Bool("interrupted", interrupted),
		slog.Int("steps", statistics.Steps),
		slog.Float64("edgeCoverage", statistics.EdgeCoverage),
		slog.Float64("vertexCoverage", statistics.VertexCoverage),
	)
}

func (r *LogReporter) StepStart(step Step) {
	attrs := []any{slog.String("step", step.label()), slog.String("type", step.Type)}
	if len(step.UnvisitedElements) > 0 {
		attrs = append(attrs, slog.Int("unvisitedElements", len(step.UnvisitedElements)))
	}
	r.logger.Info("step starting", attrs...)
}

func (r *LogReporter) StepEnd(step Step, result model.ExecutionResult) {
	if result.Failed() {
		r.logger.Error("step failed",
			slog.String("step", step.label()),
			slog.String("message", result.Error.Message),
		)
		return
	}
	r.logger.Info("step passed", slog.String("step", step.label()))
}

func (r *LogReporter) Error(step *Step, message, trace string) {
	attrs := []any{slog.String("message", message)}
	if step != nil {
		attrs = append(attrs, slog.String("step", step.label()))
	}
	r.logger.Error("unexpected error", attrs...)
}
