package reporter

import (
	"encoding/json"
	"log/slog"
	"os"
	"sync"

	"github.com/altwalker/altwalker/internal/model"
)

// PathReporter records every executed step (fixtures excluded) and writes
// them as a JSON array to file when the run ends.
type PathReporter struct {
	Reporter
	file   string
	logger *slog.Logger

	mu   sync.Mutex
	path []Step
}

// NewPathReporter returns a reporter that writes the executed path to
// file once the run ends. logger reports a write failure at End time,
// since Interface.End has no error return to surface it through.
func NewPathReporter(file string, logger *slog.Logger) *PathReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PathReporter{file: file, logger: logger}
}

func (r *PathReporter) StepEnd(step Step, result model.ExecutionResult) {
	if step.ID == "" {
		return
	}
	r.mu.Lock()
	r.path = append(r.path, step)
	r.mu.Unlock()
}

func (r *PathReporter) End(statistics model.Statistics, status, interrupted bool) {
	r.mu.Lock()
	path := append([]Step(nil), r.path...)
	r.mu.Unlock()

	raw, err := json.MarshalIndent(path, "", "    ")
	if err != nil {
		r.logger.Error("could not encode execution path", slog.Any("error", err))
		return
	}
	if err := os.WriteFile(r.file, raw, 0o644); err != nil {
		r.logger.Error("could not write execution path file", slog.String("file", r.file), slog.Any("error", err))
	}
}

// Report returns the recorded path.
func (r *PathReporter) Report() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Step(nil), r.path...)
}
