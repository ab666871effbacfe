// Package reporter fans run and step lifecycle events out to one or more
// sinks: structured logs, a JSON path file, a JUnit XML file.
//
// Grounded on original_source/altwalker/reporter.py's Reporter/Reporting
// base classes, adapted from click.echo-based console output to the
// runner's own slog logging (see internal/ctxlog), since the corpus has
// no CLI color/echo library and the ambient stack already standardizes
// on slog for everything else.
package reporter

import (
	"fmt"

	"github.com/altwalker/altwalker/internal/model"
)

// Step is the subset of step/fixture identity the reporter needs; it is
// deliberately smaller than model.Step because fixtures (setUpRun, ...)
// have no model element backing them.
type Step struct {
	Type              string // "step" or "fixture"
	ID                string
	Name              string
	ModelName         string
	Data              map[string]string
	UnvisitedElements []string
}

func (s Step) label() string {
	switch {
	case s.ModelName != "" && s.Name != "":
		return fmt.Sprintf("%s.%s", s.ModelName, s.Name)
	case s.Name != "":
		return s.Name
	default:
		return "<unnamed>"
	}
}

// Reporter receives run and step lifecycle events. Every method is a
// no-op by default via Reporter's zero value, mirroring the Python base
// class's do-nothing methods: embed Reporter in a concrete type and only
// override what it reports.
type Reporter struct{}

func (Reporter) Start()                                                    {}
func (Reporter) End(statistics model.Statistics, status, interrupted bool) {}
func (Reporter) StepStart(step Step)                                       {}
func (Reporter) StepEnd(step Step, result model.ExecutionResult)           {}
func (Reporter) Error(step *Step, message, trace string)                   {}
func (Reporter) Report() any                                               { return nil }

// Interface is the contract Reporting fans events out to. End's
// interrupted flag is distinct from status: a run can be interrupted
// with every step so far having passed, and status only ever reflects
// whether a check failed.
type Interface interface {
	Start()
	End(statistics model.Statistics, status, interrupted bool)
	StepStart(step Step)
	StepEnd(step Step, result model.ExecutionResult)
	Error(step *Step, message, trace string)
	Report() any
}

var _ Interface = Reporter{}
