// Package errors defines the error taxonomy used across the runner. Each
// kind is a distinct Go type rather than a shared "code" field, so callers
// can use errors.As to branch on the specific failure instead of comparing
// strings.
package errors

import "fmt"

// ValidationError aggregates every violation found while validating a model
// set. It is never raised mid-run: validation happens before a Walker is
// constructed.
type ValidationError struct {
	Violations []Violation
}

// Violation is a single validation failure, tagged with the offending
// element id so the message can be traced back to the model file.
type Violation struct {
	ElementID string
	Message   string
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("validation error: %s: %s", e.Violations[0].ElementID, e.Violations[0].Message)
	}
	return fmt.Sprintf("validation error: %d violations", len(e.Violations))
}

// GeneratorError signals that the path-generator subprocess failed to
// start, crashed, or returned an ill-formed or failure envelope. Fatal for
// the current run.
type GeneratorError struct {
	Message  string
	ExitCode int
	LogTail  string
	Err      error
}

func (e *GeneratorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generator error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("generator error: %s", e.Message)
}

func (e *GeneratorError) Unwrap() error { return e.Err }

// ExecutorTransportError is raised for transport-level failures talking to
// the executor (connection refused, timeout, malformed envelope) that are
// unrelated to the wire protocol's own error codes. Fatal for the current
// run.
type ExecutorTransportError struct {
	Message string
	Err     error
}

func (e *ExecutorTransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("executor transport error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("executor transport error: %s", e.Message)
}

func (e *ExecutorTransportError) Unwrap() error { return e.Err }

// ProtocolKind enumerates the typed executor protocol failures carried by
// the executor HTTP wire protocol's reserved status codes.
type ProtocolKind int

const (
	PathNotFound ProtocolKind = iota
	LoadError
	NoCodeLoaded
	ModelNotFound
	StepNotFound
	InvalidStepHandler
	Unhandled
)

func (k ProtocolKind) String() string {
	switch k {
	case PathNotFound:
		return "PathNotFound"
	case LoadError:
		return "LoadError"
	case NoCodeLoaded:
		return "NoCodeLoaded"
	case ModelNotFound:
		return "ModelNotFound"
	case StepNotFound:
		return "StepNotFound"
	case InvalidStepHandler:
		return "InvalidStepHandler"
	case Unhandled:
		return "Unhandled"
	default:
		return "Unknown"
	}
}

// Fatal reports whether this protocol kind must abort the run immediately
// (PathNotFound, LoadError, NoCodeLoaded) as opposed to merely failing the
// current step (ModelNotFound, StepNotFound, InvalidStepHandler, Unhandled).
func (k ProtocolKind) Fatal() bool {
	switch k {
	case PathNotFound, LoadError, NoCodeLoaded:
		return true
	default:
		return false
	}
}

// ExecutorProtocolError is raised when the executor's HTTP response carries
// one of the reserved protocol status codes (460-465, 500).
type ExecutorProtocolError struct {
	Kind    ProtocolKind
	Message string
	Trace   string
}

func (e *ExecutorProtocolError) Error() string {
	return fmt.Sprintf("executor protocol error (%s): %s", e.Kind, e.Message)
}

// StepFailure represents a 200 response whose payload carries a non-nil
// error object: the step itself ran but the test code raised.
type StepFailure struct {
	Message string
	Trace   string
}

func (e *StepFailure) Error() string {
	return fmt.Sprintf("step failed: %s", e.Message)
}

// FixtureFailure represents an exception raised from within a fixture
// (setUpRun, tearDownModel, beforeStep, ...).
type FixtureFailure struct {
	Fixture string
	Model   string
	Message string
	Trace   string
}

func (e *FixtureFailure) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("fixture %q for model %q failed: %s", e.Fixture, e.Model, e.Message)
	}
	return fmt.Sprintf("fixture %q failed: %s", e.Fixture, e.Message)
}

// Interrupted signals that the run was cancelled by the host before the
// planner was exhausted. Distinct from a failed run: partial progress was
// made and is reflected in the final report.
type Interrupted struct {
	Message string
}

func (e *Interrupted) Error() string {
	if e.Message == "" {
		return "run interrupted"
	}
	return fmt.Sprintf("run interrupted: %s", e.Message)
}
