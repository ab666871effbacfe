package reporter

import (
	"encoding/xml"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/altwalker/altwalker/internal/model"
)

// JUnitReporter writes a JUnit-style XML report. There is no JUnit/XML
// library anywhere in the example corpus to ground this on, and the
// format is a handful of fixed elements, so it's built directly on
// encoding/xml rather than reached for from a dependency.
type JUnitReporter struct {
	file   string
	logger *slog.Logger

	mu        sync.Mutex
	suite     junitTestSuite
	stepStart time.Time
}

type junitTestSuite struct {
	XMLName     xml.Name        `xml:"testsuite"`
	Name        string          `xml:"name,attr"`
	Tests       int             `xml:"tests,attr"`
	Failures    int             `xml:"failures,attr"`
	Errors      int             `xml:"errors,attr"`
	Time        float64         `xml:"time,attr"`
	Interrupted bool            `xml:"interrupted,attr,omitempty"`
	TestCases   []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name    string        `xml:"name,attr"`
	Time    float64       `xml:"time,attr"`
	Failure *junitFailure `xml:"failure,omitempty"`
	Error   *junitFailure `xml:"error,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Trace   string `xml:",chardata"`
}

// NewJUnitReporter returns a reporter that writes a JUnit XML report to
// file once the run ends.
func NewJUnitReporter(file string, logger *slog.Logger) *JUnitReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JUnitReporter{file: file, logger: logger, suite: junitTestSuite{Name: "altwalker"}}
}

func (r *JUnitReporter) Start() {}

func (r *JUnitReporter) StepStart(step Step) {
	r.mu.Lock()
	r.stepStart = time.Now()
	r.mu.Unlock()
}

func (r *JUnitReporter) StepEnd(step Step, result model.ExecutionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.stepStart).Seconds()
	tc := junitTestCase{Name: step.label(), Time: elapsed}

	if result.Failed() {
		tc.Failure = &junitFailure{Message: result.Error.Message, Trace: result.Error.Trace}
		r.suite.Failures++
	}

	r.suite.Tests++
	r.suite.Time += elapsed
	r.suite.TestCases = append(r.suite.TestCases, tc)
}

func (r *JUnitReporter) Error(step *Step, message, trace string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := "<run>"
	if step != nil {
		name = step.label()
	}
	r.suite.Errors++
	r.suite.Tests++
	r.suite.TestCases = append(r.suite.TestCases, junitTestCase{
		Name:  name,
		Error: &junitFailure{Message: message, Trace: trace},
	})
}

func (r *JUnitReporter) End(statistics model.Statistics, status, interrupted bool) {
	r.mu.Lock()
	r.suite.Interrupted = interrupted
	suite := r.suite
	r.mu.Unlock()

	raw, err := xml.MarshalIndent(suite, "", "  ")
	if err != nil {
		r.logger.Error("could not encode junit report", slog.Any("error", err))
		return
	}
	raw = append([]byte(xml.Header), raw...)
	if err := os.WriteFile(r.file, raw, 0o644); err != nil {
		r.logger.Error("could not write junit report file", slog.String("file", r.file), slog.Any("error", err))
	}
}

func (r *JUnitReporter) Report() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.suite
}
