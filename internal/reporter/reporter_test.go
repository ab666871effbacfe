package reporter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/altwalker/altwalker/internal/model"
)

func TestLogReporterEndLogsInterrupted(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	r := NewLogReporter(logger)

	r.End(model.Statistics{Steps: 2}, false, true)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decoding log line: %v", err)
	}
	if entry["interrupted"] != true {
		t.Errorf("interrupted = %v, want true", entry["interrupted"])
	}
	if entry["passed"] != false {
		t.Errorf("passed = %v, want false", entry["passed"])
	}
}

func TestReportingFansEndOutToEveryRegisteredReporter(t *testing.T) {
	r := NewReporting()
	a := &countingReporter{}
	b := &countingReporter{}
	_ = r.Register("a", a)
	_ = r.Register("b", b)

	r.End(model.Statistics{}, true, true)

	if !a.interrupted || !b.interrupted {
		t.Errorf("interrupted not propagated to every registered reporter: a=%v b=%v", a.interrupted, b.interrupted)
	}
}

func TestJUnitReporterEndSetsInterruptedAttribute(t *testing.T) {
	dir := t.TempDir() + "/report.xml"
	r := NewJUnitReporter(dir, nil)

	r.End(model.Statistics{}, false, true)

	report, ok := r.Report().(junitTestSuite)
	if !ok {
		t.Fatalf("Report() = %T, want junitTestSuite", r.Report())
	}
	if !report.Interrupted {
		t.Errorf("Interrupted = false, want true")
	}
	if !strings.Contains(dir, "report.xml") {
		t.Fatalf("unexpected temp path %q", dir)
	}
}

type countingReporter struct {
	Reporter
	interrupted bool
}

func (c *countingReporter) End(statistics model.Statistics, status, interrupted bool) {
	c.interrupted = interrupted
}
