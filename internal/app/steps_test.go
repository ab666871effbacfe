package app

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/altwalker/altwalker/internal/model"
)

func TestWriteAndLoadStepsRoundTrip(t *testing.T) {
	steps := []model.Step{
		{ID: "v0", Name: "v_start", ModelName: "Login"},
		{ID: "e0", Name: "login", ModelName: "Login"},
	}

	path := filepath.Join(t.TempDir(), "path.json")
	if err := writeSteps(steps, path, nil); err != nil {
		t.Fatalf("writeSteps() error = %v", err)
	}

	got, err := loadSteps(path)
	if err != nil {
		t.Fatalf("loadSteps() error = %v", err)
	}
	if diff := cmp.Diff(steps, got); diff != "" {
		t.Errorf("loadSteps() mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteStepsToStdoutWhenPathEmpty(t *testing.T) {
	steps := []model.Step{{ID: "v0", Name: "v_start", ModelName: "Login"}}
	out := &bytes.Buffer{}

	if err := writeSteps(steps, "", out); err != nil {
		t.Fatalf("writeSteps() error = %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected output to be written to the writer, got none")
	}
}

func TestLoadStepsRejectsMissingFile(t *testing.T) {
	if _, err := loadSteps(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("loadSteps() = nil, want error")
	}
}
