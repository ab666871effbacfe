package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/altwalker/altwalker/internal/cli"
)

func TestNewLoggerRespectsLevel(t *testing.T) {
	out := &bytes.Buffer{}
	cfg := &cli.Config{Command: "check", LogLevel: "warn", LogFormat: "text"}
	a := NewApp(out, cfg)

	a.Logger().Info("should be filtered out")
	if out.Len() != 0 {
		t.Errorf("output = %q, want empty at warn level", out.String())
	}

	a.Logger().Warn("should appear")
	if out.Len() == 0 {
		t.Error("expected warn-level output, got none")
	}
}

func TestLoadAndValidateModelsRejectsBadSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	if err := os.WriteFile(path, []byte(`{"unknownField": true}`), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewApp(&bytes.Buffer{}, &cli.Config{
		Command: "check",
		Models:  []cli.ModelArg{{Path: path, StopCondition: "random(never)"}},
	})

	_, err := a.loadAndValidateModels(a.cfg)
	if err == nil {
		t.Fatal("loadAndValidateModels() = nil, want error")
	}
	exitErr, ok := err.(*cli.ExitError)
	if !ok {
		t.Fatalf("error is %T, want *cli.ExitError", err)
	}
	if exitErr.Code != cli.ExitRunnerFail {
		t.Errorf("Code = %d, want %d", exitErr.Code, cli.ExitRunnerFail)
	}
}

func TestLoadAndValidateModelsAcceptsValidSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	valid := `{
		"models": [{
			"id": "m1",
			"name": "Login",
			"vertices": [{"id": "v0", "name": "v_start"}],
			"edges": []
		}]
	}`
	if err := os.WriteFile(path, []byte(valid), 0o644); err != nil {
		t.Fatal(err)
	}

	a := NewApp(&bytes.Buffer{}, &cli.Config{
		Command: "check",
		Models:  []cli.ModelArg{{Path: path, StopCondition: "random(never)"}},
	})

	ms, err := a.loadAndValidateModels(a.cfg)
	if err != nil {
		t.Fatalf("loadAndValidateModels() error = %v", err)
	}
	if len(ms.Models) != 1 || ms.Models[0].Name != "Login" {
		t.Errorf("ms = %+v, want one model named Login", ms)
	}
}

func TestBuildReportersRegistersOptedInSinks(t *testing.T) {
	dir := t.TempDir()
	a := NewApp(&bytes.Buffer{}, &cli.Config{Command: "online", LogLevel: "info", LogFormat: "text"})

	cfg := &cli.Config{
		ReportFile:     filepath.Join(dir, "report.txt"),
		ReportPathFile: filepath.Join(dir, "path.json"),
		ReportXML:      true,
		ReportXMLFile:  filepath.Join(dir, "report.xml"),
	}

	reporting := a.buildReporters(cfg)
	report, ok := reporting.Report().(map[string]any)
	if !ok {
		t.Fatalf("Report() = %T, want map[string]any", reporting.Report())
	}

	for _, key := range []string{"path", "junit"} {
		if _, ok := report[key]; !ok {
			t.Errorf("Report() missing key %q, got %v", key, report)
		}
	}
}
