package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroValue(t *testing.T) {
	d, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if d != (Defaults{}) {
		t.Errorf("Load() = %+v, want zero value", d)
	}
}

func TestLoadParsesProjectFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "altwalker.yaml")
	writeFile(t, path, `
generator:
  host: localhost
  port: 8887
executor:
  type: http
  url: http://localhost:5000
log:
  format: json
  level: debug
`)

	d, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if d.Generator.Host != "localhost" || d.Generator.Port != 8887 {
		t.Errorf("Generator = %+v, want localhost:8887", d.Generator)
	}
	if d.Executor.Type != "http" || d.Executor.URL != "http://localhost:5000" {
		t.Errorf("Executor = %+v, want http/http://localhost:5000", d.Executor)
	}
	if d.Log.Format != "json" || d.Log.Level != "debug" {
		t.Errorf("Log = %+v, want json/debug", d.Log)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "altwalker.yaml")
	writeFile(t, path, "generator: [unterminated")

	if _, err := Load(path); err == nil {
		t.Fatal("Load() = nil error, want error for malformed yaml")
	}
}

func TestOrAndOrInt(t *testing.T) {
	if got := Or("", "fallback"); got != "fallback" {
		t.Errorf("Or(\"\", ...) = %q, want fallback", got)
	}
	if got := Or("set", "fallback"); got != "set" {
		t.Errorf("Or(\"set\", ...) = %q, want set", got)
	}
	if got := OrInt(0, 42); got != 42 {
		t.Errorf("OrInt(0, ...) = %d, want 42", got)
	}
	if got := OrInt(7, 42); got != 7 {
		t.Errorf("OrInt(7, ...) = %d, want 7", got)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile(%q) error = %v", path, err)
	}
}
