package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVertexIsAnonymousAndBlocked(t *testing.T) {
	v := Vertex{}
	if !v.IsAnonymous() {
		t.Error("IsAnonymous() = false, want true for unnamed vertex")
	}

	blocked := Vertex{Name: "v", Properties: map[string]any{"blocked": true}}
	if !blocked.IsBlocked() {
		t.Error("IsBlocked() = false, want true")
	}

	notBlocked := Vertex{Name: "v"}
	if notBlocked.IsBlocked() {
		t.Error("IsBlocked() = true, want false")
	}
}

func TestStepIsFixture(t *testing.T) {
	if (Step{Name: "setUpRun"}).IsFixture() != true {
		t.Error("fixture step with empty ModelName should be IsFixture()")
	}
	if (Step{Name: "v_start", ModelName: "Login"}).IsFixture() != false {
		t.Error("model step should not be IsFixture()")
	}
}

func TestModelSetMerge(t *testing.T) {
	a := ModelSet{Name: "a", Models: []Model{{Name: "Login"}}}
	b := ModelSet{Name: "b", Models: []Model{{Name: "Logout"}}}

	a.Merge(b)

	want := ModelSet{Name: "a", Models: []Model{{Name: "Login"}, {Name: "Logout"}}}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFilesConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	f1 := filepath.Join(dir, "a.json")
	f2 := filepath.Join(dir, "b.json")

	os.WriteFile(f1, []byte(`{"models":[{"id":"m1","name":"Login","vertices":[],"edges":[]}]}`), 0o644)
	os.WriteFile(f2, []byte(`{"models":[{"id":"m2","name":"Logout","vertices":[],"edges":[]}]}`), 0o644)

	ms, err := LoadFiles([]string{f1, f2})
	if err != nil {
		t.Fatalf("LoadFiles() error = %v", err)
	}
	if len(ms.Models) != 2 || ms.Models[0].Name != "Login" || ms.Models[1].Name != "Logout" {
		t.Errorf("ms.Models = %+v, want [Login, Logout] in order", ms.Models)
	}
}

func TestLoadFileRejectsGraphML(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "model.graphml")
	os.WriteFile(f, []byte("<graphml/>"), 0o644)

	if _, err := LoadFile(f); err == nil {
		t.Fatal("LoadFile() = nil, want error for .graphml")
	}
}

func TestExecutionResultFailed(t *testing.T) {
	if (ExecutionResult{}).Failed() {
		t.Error("Failed() = true, want false for nil Error")
	}
	if !(ExecutionResult{Error: &StepError{Message: "boom"}}).Failed() {
		t.Error("Failed() = false, want true")
	}
}
