package codeverifier

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/altwalker/altwalker/internal/model"
)

func TestRequiredMethodsDedupsSkipsAnonymousPreservesOrder(t *testing.T) {
	ms := model.ModelSet{Models: []model.Model{
		{
			Name: "Login",
			Vertices: []model.Vertex{
				{Name: "v_loggedIn"}, {Name: "v_start"}, {},
			},
			Edges: []model.Edge{
				{Name: "login"}, {Name: "v_start"}, // duplicate with a vertex name
			},
		},
	}}

	got := RequiredMethods(ms, false)
	want := []ModelMethods{{ModelName: "Login", Methods: []string{"v_loggedIn", "v_start", "login"}}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RequiredMethods() mismatch (-want +got):\n%s", diff)
	}
}

func TestRequiredMethodsSkipsBlocked(t *testing.T) {
	ms := model.ModelSet{Models: []model.Model{
		{
			Name: "Login",
			Vertices: []model.Vertex{
				{Name: "v_start"},
				{Name: "v_blocked", Blocked: true},
			},
		},
	}}

	got := RequiredMethods(ms, true)
	want := []ModelMethods{{ModelName: "Login", Methods: []string{"v_start"}}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RequiredMethods() mismatch (-want +got):\n%s", diff)
	}
}

func TestRequiredMethodsPreservesModelDeclarationOrder(t *testing.T) {
	ms := model.ModelSet{Models: []model.Model{
		{Name: "Zeta", Vertices: []model.Vertex{{Name: "v_start"}}},
		{Name: "Alpha", Vertices: []model.Vertex{{Name: "v_start"}}},
	}}

	got := RequiredMethods(ms, false)
	want := []ModelMethods{
		{ModelName: "Zeta", Methods: []string{"v_start"}},
		{ModelName: "Alpha", Methods: []string{"v_start"}},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RequiredMethods() mismatch (-want +got):\n%s", diff)
	}
}

type fakeExecutor struct {
	models map[string]bool
	steps  map[string]bool
}

func (f *fakeExecutor) Kill()                                       {}
func (f *fakeExecutor) Reset(ctx context.Context) error             { return nil }
func (f *fakeExecutor) Load(ctx context.Context, path string) error { return nil }
func (f *fakeExecutor) HasModel(ctx context.Context, name string) (bool, error) {
	return f.models[name], nil
}
func (f *fakeExecutor) HasStep(ctx context.Context, modelName, name string) (bool, error) {
	return f.steps[modelName+"."+name], nil
}
func (f *fakeExecutor) ExecuteStep(ctx context.Context, modelName, name string, data map[string]string, step *model.Step) (model.ExecutionResult, error) {
	return model.ExecutionResult{}, nil
}

func TestVerifyReportsMissingClassesAndMethods(t *testing.T) {
	exec := &fakeExecutor{
		models: map[string]bool{"Login": true},
		steps:  map[string]bool{"Login.v_start": true},
	}
	methods := []ModelMethods{
		{ModelName: "Login", Methods: []string{"v_start", "v_loggedIn"}},
		{ModelName: "Logout", Methods: []string{"v_start"}},
	}

	err := Verify(context.Background(), exec, methods)
	if err == nil {
		t.Fatal("Verify() = nil, want error")
	}

	var verr *ValidationError
	if e, ok := err.(*ValidationError); ok {
		verr = e
	} else {
		t.Fatalf("error is %T, want *ValidationError", err)
	}

	if len(verr.Missing) != 3 {
		t.Fatalf("Missing = %v, want 3 entries", verr.Missing)
	}
}

func TestVerifyPassesWhenEverythingPresent(t *testing.T) {
	exec := &fakeExecutor{
		models: map[string]bool{"Login": true},
		steps:  map[string]bool{"Login.v_start": true},
	}
	methods := []ModelMethods{{ModelName: "Login", Methods: []string{"v_start"}}}

	if err := Verify(context.Background(), exec, methods); err != nil {
		t.Errorf("Verify() = %v, want nil", err)
	}
}
