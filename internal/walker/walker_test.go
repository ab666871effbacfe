package walker

import (
	"context"
	"testing"

	"github.com/altwalker/altwalker/internal/model"
	"github.com/altwalker/altwalker/internal/reporter"
)

// fakePlanner replays a fixed path and records Fail/SetData calls.
type fakePlanner struct {
	path     []model.Step
	position int
	data     map[string]string
	failed   []string
}

func newFakePlanner(path []model.Step) *fakePlanner {
	return &fakePlanner{path: path, data: map[string]string{}}
}

func (p *fakePlanner) Kill()                                              {}
func (p *fakePlanner) Load(ctx context.Context, ms model.ModelSet) error  { return nil }
func (p *fakePlanner) HasNext(ctx context.Context) (bool, error) {
	return p.position < len(p.path), nil
}
func (p *fakePlanner) GetNext(ctx context.Context) (model.Step, error) {
	s := p.path[p.position]
	p.position++
	return s, nil
}
func (p *fakePlanner) GetData(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(p.data))
	for k, v := range p.data {
		out[k] = v
	}
	return out, nil
}
func (p *fakePlanner) SetData(ctx context.Context, key string, value any) error {
	p.data[key] = value.(string)
	return nil
}
func (p *fakePlanner) Restart(ctx context.Context) error { p.position = 0; return nil }
func (p *fakePlanner) Fail(ctx context.Context, message string) error {
	p.failed = append(p.failed, message)
	return nil
}
func (p *fakePlanner) Statistics(ctx context.Context) (model.Statistics, error) {
	return model.Statistics{Steps: p.position}, nil
}

// fakeExecutor has a fixed set of known steps/fixtures and scripted
// failures keyed by "modelName.name".
type fakeExecutor struct {
	known    map[string]bool
	fail     map[string]string
	executed []string
}

func newFakeExecutor(known ...string) *fakeExecutor {
	k := make(map[string]bool, len(known))
	for _, name := range known {
		k[name] = true
	}
	return &fakeExecutor{known: k, fail: map[string]string{}}
}

func key(modelName, name string) string {
	if modelName == "" {
		return name
	}
	return modelName + "." + name
}

func (e *fakeExecutor) Kill()                                     {}
func (e *fakeExecutor) Reset(ctx context.Context) error           { return nil }
func (e *fakeExecutor) Load(ctx context.Context, path string) error { return nil }
func (e *fakeExecutor) HasModel(ctx context.Context, modelName string) (bool, error) {
	return true, nil
}
func (e *fakeExecutor) HasStep(ctx context.Context, modelName, name string) (bool, error) {
	return e.known[key(modelName, name)], nil
}
func (e *fakeExecutor) ExecuteStep(ctx context.Context, modelName, name string, data map[string]string, step *model.Step) (model.ExecutionResult, error) {
	e.executed = append(e.executed, key(modelName, name))
	if msg, ok := e.fail[key(modelName, name)]; ok {
		return model.ExecutionResult{Output: "", Error: &model.StepError{Message: msg}}, nil
	}
	return model.ExecutionResult{Output: "ok"}, nil
}

// recordingReporter captures End's final status for assertions.
type recordingReporter struct {
	reporter.Reporter
	ended       bool
	status      bool
	interrupted bool
	errors      []string
}

func (r *recordingReporter) End(statistics model.Statistics, status, interrupted bool) {
	r.ended = true
	r.status = status
	r.interrupted = interrupted
}

func (r *recordingReporter) Error(step *reporter.Step, message, trace string) {
	r.errors = append(r.errors, message)
}

func TestWalkerRunsEveryStepAndPasses(t *testing.T) {
	ctx := context.Background()
	path := []model.Step{
		{ID: "v0", Name: "v_start", ModelName: "Login"},
		{ID: "e0", Name: "login", ModelName: "Login"},
		{ID: "v1", Name: "v_loggedIn", ModelName: "Login"},
	}
	p := newFakePlanner(path)
	e := newFakeExecutor("Login.v_start", "Login.login", "Login.v_loggedIn")
	rep := &recordingReporter{}

	w := New(p, e, rep)
	status, err := w.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !status {
		t.Errorf("status = false, want true")
	}
	if !rep.ended || !rep.status {
		t.Errorf("reporter.End not called with passing status")
	}

	wantExecuted := []string{"Login.v_start", "Login.login", "Login.v_loggedIn"}
	if len(e.executed) != len(wantExecuted) {
		t.Fatalf("executed = %v, want %v", e.executed, wantExecuted)
	}
	for i, name := range wantExecuted {
		if e.executed[i] != name {
			t.Errorf("executed[%d] = %q, want %q", i, e.executed[i], name)
		}
	}
}

func TestWalkerStepNotFoundFailsRun(t *testing.T) {
	ctx := context.Background()
	path := []model.Step{{ID: "v0", Name: "v_missing", ModelName: "Login"}}
	p := newFakePlanner(path)
	e := newFakeExecutor() // nothing known
	rep := &recordingReporter{}

	w := New(p, e, rep)
	status, err := w.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status {
		t.Errorf("status = true, want false")
	}
	if len(p.failed) == 0 {
		t.Errorf("planner.Fail was never called")
	}
	if len(rep.errors) == 0 {
		t.Errorf("reporter.Error was never called")
	}
}

func TestWalkerStepFailurePropagatesToStatus(t *testing.T) {
	ctx := context.Background()
	path := []model.Step{{ID: "v0", Name: "v_start", ModelName: "Login"}}
	p := newFakePlanner(path)
	e := newFakeExecutor("Login.v_start")
	e.fail["Login.v_start"] = "assertion failed"
	rep := &recordingReporter{}

	w := New(p, e, rep)
	status, err := w.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status {
		t.Errorf("status = true, want false")
	}
	if len(p.failed) == 0 || p.failed[0] != "assertion failed" {
		t.Errorf("planner.failed = %v, want [\"assertion failed\"]", p.failed)
	}
}

func TestWalkerRunsFixturesAroundSteps(t *testing.T) {
	ctx := context.Background()
	path := []model.Step{{ID: "v0", Name: "v_start", ModelName: "Login"}}
	p := newFakePlanner(path)
	e := newFakeExecutor("setUpRun", "tearDownRun", "Login.setUpModel", "Login.tearDownModel",
		"beforeStep", "Login.beforeStep", "Login.v_start", "Login.afterStep", "afterStep")
	rep := &recordingReporter{}

	w := New(p, e, rep)
	status, err := w.Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !status {
		t.Errorf("status = false, want true")
	}

	want := []string{"setUpRun", "Login.setUpModel", "beforeStep", "Login.beforeStep", "Login.v_start",
		"Login.afterStep", "afterStep", "Login.tearDownModel", "tearDownRun"}
	if len(e.executed) != len(want) {
		t.Fatalf("executed = %v, want %v", e.executed, want)
	}
	for i, name := range want {
		if e.executed[i] != name {
			t.Errorf("executed[%d] = %q, want %q", i, e.executed[i], name)
		}
	}
}
