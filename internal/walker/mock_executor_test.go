package walker

import (
	"context"
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/altwalker/altwalker/internal/model"
)

// MockExecutor is a gomock double for executor.Executor, hand-written in
// the shape mockgen would generate for that interface. Kept here rather
// than in internal/executor to avoid an import cycle (executor has no
// reason to depend on walker, and this mock exists only to exercise
// walker's ordering guarantees under scripted expectations).
type MockExecutor struct {
	ctrl     *gomock.Controller
	recorder *MockExecutorMockRecorder
}

type MockExecutorMockRecorder struct {
	mock *MockExecutor
}

func NewMockExecutor(ctrl *gomock.Controller) *MockExecutor {
	m := &MockExecutor{ctrl: ctrl}
	m.recorder = &MockExecutorMockRecorder{m}
	return m
}

func (m *MockExecutor) EXPECT() *MockExecutorMockRecorder { return m.recorder }

func (m *MockExecutor) Kill() {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Kill")
}

func (r *MockExecutorMockRecorder) Kill() *gomock.Call {
	r.mock.ctrl.T.Helper()
	return r.mock.ctrl.RecordCallWithMethodType(r.mock, "Kill", reflect.TypeOf((*MockExecutor)(nil).Kill))
}

func (m *MockExecutor) Reset(ctx context.Context) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Reset", ctx)
	err, _ := ret[0].(error)
	return err
}

func (r *MockExecutorMockRecorder) Reset(ctx any) *gomock.Call {
	r.mock.ctrl.T.Helper()
	return r.mock.ctrl.RecordCallWithMethodType(r.mock, "Reset", reflect.TypeOf((*MockExecutor)(nil).Reset), ctx)
}

func (m *MockExecutor) Load(ctx context.Context, path string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Load", ctx, path)
	err, _ := ret[0].(error)
	return err
}

func (r *MockExecutorMockRecorder) Load(ctx, path any) *gomock.Call {
	r.mock.ctrl.T.Helper()
	return r.mock.ctrl.RecordCallWithMethodType(r.mock, "Load", reflect.TypeOf((*MockExecutor)(nil).Load), ctx, path)
}

func (m *MockExecutor) HasModel(ctx context.Context, modelName string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HasModel", ctx, modelName)
	ok, _ := ret[0].(bool)
	err, _ := ret[1].(error)
	return ok, err
}

func (r *MockExecutorMockRecorder) HasModel(ctx, modelName any) *gomock.Call {
	r.mock.ctrl.T.Helper()
	return r.mock.ctrl.RecordCallWithMethodType(r.mock, "HasModel", reflect.TypeOf((*MockExecutor)(nil).HasModel), ctx, modelName)
}

func (m *MockExecutor) HasStep(ctx context.Context, modelName, name string) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HasStep", ctx, modelName, name)
	ok, _ := ret[0].(bool)
	err, _ := ret[1].(error)
	return ok, err
}

func (r *MockExecutorMockRecorder) HasStep(ctx, modelName, name any) *gomock.Call {
	r.mock.ctrl.T.Helper()
	return r.mock.ctrl.RecordCallWithMethodType(r.mock, "HasStep", reflect.TypeOf((*MockExecutor)(nil).HasStep), ctx, modelName, name)
}

func (m *MockExecutor) ExecuteStep(ctx context.Context, modelName, name string, data map[string]string, step *model.Step) (model.ExecutionResult, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ExecuteStep", ctx, modelName, name, data, step)
	res, _ := ret[0].(model.ExecutionResult)
	err, _ := ret[1].(error)
	return res, err
}

func (r *MockExecutorMockRecorder) ExecuteStep(ctx, modelName, name, data, step any) *gomock.Call {
	r.mock.ctrl.T.Helper()
	return r.mock.ctrl.RecordCallWithMethodType(r.mock, "ExecuteStep", reflect.TypeOf((*MockExecutor)(nil).ExecuteStep), ctx, modelName, name, data, step)
}
