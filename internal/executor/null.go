package executor

import (
	"context"

	"github.com/altwalker/altwalker/internal/model"
)

// NullExecutor reports every model and step as present and returns an
// empty successful result for every step, without ever making a network
// call. It backs the offline walk-without-executing-code path, used when
// only the generated path and fixture ordering need checking.
type NullExecutor struct{}

func (NullExecutor) Kill() {}

func (NullExecutor) Reset(ctx context.Context) error { return nil }

func (NullExecutor) Load(ctx context.Context, path string) error { return nil }

func (NullExecutor) HasModel(ctx context.Context, modelName string) (bool, error) { return true, nil }

func (NullExecutor) HasStep(ctx context.Context, modelName, name string) (bool, error) {
	return true, nil
}

func (NullExecutor) ExecuteStep(ctx context.Context, modelName, name string, data map[string]string, step *model.Step) (model.ExecutionResult, error) {
	return model.ExecutionResult{Output: "", Data: data}, nil
}
