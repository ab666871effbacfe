// Package executor runs individual steps against test code: either an
// HTTP service speaking the AltWalker executor wire protocol, or a no-op
// stand-in used while only path generation is being exercised.
//
// Grounded on original_source/altwalker/executor.py. The Python source
// also ships a PythonExecutor that loads test code in-process via
// importlib and a DotnetExecutor that compiles and co-spawns a .NET
// console app; this runner only ever talks to test code over the wire
// protocol (HttpExecutor), since co-spawning test code written in an
// arbitrary language is exactly what HttpExecutor already generalizes to.
package executor

import (
	"context"

	"github.com/altwalker/altwalker/internal/model"
)

// Executor runs steps against loaded test code.
type Executor interface {
	// Kill releases any process the executor owns.
	Kill()
	// Reset clears any per-run state the test code holds (e.g. class
	// instances instantiated lazily on first use).
	Reset(ctx context.Context) error
	// Load points the executor at a path containing test code.
	Load(ctx context.Context, path string) error
	// HasModel reports whether the loaded test code defines the named
	// model.
	HasModel(ctx context.Context, modelName string) (bool, error)
	// HasStep reports whether the loaded test code defines the named
	// step. modelName is empty for fixtures.
	HasStep(ctx context.Context, modelName, name string) (bool, error)
	// ExecuteStep runs a single step and returns its result.
	ExecuteStep(ctx context.Context, modelName, name string, data map[string]string, step *model.Step) (model.ExecutionResult, error)
}
