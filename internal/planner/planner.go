// Package planner supplies steps to the walker: either generated live by
// an external GraphWalker service (OnlinePlanner) or replayed from a
// pre-computed path (OfflinePlanner).
//
// Grounded on original_source/altwalker/planner.py.
package planner

import (
	"context"

	"github.com/altwalker/altwalker/internal/model"
)

// Planner is the source of truth for which step the walker executes next.
type Planner interface {
	// Kill releases any process or connection the planner owns.
	Kill()
	// Load uploads a model set. A no-op for planners that don't own a
	// live generator connection.
	Load(ctx context.Context, ms model.ModelSet) error
	// HasNext reports whether another step is available.
	HasNext(ctx context.Context) (bool, error)
	// GetNext returns the next step in the path.
	GetNext(ctx context.Context) (model.Step, error)
	// GetData returns the current graph data for the current model.
	GetData(ctx context.Context) (map[string]string, error)
	// SetData updates a single graph-data key.
	SetData(ctx context.Context, key string, value any) error
	// Restart resets the path position and statistics.
	Restart(ctx context.Context) error
	// Fail marks the last step as failed.
	Fail(ctx context.Context, message string) error
	// Statistics reports path/failure coverage for the current run.
	Statistics(ctx context.Context) (model.Statistics, error)
}
