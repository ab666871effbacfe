package planner

import (
	"context"
	"log/slog"
	"sync"

	"github.com/altwalker/altwalker/internal/ctxlog"
	"github.com/altwalker/altwalker/internal/model"
)

// OfflinePlanner replays a pre-computed path instead of generating one
// live. GetData/SetData are unsupported (there is no live graph to read
// from or write to) and never fail: GetData returns an empty map, and
// SetData logs a warning, mirroring original_source's planner.py which
// emits a UserWarning rather than raising.
type OfflinePlanner struct {
	mu       sync.Mutex
	path     []model.Step
	position int
}

// NewOfflinePlanner wraps a fully generated path.
func NewOfflinePlanner(path []model.Step) *OfflinePlanner {
	return &OfflinePlanner{path: append([]model.Step(nil), path...)}
}

// Steps returns the steps already consumed via GetNext.
func (p *OfflinePlanner) Steps() []model.Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Step(nil), p.path[:p.position]...)
}

// Path returns the full original path.
func (p *OfflinePlanner) Path() []model.Step {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.Step(nil), p.path...)
}

func (p *OfflinePlanner) Kill() {}

func (p *OfflinePlanner) Load(ctx context.Context, ms model.ModelSet) error { return nil }

func (p *OfflinePlanner) HasNext(ctx context.Context) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position < len(p.path), nil
}

func (p *OfflinePlanner) GetNext(ctx context.Context) (model.Step, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	step := p.path[p.position]
	p.position++
	return step, nil
}

func (p *OfflinePlanner) GetData(ctx context.Context) (map[string]string, error) {
	return map[string]string{}, nil
}

func (p *OfflinePlanner) SetData(ctx context.Context, key string, value any) error {
	ctxlog.FromContext(ctx).Warn("setData/getData have no effect in offline mode", slog.String("key", key))
	return nil
}

func (p *OfflinePlanner) Fail(ctx context.Context, message string) error { return nil }

func (p *OfflinePlanner) Restart(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.position = 0
	return nil
}

func (p *OfflinePlanner) Statistics(ctx context.Context) (model.Statistics, error) {
	return model.Statistics{}, nil
}
