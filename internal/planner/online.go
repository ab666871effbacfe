package planner

import (
	"context"
	"fmt"

	"github.com/altwalker/altwalker/internal/gwclient"
	"github.com/altwalker/altwalker/internal/model"
)

// ownedProcess is satisfied by *gwclient.GeneratorProcess. Kept as an
// interface so an OnlinePlanner can be built against a client the caller
// connected to independently (host/port pointing at an already-running
// service), with no process to kill or probe — process is nil in that
// case.
type ownedProcess interface {
	Kill()
	Alive() bool
}

// OnlinePlanner drives a live GraphWalker REST service, one step at a
// time, and supports reading/writing the graph's live data via GetData
// and SetData.
type OnlinePlanner struct {
	client  *gwclient.Client
	process ownedProcess
}

// NewOnlinePlanner wraps a GraphWalker client. process, if non-nil, is
// killed when the planner is killed, and its liveness backs the client's
// empty/malformed /hasNext body handling — set it when this planner owns
// the generator subprocess (as opposed to connecting to one that was
// started independently via a --host flag).
func NewOnlinePlanner(client *gwclient.Client, process ownedProcess) *OnlinePlanner {
	if process != nil {
		client.SetAliveChecker(process.Alive)
	}
	return &OnlinePlanner{client: client, process: process}
}

func (p *OnlinePlanner) Kill() {
	if p.process != nil {
		p.process.Kill()
	}
}

func (p *OnlinePlanner) Load(ctx context.Context, ms model.ModelSet) error {
	raw, err := ms.ToJSON()
	if err != nil {
		return fmt.Errorf("planner: encoding model set: %w", err)
	}
	return p.client.Load(ctx, raw)
}

func (p *OnlinePlanner) HasNext(ctx context.Context) (bool, error) {
	return p.client.HasNext(ctx)
}

func (p *OnlinePlanner) GetNext(ctx context.Context) (model.Step, error) {
	step, err := p.client.GetNext(ctx)
	if err != nil {
		return model.Step{}, err
	}
	return model.Step{
		ID:                step.ID,
		Name:              step.Name,
		ModelName:         step.ModelName,
		Data:              step.Data,
		Properties:        step.Properties,
		Actions:           step.Actions,
		UnvisitedElements: step.UnvisitedElements,
	}, nil
}

func (p *OnlinePlanner) GetData(ctx context.Context) (map[string]string, error) {
	data, err := p.client.GetData(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		out[k] = fmt.Sprint(v)
	}
	return out, nil
}

func (p *OnlinePlanner) SetData(ctx context.Context, key string, value any) error {
	return p.client.SetData(ctx, key, value)
}

func (p *OnlinePlanner) Restart(ctx context.Context) error {
	return p.client.Restart(ctx)
}

func (p *OnlinePlanner) Fail(ctx context.Context, message string) error {
	return p.client.Fail(ctx, message)
}

func (p *OnlinePlanner) Statistics(ctx context.Context) (model.Statistics, error) {
	raw, err := p.client.Statistics(ctx)
	if err != nil {
		return model.Statistics{}, err
	}
	return statisticsFromRaw(raw), nil
}

func statisticsFromRaw(raw map[string]any) model.Statistics {
	stats := model.Statistics{Extra: raw}
	if v, ok := raw["numberOfElements"].(float64); ok {
		stats.Steps = int(v)
	}
	if v, ok := raw["edgeCoverage"].(float64); ok {
		stats.EdgeCoverage = v
	}
	if v, ok := raw["vertexCoverage"].(float64); ok {
		stats.VertexCoverage = v
	}
	return stats
}
