package reporter

import (
	"fmt"
	"sort"
	"sync"

	"github.com/altwalker/altwalker/internal/model"
)

// Reporting combines a set of keyed reporters into a single one,
// delegating every call to each registered reporter in turn.
type Reporting struct {
	mu        sync.Mutex
	reporters map[string]Interface
	order     []string
}

// NewReporting returns an empty reporter aggregate.
func NewReporting() *Reporting {
	return &Reporting{reporters: make(map[string]Interface)}
}

// Register adds a reporter under key. It returns an error if key is
// already registered, mirroring the Python Reporting.register.
func (r *Reporting) Register(key string, rep Interface) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.reporters[key]; exists {
		return fmt.Errorf("a reporter with the key %q is already registered", key)
	}
	r.reporters[key] = rep
	r.order = append(r.order, key)
	return nil
}

// Unregister removes a reporter by key.
func (r *Reporting) Unregister(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.reporters, key)
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *Reporting) each(fn func(Interface)) {
	r.mu.Lock()
	keys := append([]string(nil), r.order...)
	reps := make([]Interface, len(keys))
	for i, k := range keys {
		reps[i] = r.reporters[k]
	}
	r.mu.Unlock()

	for _, rep := range reps {
		fn(rep)
	}
}

func (r *Reporting) Start() {
	r.each(func(rep Interface) { rep.Start() })
}

func (r *Reporting) End(statistics model.Statistics, status, interrupted bool) {
	r.each(func(rep Interface) { rep.End(statistics, status, interrupted) })
}

func (r *Reporting) StepStart(step Step) {
	r.each(func(rep Interface) { rep.StepStart(step) })
}

func (r *Reporting) StepEnd(step Step, result model.ExecutionResult) {
	r.each(func(rep Interface) { rep.StepEnd(step, result) })
}

func (r *Reporting) Error(step *Step, message, trace string) {
	r.each(func(rep Interface) { rep.Error(step, message, trace) })
}

// Report aggregates every registered reporter's own Report() output,
// keyed by registration key, skipping reporters that return nil.
func (r *Reporting) Report() any {
	r.mu.Lock()
	keys := append([]string(nil), r.order...)
	reps := make(map[string]Interface, len(keys))
	for _, k := range keys {
		reps[k] = r.reporters[k]
	}
	r.mu.Unlock()

	sort.Strings(keys)
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if rep := reps[k].Report(); rep != nil {
			out[k] = rep
		}
	}
	return out
}
