// Package codeverifier checks that test code defines every class and
// method a model set requires, without running any of it.
//
// Grounded on original_source/altwalker/code.py's get_methods and
// validate_code.
package codeverifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/altwalker/altwalker/internal/executor"
	"github.com/altwalker/altwalker/internal/model"
)

// ModelMethods lists the methods required for one model, in the order its
// vertices and edges were declared in the model file.
type ModelMethods struct {
	ModelName string
	Methods   []string
}

// RequiredMethods returns, for each model, the set of unique vertex/edge
// names test code must implement. Models are returned in declaration
// order, and each model's methods are returned in the order their vertex
// or edge was declared (vertices before edges), matching
// original_source's get_methods, which walks a Python dict built in
// declaration order. Blocked elements are omitted when blocked is true.
func RequiredMethods(ms model.ModelSet, blocked bool) []ModelMethods {
	result := make([]ModelMethods, 0, len(ms.Models))

	for _, m := range ms.Models {
		seen := map[string]struct{}{}
		var methods []string
		add := func(name string) {
			if _, ok := seen[name]; ok {
				return
			}
			seen[name] = struct{}{}
			methods = append(methods, name)
		}

		for _, v := range m.Vertices {
			if v.IsAnonymous() || (blocked && v.IsBlocked()) {
				continue
			}
			add(v.Name)
		}
		for _, e := range m.Edges {
			if e.IsAnonymous() || (blocked && e.IsBlocked()) {
				continue
			}
			add(e.Name)
		}

		result = append(result, ModelMethods{ModelName: m.Name, Methods: methods})
	}

	return result
}

// MissingMethod names a single class or method the test code is missing.
type MissingMethod struct {
	ModelName string
	Method    string // empty if the whole class/model is missing
}

func (m MissingMethod) String() string {
	if m.Method == "" {
		return fmt.Sprintf("Expected to find class %s.", m.ModelName)
	}
	return fmt.Sprintf("Expected to find %s method in class %s.", m.Method, m.ModelName)
}

// Verify checks the loaded test code against the required methods and
// returns every missing class/method as a single error, grouped by model
// and ordered exactly as methods lists them.
func Verify(ctx context.Context, exec executor.Executor, methods []ModelMethods) error {
	var missing []MissingMethod

	for _, mm := range methods {
		hasModel, err := exec.HasModel(ctx, mm.ModelName)
		if err != nil {
			return fmt.Errorf("codeverifier: checking model %q: %w", mm.ModelName, err)
		}
		if !hasModel {
			missing = append(missing, MissingMethod{ModelName: mm.ModelName})
		}

		for _, element := range mm.Methods {
			hasStep, err := exec.HasStep(ctx, mm.ModelName, element)
			if err != nil {
				return fmt.Errorf("codeverifier: checking step %q on model %q: %w", element, mm.ModelName, err)
			}
			if !hasStep {
				missing = append(missing, MissingMethod{ModelName: mm.ModelName, Method: element})
			}
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Missing: missing}
}

// ValidationError aggregates every missing class/method found by Verify.
type ValidationError struct {
	Missing []MissingMethod
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Missing))
	for i, m := range e.Missing {
		lines[i] = m.String()
	}
	return strings.Join(lines, "\n")
}
