// Package validator implements the model validator: structural (JSON
// shape) and semantic (identifier/graph invariant) checks on a model set.
// The check command (internal/app) runs these and then the external
// generator's `check` subcommand.
//
// There is no JSON-schema library anywhere in the example corpus to
// ground a ValidateSchema implementation on, and the schema here is small
// and fixed (a handful of required fields per element type), so it is
// hand-rolled against encoding/json's generic map decoding rather than
// reaching for a schema engine — the corpus gives no idiomatic precedent
// for one, and a hand probe of seven field names does not earn a dependency.
package validator

import (
	"encoding/json"
	"fmt"

	walkererrors "github.com/altwalker/altwalker/internal/errors"
)

var modelSetTopLevelKeys = map[string]struct{}{
	"name":   {},
	"models": {},
}

var modelKeys = map[string]struct{}{
	"id": {}, "name": {}, "generator": {}, "vertices": {}, "edges": {},
	"actions": {}, "startElementId": {},
}

// ValidateSchema performs structural validation of raw model-set bytes:
// required fields, types, and rejection of unknown top-level keys. Unknown
// per-element keys are accepted for forward compatibility with the
// generator.
func ValidateSchema(raw []byte) error {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return &walkererrors.ValidationError{Violations: []walkererrors.Violation{
			{ElementID: "<root>", Message: fmt.Sprintf("invalid json: %v", err)},
		}}
	}

	var violations []walkererrors.Violation

	for key := range top {
		if _, ok := modelSetTopLevelKeys[key]; !ok {
			violations = append(violations, walkererrors.Violation{
				ElementID: "<root>",
				Message:   fmt.Sprintf("unknown top-level key %q", key),
			})
		}
	}

	modelsRaw, ok := top["models"]
	if !ok {
		violations = append(violations, walkererrors.Violation{ElementID: "<root>", Message: "missing required field \"models\""})
		return aggregate(violations)
	}

	var rawModels []map[string]json.RawMessage
	if err := json.Unmarshal(modelsRaw, &rawModels); err != nil {
		violations = append(violations, walkererrors.Violation{ElementID: "<root>", Message: fmt.Sprintf("\"models\" must be an array: %v", err)})
		return aggregate(violations)
	}

	for mi, rm := range rawModels {
		violations = append(violations, validateModelShape(mi, rm)...)
	}

	return aggregate(violations)
}

func validateModelShape(index int, rm map[string]json.RawMessage) []walkererrors.Violation {
	var violations []walkererrors.Violation
	label := fmt.Sprintf("models[%d]", index)

	for _, required := range []string{"id", "name", "vertices", "edges"} {
		if _, ok := rm[required]; !ok {
			violations = append(violations, walkererrors.Violation{
				ElementID: label,
				Message:   fmt.Sprintf("missing required field %q", required),
			})
		}
	}

	var vertices []map[string]json.RawMessage
	if raw, ok := rm["vertices"]; ok {
		if err := json.Unmarshal(raw, &vertices); err != nil {
			violations = append(violations, walkererrors.Violation{ElementID: label, Message: "\"vertices\" must be an array of objects"})
		}
	}
	for vi, v := range vertices {
		vlabel := fmt.Sprintf("%s.vertices[%d]", label, vi)
		if _, ok := v["id"]; !ok {
			violations = append(violations, walkererrors.Violation{ElementID: vlabel, Message: "missing required field \"id\""})
		}
	}

	var edges []map[string]json.RawMessage
	if raw, ok := rm["edges"]; ok {
		if err := json.Unmarshal(raw, &edges); err != nil {
			violations = append(violations, walkererrors.Violation{ElementID: label, Message: "\"edges\" must be an array of objects"})
		}
	}
	for ei, e := range edges {
		elabel := fmt.Sprintf("%s.edges[%d]", label, ei)
		for _, required := range []string{"id", "sourceVertexId", "targetVertexId"} {
			if _, ok := e[required]; !ok {
				violations = append(violations, walkererrors.Violation{ElementID: elabel, Message: fmt.Sprintf("missing required field %q", required)})
			}
		}
	}

	return violations
}

// aggregate wraps violations into a ValidationError. Callers build
// violations in (model index, element index) order already, so no
// re-sorting happens here — a lexical sort on "models[10]" vs "models[2]"
// would undo that ordering instead of preserving it.
func aggregate(violations []walkererrors.Violation) error {
	if len(violations) == 0 {
		return nil
	}
	return &walkererrors.ValidationError{Violations: violations}
}
