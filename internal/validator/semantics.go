package validator

import (
	"fmt"
	"strings"

	walkererrors "github.com/altwalker/altwalker/internal/errors"
	"github.com/altwalker/altwalker/internal/model"
	"github.com/altwalker/altwalker/internal/reservedwords"
)

// ValidateSemantics enforces graph-level invariants: unique ids across the
// model set, identifier-valid and non-reserved names, edges that resolve
// to vertices within the same model, actions terminated with ";", and a
// startElementId that resolves within its model. All violations are
// collected (no fail-fast); ordering is stable by (model index, element
// index).
func ValidateSemantics(ms model.ModelSet) error {
	var violations []walkererrors.Violation

	if len(ms.Models) == 0 {
		violations = append(violations, walkererrors.Violation{
			ElementID: "<root>",
			Message:   "model set must contain at least one model",
		})
		return aggregate(violations)
	}

	seenIDs := make(map[string]string) // id -> first element label that claimed it

	claim := func(id, label string) {
		if id == "" {
			return
		}
		if owner, ok := seenIDs[id]; ok {
			violations = append(violations, walkererrors.Violation{
				ElementID: label,
				Message:   fmt.Sprintf("duplicate id %q, already used by %s", id, owner),
			})
			return
		}
		seenIDs[id] = label
	}

	for mi, m := range ms.Models {
		mlabel := fmt.Sprintf("models[%d](%s)", mi, m.Name)
		claim(m.ID, mlabel)

		if m.Name != "" && !reservedwords.Valid(m.Name) {
			violations = append(violations, walkererrors.Violation{
				ElementID: mlabel,
				Message:   fmt.Sprintf("invalid model name %q: must be a valid identifier and not a reserved word", m.Name),
			})
		}

		vertexIDs := make(map[string]struct{}, len(m.Vertices))
		for vi, v := range m.Vertices {
			vlabel := fmt.Sprintf("%s.vertices[%d]", mlabel, vi)
			claim(v.ID, vlabel)
			vertexIDs[v.ID] = struct{}{}

			if !v.IsAnonymous() && !reservedwords.Valid(v.Name) {
				violations = append(violations, walkererrors.Violation{
					ElementID: vlabel,
					Message:   fmt.Sprintf("invalid vertex name %q: must be a valid identifier and not a reserved word", v.Name),
				})
			}
		}

		for ei, e := range m.Edges {
			elabel := fmt.Sprintf("%s.edges[%d]", mlabel, ei)
			claim(e.ID, elabel)

			if !e.IsAnonymous() && !reservedwords.Valid(e.Name) {
				violations = append(violations, walkererrors.Violation{
					ElementID: elabel,
					Message:   fmt.Sprintf("invalid edge name %q: must be a valid identifier and not a reserved word", e.Name),
				})
			}

			if e.SourceVertexID == "" {
				violations = append(violations, walkererrors.Violation{ElementID: elabel, Message: "edge is missing sourceVertexId"})
			} else if _, ok := vertexIDs[e.SourceVertexID]; !ok {
				violations = append(violations, walkererrors.Violation{
					ElementID: elabel,
					Message:   fmt.Sprintf("sourceVertexId %q does not resolve to a vertex in model %q", e.SourceVertexID, m.Name),
				})
			}

			if e.TargetVertexID == "" {
				violations = append(violations, walkererrors.Violation{ElementID: elabel, Message: "edge is missing targetVertexId"})
			} else if _, ok := vertexIDs[e.TargetVertexID]; !ok {
				violations = append(violations, walkererrors.Violation{
					ElementID: elabel,
					Message:   fmt.Sprintf("targetVertexId %q does not resolve to a vertex in model %q", e.TargetVertexID, m.Name),
				})
			}

			for ai, action := range e.Actions {
				if !strings.HasSuffix(strings.TrimSpace(action), ";") {
					violations = append(violations, walkererrors.Violation{
						ElementID: fmt.Sprintf("%s.actions[%d]", elabel, ai),
						Message:   "action must end with ';'",
					})
				}
			}
		}

		for ai, action := range m.Actions {
			if !strings.HasSuffix(strings.TrimSpace(action), ";") {
				violations = append(violations, walkererrors.Violation{
					ElementID: fmt.Sprintf("%s.actions[%d]", mlabel, ai),
					Message:   "action must end with ';'",
				})
			}
		}

		if m.StartElementID != "" {
			if _, ok := vertexIDs[m.StartElementID]; !ok {
				found := false
				for _, e := range m.Edges {
					if e.ID == m.StartElementID {
						found = true
						break
					}
				}
				if !found {
					violations = append(violations, walkererrors.Violation{
						ElementID: mlabel,
						Message:   fmt.Sprintf("startElementId %q does not exist in model %q", m.StartElementID, m.Name),
					})
				}
			}
		}
	}

	return aggregate(violations)
}
