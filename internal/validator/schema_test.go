package validator

import (
	"testing"

	walkererrors "github.com/altwalker/altwalker/internal/errors"
)

func TestValidateSchemaAcceptsMinimalModel(t *testing.T) {
	raw := []byte(`{
		"models": [{
			"id": "m1", "name": "Login",
			"vertices": [{"id": "v0"}],
			"edges": [{"id": "e0", "sourceVertexId": "v0", "targetVertexId": "v0"}]
		}]
	}`)
	if err := ValidateSchema(raw); err != nil {
		t.Errorf("ValidateSchema() error = %v, want nil", err)
	}
}

func TestValidateSchemaRejectsUnknownTopLevelKey(t *testing.T) {
	raw := []byte(`{"models": [], "bogus": true}`)
	err := ValidateSchema(raw)
	if err == nil {
		t.Fatal("ValidateSchema() = nil, want error")
	}
	verr, ok := err.(*walkererrors.ValidationError)
	if !ok {
		t.Fatalf("error is %T, want *walkererrors.ValidationError", err)
	}
	if len(verr.Violations) == 0 {
		t.Error("Violations is empty, want at least one")
	}
}

func TestValidateSchemaRequiresModelFields(t *testing.T) {
	raw := []byte(`{"models": [{"id": "m1"}]}`)
	err := ValidateSchema(raw)
	if err == nil {
		t.Fatal("ValidateSchema() = nil, want error")
	}
	verr := err.(*walkererrors.ValidationError)
	if len(verr.Violations) < 3 {
		t.Errorf("Violations = %v, want at least 3 (missing name/vertices/edges)", verr.Violations)
	}
}

func TestValidateSchemaRejectsInvalidJSON(t *testing.T) {
	if err := ValidateSchema([]byte("not json")); err == nil {
		t.Fatal("ValidateSchema() = nil, want error")
	}
}
