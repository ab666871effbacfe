package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFile reads a single model file and returns its ModelSet. Only JSON is
// decoded directly; GraphML conversion is delegated to the generator's
// convert subcommand and must be run by the caller first.
func LoadFile(path string) (ModelSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ModelSet{}, fmt.Errorf("reading model file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".graphml") {
		return ModelSet{}, fmt.Errorf("model file %s is GraphML: convert to JSON before loading", path)
	}

	var ms ModelSet
	if err := json.Unmarshal(raw, &ms); err != nil {
		return ModelSet{}, fmt.Errorf("invalid json model file %s: %w", path, err)
	}

	return ms, nil
}

// LoadFiles loads each path and concatenates the resulting model sets in
// order; the effective model set is the concatenation of all of them.
func LoadFiles(paths []string) (ModelSet, error) {
	var merged ModelSet
	for _, p := range paths {
		ms, err := LoadFile(p)
		if err != nil {
			return ModelSet{}, err
		}
		merged.Merge(ms)
	}
	return merged, nil
}
