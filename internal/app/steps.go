package app

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/altwalker/altwalker/internal/model"
)

// loadSteps reads a previously generated path (as written by the offline
// command or gwclient.Offline) from a JSON file.
func loadSteps(path string) ([]model.Step, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading steps file %s: %w", path, err)
	}
	var steps []model.Step
	if err := json.Unmarshal(raw, &steps); err != nil {
		return nil, fmt.Errorf("invalid steps file %s: %w", path, err)
	}
	return steps, nil
}

// writeSteps encodes steps as JSON to path, or to out when path is empty.
func writeSteps(steps []model.Step, path string, out io.Writer) error {
	raw, err := json.MarshalIndent(steps, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding generated path: %w", err)
	}
	if path == "" {
		_, err := out.Write(append(raw, '\n'))
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}
