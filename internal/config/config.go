// Package config loads an optional altwalker.yaml project file, supplying
// fallback defaults for generator/executor connection details and log
// settings that command-line flags always override.
//
// Grounded on _examples/AaronLay10-SentientEngine/internal/config/config.go
// for the os.ReadFile-plus-yaml.Unmarshal shape.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults holds optional fallback values. A zero field means "no
// override"; callers apply their own hardcoded fallback beneath it.
type Defaults struct {
	Generator struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"generator"`
	Executor struct {
		Type string `yaml:"type"`
		URL  string `yaml:"url"`
	} `yaml:"executor"`
	Log struct {
		Format string `yaml:"format"`
		Level  string `yaml:"level"`
	} `yaml:"log"`
}

// Load reads and parses path. A missing file is not an error: it returns
// a zero Defaults, since the project file is entirely optional.
func Load(path string) (Defaults, error) {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Defaults{}, nil
	}
	if err != nil {
		return Defaults{}, err
	}

	var d Defaults
	if err := yaml.Unmarshal(b, &d); err != nil {
		return Defaults{}, err
	}
	return d, nil
}

// Or returns s if it is non-empty, otherwise fallback. Used to let a
// yaml-supplied default replace a flag's hardcoded default.
func Or(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// OrInt returns n if it is non-zero, otherwise fallback.
func OrInt(n, fallback int) int {
	if n == 0 {
		return fallback
	}
	return n
}
