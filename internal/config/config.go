// Package config loads project-wide Millie defaults from an optional
// millie.yaml file and carries the explicit mode flags threaded through
// the pipeline (never package-level mutable state consulted deep in the
// core -- only Version is a plain var, overridable at link time).
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Version is the current Millie version, overridable at link time via
// -ldflags -X.
var Version = "0.1.0"

const FileName = "millie.yaml"

// File is the shape of millie.yaml: project-wide defaults for the two
// CLI switches that can be set once and not repeated on every
// invocation.
type File struct {
	PrintType bool `yaml:"printType"`
	Verbose   bool `yaml:"verbose"`
}

// Load walks up from dir looking for millie.yaml, returning the parsed
// File from the first one found. If none is found, it returns the zero
// File and no error -- an absent config file is not an error condition.
func Load(dir string) (File, error) {
	path, ok := find(dir)
	if !ok {
		return File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// find walks up from dir to the filesystem root looking for millie.yaml,
// returning its path and true on the first match.
func find(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
