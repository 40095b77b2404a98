// Package config implements the read_config/write_config passthrough
// commands from spec.md §6: the engine treats a config file as an opaque
// YAML document belonging to the caller (the desktop shell), validating
// only that it parses.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/loglens/loglens/errkind"
)

// Read unmarshals path as a generic YAML document. The result is whatever
// shape the document has (map, list, scalar) — the engine does not impose
// a schema.
func Read(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errkind.IO("failed to read config file", err)
	}
	var content any
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, errkind.IO("failed to parse config file as YAML", err)
	}
	return content, nil
}

// Write marshals content as YAML and writes it to path, overwriting any
// existing content.
func Write(path string, content any) error {
	data, err := yaml.Marshal(content)
	if err != nil {
		return errkind.IO("failed to marshal config content", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errkind.IO("failed to write config file", err)
	}
	return nil
}
