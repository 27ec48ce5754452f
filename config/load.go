package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a JSON or YAML options file (selected by extension:
// ".yaml"/".yml" for YAML, everything else as JSON), validates it
// against the embedded schema, and returns a ready Options with
// Default()'s values for anything the file left unset.
//
// YAML files are decoded and re-encoded as JSON before schema
// validation, since the embedded schema is JSON Schema. A YAML mapping
// with a non-string key (a number or a boolean) decodes to a map that
// encoding/json cannot marshal, so such a file makes Load return a
// conversion error.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	jsonData := data
	if isYAMLPath(path) {
		jsonData, err = yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("config: convert %s to JSON: %w", path, err)
		}
	}

	if err := validateJSON(jsonData); err != nil {
		return nil, err
	}

	opts := Default()
	if err := json.Unmarshal(jsonData, &opts); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &opts, nil
}

func isYAMLPath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if node.Kind == 0 {
		return []byte("null"), nil
	}
	var decoded any
	if err := node.Decode(&decoded); err != nil {
		return nil, err
	}
	return json.Marshal(decoded)
}
