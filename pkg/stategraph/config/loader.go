package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/randalmurphal/stategraph/pkg/stategraph"
)

// FromFile loads configuration from a file, auto-detecting format by extension.
// Supported extensions: .yaml, .yml, .json
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config.
func FromYAML(data []byte) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return New(m), nil
}

// FromJSON parses JSON data into a Config.
func FromJSON(data []byte) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return New(m), nil
}

// DefinitionFromFile loads a graph definition from a file, auto-detecting
// format by extension. Supported extensions: .yaml, .yml, .json
//
// Loading only parses the document; structural validation happens at
// compile time, where every violation is reported in one pass.
func DefinitionFromFile(path string) (*stategraph.GraphDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return DefinitionFromYAML(data)
	case ".json":
		return DefinitionFromJSON(data)
	default:
		return nil, fmt.Errorf("unsupported definition file extension: %s", ext)
	}
}

// DefinitionFromYAML parses YAML data into a GraphDefinition.
func DefinitionFromYAML(data []byte) (*stategraph.GraphDefinition, error) {
	var def stategraph.GraphDefinition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse yaml definition: %w", err)
	}
	return &def, nil
}

// DefinitionFromJSON parses JSON data into a GraphDefinition.
func DefinitionFromJSON(data []byte) (*stategraph.GraphDefinition, error) {
	var def stategraph.GraphDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse json definition: %w", err)
	}
	return &def, nil
}
