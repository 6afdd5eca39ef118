package exploration

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Parse decodes an exploration from YAML. JSON documents are valid YAML
// and decode the same way.
func Parse(data []byte) (*Exploration, error) {
	var exp Exploration
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return nil, fmt.Errorf("parse exploration: %w", err)
	}
	if exp.Version == 0 {
		exp.Version = 1
	}
	if err := exp.Validate(); err != nil {
		return nil, fmt.Errorf("invalid exploration %q: %w", exp.ID, err)
	}
	return &exp, nil
}

// LoadFile reads and validates an exploration file.
func LoadFile(path string) (*Exploration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exploration file: %w", err)
	}
	return Parse(data)
}
