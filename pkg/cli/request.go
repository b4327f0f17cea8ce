package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// LoadRequest reads an enrollment draft or push-subscription record from a
// YAML or JSON file into v.
func LoadRequest(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cli: read request: %w", err)
	}
	return ParseRequest(data, path, v)
}

// ParseRequest decodes request data into v. The format follows the file
// extension; without one, YAML is tried first and JSON second.
func ParseRequest(data []byte, filename string, v any) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("cli: parse yaml request: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("cli: parse json request: %w", err)
		}
	default:
		if yaml.Unmarshal(data, v) != nil {
			if json.Unmarshal(data, v) != nil {
				return fmt.Errorf("cli: request %s is neither valid yaml nor json", filepath.Base(filename))
			}
		}
	}
	return nil
}
