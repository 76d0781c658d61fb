package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// LoadFromPath reads a layout file (YAML or JSON) and returns the parsed
// Layout with defaults applied. Format is detected by extension (.yaml/.yml →
// YAML, .json → JSON) or by content (first non-whitespace char). The layout
// root defaults to the directory containing the file.
func LoadFromPath(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	l, err := Load(data, filepath.Ext(path))
	if err != nil {
		return Layout{}, err
	}
	if l.Root == "" {
		l.Root = filepath.Dir(path)
	}
	return l.WithDefaults(), nil
}

// Load parses a layout from bytes. ext is the file extension (e.g. ".json",
// ".yaml") for format hint; empty = detect from content.
func Load(data []byte, ext string) (Layout, error) {
	ext = strings.ToLower(ext)
	if ext == ".yml" {
		ext = ".yaml"
	}
	switch ext {
	case ".yaml":
		var l Layout
		if err := yaml.Unmarshal(data, &l); err != nil {
			return Layout{}, fmt.Errorf("parse layout yaml: %w", err)
		}
		return l, nil
	case ".json":
		var l Layout
		if err := json.Unmarshal(data, &l); err != nil {
			return Layout{}, fmt.Errorf("parse layout json: %w", err)
		}
		return l, nil
	}
	// Detect: JSON starts with {, else YAML.
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "{") {
		var l Layout
		if err := json.Unmarshal(data, &l); err != nil {
			return Layout{}, fmt.Errorf("parse layout json: %w", err)
		}
		return l, nil
	}
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("parse layout yaml: %w", err)
	}
	return l, nil
}
