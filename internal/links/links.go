// Package links loads the optional dependency/hierarchy link
// specification and resolves its symbolic issue references.
package links

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec lists the relationships to wire up after issues exist.
// Entries are kept as raw values: malformed entries are skipped at apply
// time with a warning, they never fail the load.
type Spec struct {
	Dependencies []any `json:"dependencies" yaml:"dependencies"`
	Hierarchy    []any `json:"hierarchy" yaml:"hierarchy"`
}

// FormatError reports a links file with the wrong shape.
type FormatError struct {
	Path string
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("links file %s: %s", e.Path, e.Msg)
}

// Load reads a link spec. An empty path means no links file and yields
// an empty spec. Files ending in .yaml or .yml are decoded as YAML,
// everything else as JSON. The top level must be an object and
// dependencies/hierarchy, when present, must be arrays.
func Load(path string) (*Spec, error) {
	if path == "" {
		return &Spec{}, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 - path comes from CLI flags
	if err != nil {
		return nil, fmt.Errorf("reading links file %s: %w", path, err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, &FormatError{Path: path, Msg: err.Error()}
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &FormatError{Path: path, Msg: err.Error()}
		}
	}
	if raw == nil {
		return nil, &FormatError{Path: path, Msg: "must be a JSON object"}
	}

	spec := &Spec{}
	if v, ok := raw["dependencies"]; ok {
		list, ok := v.([]any)
		if !ok {
			return nil, &FormatError{Path: path, Msg: "field 'dependencies' must be an array"}
		}
		spec.Dependencies = list
	}
	if v, ok := raw["hierarchy"]; ok {
		list, ok := v.([]any)
		if !ok {
			return nil, &FormatError{Path: path, Msg: "field 'hierarchy' must be an array"}
		}
		spec.Hierarchy = list
	}
	return spec, nil
}

// ResolveRef turns a link reference into an issue number.
// Accepted forms: a literal number, a "#N" string, a bare digit string,
// or a beads id looked up in the migration mapping. Returns ok=false
// when the reference resolves to nothing.
func ResolveRef(ref any, issueMap map[string]int) (int, bool) {
	switch t := ref.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		return 0, false
	}

	text := strings.TrimSpace(fmt.Sprintf("%v", orEmpty(ref)))
	if text == "" {
		return 0, false
	}
	if strings.HasPrefix(text, "#") {
		if n, err := strconv.Atoi(text[1:]); err == nil && n >= 0 {
			return n, true
		}
	}
	if n, err := strconv.Atoi(text); err == nil && n >= 0 {
		return n, true
	}
	n, ok := issueMap[text]
	return n, ok
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
