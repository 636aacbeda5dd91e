package beads

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// maxLineSize bounds a single JSONL line. Beads issues with large
// descriptions can exceed bufio's 64K default.
const maxLineSize = 16 * 1024 * 1024

// LoadJSONL reads a Beads export: one JSON object per line.
// Blank lines are skipped. An unparseable line or a line whose top-level
// value is not an object is a *FormatError naming the file and line.
func LoadJSONL(path string) ([]Record, error) {
	f, err := os.Open(path) // #nosec G304 - path comes from CLI flags
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var records []Record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var raw any
		if err := json.Unmarshal([]byte(line), &raw); err != nil {
			return nil, &FormatError{Path: path, Line: lineno, Err: err}
		}
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, &FormatError{
				Path: path,
				Line: lineno,
				Err:  fmt.Errorf("expected object, got %T", raw),
			}
		}
		records = append(records, Record(obj))
	}
	if err := scanner.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &FormatError{Path: path, Line: lineno + 1, Err: err}
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return records, nil
}
