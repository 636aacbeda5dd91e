// Package beads models issues from a Beads JSONL export.
//
// Exported records are loosely typed: fields may be absent, null, or the
// wrong JSON type depending on which bd version wrote them. Record keeps
// the raw object and exposes accessors that coerce and default rather
// than reject.
package beads

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Record is one issue from a Beads JSONL export.
type Record map[string]any

// FormatError reports a malformed line or value in an input file.
type FormatError struct {
	Path string
	Line int
	Err  error
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid JSON in %s:%d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("invalid input in %s: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

// text returns the named field coerced to a trimmed string.
// Absent, null, and non-string values all coerce; nothing fails.
func (r Record) text(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		// JSONL numbers arrive as float64; render integers without decimals.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case bool:
		return fmt.Sprintf("%v", t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// ID returns the record's unique identifier, or "" when missing.
func (r Record) ID() string { return r.text("id") }

// Title returns the record title. Callers creating remote issues should
// fall back to a synthetic title when this is empty.
func (r Record) Title() string { return r.text("title") }

func (r Record) Description() string { return r.text("description") }

func (r Record) AcceptanceCriteria() string { return r.text("acceptance_criteria") }

func (r Record) Notes() string { return r.text("notes") }

func (r Record) Owner() string { return r.text("owner") }

func (r Record) CreatedBy() string { return r.text("created_by") }

func (r Record) CreatedAt() string { return r.text("created_at") }

func (r Record) UpdatedAt() string { return r.text("updated_at") }

func (r Record) CloseReason() string { return r.text("close_reason") }

// Status returns the raw status string, trimmed but not normalized.
func (r Record) Status() string { return r.text("status") }

// IssueType returns the raw issue_type value for label mapping.
func (r Record) IssueType() any { return r["issue_type"] }

// Priority returns the raw priority value for label mapping.
func (r Record) Priority() any { return r["priority"] }

// IsClosed reports whether the record's status, normalized, is "closed".
func (r Record) IsClosed() bool {
	return strings.ToLower(r.Status()) == "closed"
}

// IsOpen reports whether the record's status, normalized, is "open".
func (r Record) IsOpen() bool {
	return strings.ToLower(r.Status()) == "open"
}
