// Package github maps Beads issues onto GitHub's issue model and drives
// the gh CLI to create them.
//
// Label mapping uses the same scoped vocabulary beads itself writes when
// syncing to GitHub: type:<t>, priority:P<n>, status:<s>. All mapping
// functions are total - bad input coerces to a default, never an error.
package github

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/steveyegge/bd2gh/internal/beads"
)

// typeLabels is the closed issue-type vocabulary. Anything else is a task.
var typeLabels = map[string]string{
	"task":     "type:task",
	"bug":      "type:bug",
	"feature":  "type:feature",
	"docs":     "type:docs",
	"question": "type:question",
}

// TypeLabel maps a raw issue_type value to its type label.
// Unrecognized, absent, or non-string values map to type:task.
func TypeLabel(raw any) string {
	key := "task"
	if raw != nil {
		if s := strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", raw))); s != "" {
			key = s
		}
	}
	if label, ok := typeLabels[key]; ok {
		return label
	}
	return "type:task"
}

// PriorityLabel maps a raw priority value to priority:P0..priority:P4.
// Non-numeric input defaults to 2 (medium); numeric input is clamped.
func PriorityLabel(raw any) string {
	p := 2
	switch t := raw.(type) {
	case int:
		p = t
	case int64:
		p = int(t)
	case float64:
		p = int(t)
	case json.Number:
		if n, err := t.Int64(); err == nil {
			p = int(n)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			p = n
		}
	case bool, nil:
		// keep default
	}
	if p < 0 {
		p = 0
	}
	if p > 4 {
		p = 4
	}
	return fmt.Sprintf("priority:P%d", p)
}

// StatusLabel maps a raw status string to a status label.
// closed/done/resolved fold to status:done; unknown states are status:todo.
func StatusLabel(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "closed", "done", "resolved":
		return "status:done"
	case "blocked":
		return "status:blocked"
	case "in_progress", "started", "active":
		return "status:in_progress"
	default:
		return "status:todo"
	}
}

// BuildLabels returns the three scoped labels for a record,
// deduplicated and sorted.
func BuildLabels(rec beads.Record) []string {
	set := map[string]bool{
		TypeLabel(rec.IssueType()):    true,
		PriorityLabel(rec.Priority()): true,
		StatusLabel(rec.Status()):     true,
	}
	labels := make([]string, 0, len(set))
	for l := range set {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}
