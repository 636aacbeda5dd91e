package github

import (
	"strings"

	"github.com/steveyegge/bd2gh/internal/beads"
)

// BuildBody assembles the GitHub issue body for a Beads record.
//
// Layout: Description, Acceptance Criteria, and Notes sections when
// non-empty, then an always-present Migration Metadata section recording
// where the issue came from. Sections are separated by a blank line and
// the result always ends with exactly one newline.
func BuildBody(rec beads.Record) string {
	var parts []string

	if d := rec.Description(); d != "" {
		parts = append(parts, "## Description\n"+d)
	}
	if a := rec.AcceptanceCriteria(); a != "" {
		parts = append(parts, "## Acceptance Criteria\n"+a)
	}
	if n := rec.Notes(); n != "" {
		parts = append(parts, "## Notes\n"+n)
	}

	meta := []string{
		"- Source: beads",
		"- Beads ID: " + orMissing(rec.ID()),
		"- Original status: " + orMissing(rec.Status()),
	}
	if v := rec.CreatedAt(); v != "" {
		meta = append(meta, "- Created at: "+v)
	}
	if v := rec.UpdatedAt(); v != "" {
		meta = append(meta, "- Updated at: "+v)
	}
	if v := rec.Owner(); v != "" {
		meta = append(meta, "- Owner: "+v)
	}
	if v := rec.CreatedBy(); v != "" {
		meta = append(meta, "- Created by: "+v)
	}
	parts = append(parts, "## Migration Metadata\n"+strings.Join(meta, "\n"))

	return strings.TrimSpace(strings.Join(parts, "\n\n")) + "\n"
}

func orMissing(s string) string {
	if s == "" {
		return "(missing)"
	}
	return s
}
