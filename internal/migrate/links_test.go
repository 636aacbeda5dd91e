package migrate

import (
	"strings"
	"testing"

	"github.com/steveyegge/bd2gh/internal/links"
)

func TestApplyLinks(t *testing.T) {
	tracker := newFakeTracker(1)
	m, out := testMigrator(tracker)
	opts := testOptions(t, false)

	issueMap := map[string]int{"bd-1": 10, "bd-2": 11, "bd-3": 12}
	spec := &links.Spec{
		Dependencies: []any{
			map[string]any{"blocked": "bd-1", "blocker": "bd-2"},
			map[string]any{"blocked": "bd-1", "blocker": "#20"},
		},
		Hierarchy: []any{
			map[string]any{"parent": "bd-3", "child": "bd-1"},
		},
	}

	result, err := m.ApplyLinks(spec, issueMap, opts)
	if err != nil {
		t.Fatalf("ApplyLinks() error = %v", err)
	}
	if result.Dependencies != 2 || result.Hierarchy != 1 {
		t.Errorf("result = %+v, want deps=2 hier=1", result)
	}
	if len(tracker.addedDeps) != 2 || tracker.addedDeps[0] != [2]int{10, 11} || tracker.addedDeps[1] != [2]int{10, 20} {
		t.Errorf("addedDeps = %v", tracker.addedDeps)
	}
	if len(tracker.addedSubs) != 1 || tracker.addedSubs[0] != [2]int{12, 10} {
		t.Errorf("addedSubs = %v", tracker.addedSubs)
	}
	if !strings.Contains(out.String(), "Added dependency: #10 blocked by #11") {
		t.Errorf("missing dependency line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Added hierarchy: #10 under #12") {
		t.Errorf("missing hierarchy line:\n%s", out.String())
	}
}

func TestApplyLinksSkipsUnresolved(t *testing.T) {
	tracker := newFakeTracker(1)
	m, out := testMigrator(tracker)
	opts := testOptions(t, false)

	spec := &links.Spec{
		Dependencies: []any{
			map[string]any{"blocked": "missing", "blocker": "bd-2"},
		},
		Hierarchy: []any{
			map[string]any{"parent": "bd-1", "child": "also-missing"},
		},
	}
	issueMap := map[string]int{"bd-1": 10, "bd-2": 11}

	result, err := m.ApplyLinks(spec, issueMap, opts)
	if err != nil {
		t.Fatalf("ApplyLinks() error = %v", err)
	}
	if result.Dependencies != 0 || result.Hierarchy != 0 {
		t.Errorf("result = %+v, want nothing processed", result)
	}
	if !strings.Contains(out.String(), "Skipping dependency with unmapped refs") {
		t.Errorf("missing dependency warning:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Skipping hierarchy with unmapped refs") {
		t.Errorf("missing hierarchy warning:\n%s", out.String())
	}
}

func TestApplyLinksSkipsMalformed(t *testing.T) {
	tracker := newFakeTracker(1)
	m, out := testMigrator(tracker)
	opts := testOptions(t, false)

	spec := &links.Spec{
		Dependencies: []any{"not an object", float64(3)},
		Hierarchy:    []any{[]any{"still", "wrong"}},
	}

	result, err := m.ApplyLinks(spec, map[string]int{}, opts)
	if err != nil {
		t.Fatalf("ApplyLinks() error = %v", err)
	}
	if result.Dependencies != 0 || result.Hierarchy != 0 {
		t.Errorf("result = %+v, want nothing processed", result)
	}
	if !strings.Contains(out.String(), "Skipping malformed dependency entry") {
		t.Errorf("missing malformed warning:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Skipping malformed hierarchy entry") {
		t.Errorf("missing malformed warning:\n%s", out.String())
	}
}

// A link that already exists remotely still counts as processed; only
// the output line differs.
func TestApplyLinksDuplicatesCountAsProcessed(t *testing.T) {
	tracker := newFakeTracker(1)
	tracker.deps[10] = map[int]bool{11: true}
	m, out := testMigrator(tracker)
	opts := testOptions(t, false)

	spec := &links.Spec{
		Dependencies: []any{
			map[string]any{"blocked": float64(10), "blocker": float64(11)},
		},
	}

	result, err := m.ApplyLinks(spec, map[string]int{}, opts)
	if err != nil {
		t.Fatalf("ApplyLinks() error = %v", err)
	}
	if result.Dependencies != 1 {
		t.Errorf("Dependencies = %d, want 1 (duplicate still processed)", result.Dependencies)
	}
	if len(tracker.addedDeps) != 0 {
		t.Errorf("no link should be created, got %v", tracker.addedDeps)
	}
	if !strings.Contains(out.String(), "Dependency already exists: #10 blocked by #11") {
		t.Errorf("missing already-exists line:\n%s", out.String())
	}
}

func TestApplyLinksDryRun(t *testing.T) {
	tracker := newFakeTracker(1)
	m, out := testMigrator(tracker)
	opts := testOptions(t, true)

	spec := &links.Spec{
		Dependencies: []any{map[string]any{"blocked": "#1", "blocker": "#2"}},
		Hierarchy:    []any{map[string]any{"parent": "#3", "child": "#4"}},
	}

	result, err := m.ApplyLinks(spec, map[string]int{}, opts)
	if err != nil {
		t.Fatalf("ApplyLinks() error = %v", err)
	}
	if result.Dependencies != 1 || result.Hierarchy != 1 {
		t.Errorf("result = %+v, want both processed", result)
	}
	if len(tracker.addedDeps) != 0 || len(tracker.addedSubs) != 0 {
		t.Error("dry run must not touch the tracker")
	}
	if !strings.Contains(out.String(), "[DRY RUN] add dependency: #1 blocked by #2") {
		t.Errorf("missing dry-run dependency line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "[DRY RUN] add hierarchy: #4 under #3") {
		t.Errorf("missing dry-run hierarchy line:\n%s", out.String())
	}
}
