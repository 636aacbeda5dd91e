package migrate

import (
	"github.com/steveyegge/bd2gh/internal/links"
)

// LinkResult counts links processed per kind. A link that already
// existed remotely still counts as processed; the per-link output line
// distinguishes "Added" from "already exists".
type LinkResult struct {
	Dependencies int
	Hierarchy    int
}

// ApplyLinks wires up blocking dependencies and sub-issue hierarchy from
// a link spec, resolving references against the completed issue map.
// Malformed entries and unresolved references are warned about and
// skipped; remote failures are fatal.
func (m *Migrator) ApplyLinks(spec *links.Spec, issueMap map[string]int, opts Options) (*LinkResult, error) {
	result := &LinkResult{}

	for _, entry := range spec.Dependencies {
		dep, ok := entry.(map[string]any)
		if !ok {
			m.warnf("Skipping malformed dependency entry: %v", entry)
			continue
		}
		blocked, okBlocked := links.ResolveRef(dep["blocked"], issueMap)
		blocker, okBlocker := links.ResolveRef(dep["blocker"], issueMap)
		if !okBlocked || !okBlocker {
			m.warnf("Skipping dependency with unmapped refs: %v", dep)
			continue
		}

		if opts.DryRun {
			m.printf("[DRY RUN] add dependency: #%d blocked by #%d", blocked, blocker)
			result.Dependencies++
			continue
		}

		created, err := m.Tracker.AddDependency(opts.Repo, blocked, blocker)
		if err != nil {
			return result, err
		}
		if created {
			m.printf("Added dependency: #%d blocked by #%d", blocked, blocker)
		} else {
			m.printf("Dependency already exists: #%d blocked by #%d", blocked, blocker)
		}
		result.Dependencies++
	}

	for _, entry := range spec.Hierarchy {
		rel, ok := entry.(map[string]any)
		if !ok {
			m.warnf("Skipping malformed hierarchy entry: %v", entry)
			continue
		}
		parent, okParent := links.ResolveRef(rel["parent"], issueMap)
		child, okChild := links.ResolveRef(rel["child"], issueMap)
		if !okParent || !okChild {
			m.warnf("Skipping hierarchy with unmapped refs: %v", rel)
			continue
		}

		if opts.DryRun {
			m.printf("[DRY RUN] add hierarchy: #%d under #%d", child, parent)
			result.Hierarchy++
			continue
		}

		created, err := m.Tracker.AddSubIssue(opts.Repo, parent, child)
		if err != nil {
			return result, err
		}
		if created {
			m.printf("Added hierarchy: #%d under #%d", child, parent)
		} else {
			m.printf("Sub-issue already exists: #%d under #%d", child, parent)
		}
		result.Hierarchy++
	}

	return result, nil
}
