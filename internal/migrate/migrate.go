// Package migrate orchestrates the one-shot Beads to GitHub migration:
// create issues, record them in the mapping ledger, then wire up links.
package migrate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/steveyegge/bd2gh/internal/beads"
	"github.com/steveyegge/bd2gh/internal/github"
	"github.com/steveyegge/bd2gh/internal/mapping"
	"github.com/steveyegge/bd2gh/internal/ui"
)

// Options controls a migration run.
type Options struct {
	Repo        string // target OWNER/REPO, already resolved
	MappingPath string // ledger file, flushed after every creation
	DryRun      bool   // log intended actions, mutate nothing
	OpenOnly    bool   // migrate only records with status=open
	Limit       int    // max records considered; negative means no limit
}

// Result summarizes the creation phase.
type Result struct {
	Created int // issues actually created this run
	Planned int // records that passed the skip checks
}

// Migrator runs the migration against a Tracker. Out receives the
// line-per-action progress protocol; it defaults to stdout.
type Migrator struct {
	Tracker github.Tracker
	Out     io.Writer
}

// New returns a Migrator writing progress to stdout.
func New(tracker github.Tracker) *Migrator {
	return &Migrator{Tracker: tracker, Out: os.Stdout}
}

func (m *Migrator) printf(format string, args ...any) {
	fmt.Fprintf(m.out(), format+"\n", args...)
}

func (m *Migrator) warnf(format string, args ...any) {
	fmt.Fprintln(m.out(), ui.Warn(fmt.Sprintf(format, args...)))
}

func (m *Migrator) out() io.Writer {
	if m.Out == nil {
		return os.Stdout
	}
	return m.Out
}

// selectRecords applies the open-only filter and the record limit, in
// that order, before any per-record skip checks run.
func selectRecords(records []beads.Record, opts Options) []beads.Record {
	selected := records
	if opts.OpenOnly {
		filtered := make([]beads.Record, 0, len(selected))
		for _, rec := range selected {
			if rec.IsOpen() {
				filtered = append(filtered, rec)
			}
		}
		selected = filtered
	}
	if opts.Limit >= 0 && len(selected) > opts.Limit {
		selected = selected[:opts.Limit]
	}
	return selected
}

// dryRunLabels renders a label list the way the dry-run line promises it:
// ['a', 'b', 'c'].
func dryRunLabels(labels []string) string {
	quoted := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = "'" + l + "'"
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// closeComment builds the comment posted when closing a migrated issue.
func closeComment(rec beads.Record) string {
	comment := fmt.Sprintf("Migrated from beads issue %s.", rec.ID())
	if reason := rec.CloseReason(); reason != "" {
		comment += fmt.Sprintf(" Close reason: %s.", reason)
	}
	return comment
}

// Run migrates records into opts.Repo. Records already present in the
// ledger are skipped, which is what makes an interrupted run resumable.
// The ledger is flushed to disk after every successful creation; a crash
// loses at most the one creation that had not been recorded yet.
func (m *Migrator) Run(records []beads.Record, ledger *mapping.Ledger, opts Options) (*Result, error) {
	result := &Result{}

	for _, rec := range selectRecords(records, opts) {
		id := rec.ID()
		if id == "" {
			m.warnf("Skipping issue without id")
			continue
		}
		if number, ok := ledger.Issues[id]; ok {
			m.printf("Skipping %s: already mapped to #%d", id, number)
			continue
		}

		result.Planned++

		title := rec.Title()
		if title == "" {
			title = "migrated: " + id
		}
		labels := github.BuildLabels(rec)

		if opts.DryRun {
			m.printf("[DRY RUN] create issue: title='%s', labels=%s", title, dryRunLabels(labels))
			continue
		}

		body := github.BuildBody(rec)
		number, err := m.Tracker.CreateIssue(opts.Repo, title, body, labels)
		if err != nil {
			return result, err
		}
		m.printf("Created #%d for beads issue %s", number, id)

		ledger.Issues[id] = number
		result.Created++
		ledger.Bind(opts.Repo)
		if err := mapping.Save(opts.MappingPath, ledger); err != nil {
			return result, err
		}

		if rec.IsClosed() {
			if err := m.Tracker.CloseIssue(opts.Repo, number, closeComment(rec)); err != nil {
				return result, err
			}
			m.printf("Closed #%d (source was closed)", number)
		}
	}

	return result, nil
}
