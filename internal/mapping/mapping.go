// Package mapping persists the beads-id to GitHub-issue-number ledger
// that makes the migration idempotent and resumable.
//
// The ledger is a small JSON file, sorted and indented so it diffs
// cleanly in git. It is flushed after every successful creation, so an
// interrupted run loses at most the one creation that was in flight.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Ledger binds a target repository to the issues created in it.
// Repo is nil until the first successful creation against a repository.
type Ledger struct {
	Repo   *string        `json:"repo"`
	Issues map[string]int `json:"issues"`
}

// FormatError reports a ledger file with the wrong shape.
type FormatError struct {
	Path string
	Msg  string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("mapping file %s: %s", e.Path, e.Msg)
}

// RepoMismatchError means the ledger belongs to a different repository
// than the one being migrated into. Continuing would scatter links and
// numbers across two repos, so the run refuses before any mutation.
type RepoMismatchError struct {
	Bound   string
	Current string
}

func (e *RepoMismatchError) Error() string {
	return fmt.Sprintf("mapping file is bound to repo %s, current repo is %s", e.Bound, e.Current)
}

// New returns an empty, unbound ledger.
func New() *Ledger {
	return &Ledger{Issues: make(map[string]int)}
}

// Load reads a ledger from path. A missing file is an empty ledger, not
// an error. Missing repo/issues keys are defaulted; a non-object top
// level or a non-object issues field is a *FormatError.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path comes from CLI flags
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading mapping file %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FormatError{Path: path, Msg: "must be a JSON object"}
	}
	// json.Unmarshal accepts a top-level null without error, leaving the
	// map nil. Treating that as an empty ledger would recreate every
	// issue, so reject it like any other wrong shape.
	if raw == nil {
		return nil, &FormatError{Path: path, Msg: "must be a JSON object"}
	}

	ledger := New()
	if repoRaw, ok := raw["repo"]; ok {
		if err := json.Unmarshal(repoRaw, &ledger.Repo); err != nil {
			return nil, &FormatError{Path: path, Msg: "field 'repo' must be a string or null"}
		}
	}
	if issuesRaw, ok := raw["issues"]; ok {
		if err := json.Unmarshal(issuesRaw, &ledger.Issues); err != nil {
			return nil, &FormatError{Path: path, Msg: "field 'issues' must be an object"}
		}
		if ledger.Issues == nil {
			ledger.Issues = make(map[string]int)
		}
	}
	return ledger, nil
}

// Save writes the ledger to path with sorted keys, 2-space indent, and a
// trailing newline. Parent directories are created as needed. The write
// goes through a temp file and rename; good enough for the single-writer
// model this tool assumes.
func Save(path string, ledger *Ledger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating mapping dir: %w", err)
	}

	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing mapping: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(filepath.Dir(path), ".mapping-*.json")
	if err != nil {
		return fmt.Errorf("creating temp mapping file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing mapping file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("closing mapping file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing mapping file: %w", err)
	}
	return nil
}

// CheckRepo enforces the one-ledger-per-repository invariant.
func (l *Ledger) CheckRepo(current string) error {
	if l.Repo != nil && *l.Repo != "" && *l.Repo != current {
		return &RepoMismatchError{Bound: *l.Repo, Current: current}
	}
	return nil
}

// Bind records the repository this ledger belongs to.
func (l *Ledger) Bind(repo string) {
	l.Repo = &repo
}
