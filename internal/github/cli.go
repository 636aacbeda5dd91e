package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// apiHeaders are sent on every raw REST call made through gh api.
var apiHeaders = []string{
	"Accept: application/vnd.github+json",
	"X-GitHub-Api-Version: 2022-11-28",
}

// Tracker is the remote issue tracker surface the migration needs.
// The real implementation shells out to gh; tests substitute a recording
// fake so no remote calls happen.
type Tracker interface {
	// DetectRepo returns the OWNER/REPO the gh CLI resolves for the
	// current directory.
	DetectRepo() (string, error)

	// CreateIssue creates an issue and returns its user-facing number.
	CreateIssue(repo, title, body string, labels []string) (int, error)

	// CloseIssue closes an issue, posting comment on the way out.
	CloseIssue(repo string, number int, comment string) error

	// BlockedBy returns the set of issue numbers currently blocking number.
	BlockedBy(repo string, number int) (map[int]bool, error)

	// SubIssues returns the set of issue numbers nested under number.
	SubIssues(repo string, number int) (map[int]bool, error)

	// NumericID returns GitHub's internal id for an issue. The
	// relationship endpoints address issues by this id, not by number.
	NumericID(repo string, number int) (int64, error)

	// AddDependency marks blocked as blocked-by blocker. Returns false
	// without calling the write endpoint when the link already exists.
	AddDependency(repo string, blocked, blocker int) (bool, error)

	// AddSubIssue nests child under parent. Returns false without
	// calling the write endpoint when the link already exists.
	AddSubIssue(repo string, parent, child int) (bool, error)
}

// CommandRunner executes a command and returns its combined stdout.
// Swappable so tests can fake gh invocations.
type CommandRunner func(name string, args ...string) ([]byte, error)

// CommandWithStdinRunner executes a command feeding stdin.
type CommandWithStdinRunner func(name string, args []string, stdin string) ([]byte, error)

// CommandError reports a failed gh invocation. Always fatal: the tool
// performs no client-side retry, throttling is gh's job.
type CommandError struct {
	Args     []string
	ExitCode int
	Stderr   string
	Stdout   string
}

func (e *CommandError) Error() string {
	stderr := strings.TrimSpace(e.Stderr)
	if stderr == "" {
		stderr = "(no stderr)"
	}
	msg := fmt.Sprintf("command failed (%d): %s\nstderr:\n%s", e.ExitCode, strings.Join(e.Args, " "), stderr)
	if out := strings.TrimSpace(e.Stdout); out != "" {
		msg += "\nstdout:\n" + out
	}
	return msg
}

// ParseError reports a create response whose URL had no trailing issue number.
type ParseError struct {
	URL string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse issue number from URL: %s", e.URL)
}

// CLI drives the gh command-line tool. gh owns authentication, rate
// limiting, and endpoint selection; we only build argv and parse stdout.
type CLI struct {
	run      CommandRunner
	runStdin CommandWithStdinRunner
}

// NewCLI returns a CLI backed by real gh invocations.
func NewCLI() *CLI {
	return &CLI{
		run:      defaultRunner,
		runStdin: defaultStdinRunner,
	}
}

// NewCLIWithRunners returns a CLI with injected runners, for tests.
func NewCLIWithRunners(run CommandRunner, runStdin CommandWithStdinRunner) *CLI {
	return &CLI{run: run, runStdin: runStdin}
}

func defaultRunner(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output() // #nosec G204 - fixed binary, built argv
}

func defaultStdinRunner(name string, args []string, stdin string) ([]byte, error) {
	cmd := exec.Command(name, args...) // #nosec G204 - fixed binary, built argv
	cmd.Stdin = strings.NewReader(stdin)
	return cmd.Output()
}

// gh runs a gh subcommand and returns trimmed stdout, wrapping failures
// in *CommandError.
func (c *CLI) gh(args ...string) (string, error) {
	out, err := c.run("gh", args...)
	return ghResult(args, out, err)
}

func (c *CLI) ghStdin(stdin string, args ...string) (string, error) {
	out, err := c.runStdin("gh", args, stdin)
	return ghResult(args, out, err)
}

func ghResult(args []string, out []byte, err error) (string, error) {
	if err != nil {
		cmdErr := &CommandError{
			Args:     append([]string{"gh"}, args...),
			ExitCode: -1,
			Stdout:   string(out),
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.ExitCode = exitErr.ExitCode()
			cmdErr.Stderr = string(exitErr.Stderr)
		} else {
			cmdErr.Stderr = err.Error()
		}
		return "", cmdErr
	}
	return strings.TrimSpace(string(out)), nil
}

// DetectRepo asks gh for the repository the current directory resolves to.
func (c *CLI) DetectRepo() (string, error) {
	return c.gh("repo", "view", "--json", "nameWithOwner", "--jq", ".nameWithOwner")
}

// issueNumberPattern matches the trailing issue number of a resource URL.
var issueNumberPattern = regexp.MustCompile(`/(\d+)$`)

// ParseIssueNumber extracts the issue number from a created-issue URL.
func ParseIssueNumber(url string) (int, error) {
	m := issueNumberPattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return 0, &ParseError{URL: url}
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, &ParseError{URL: url}
	}
	return n, nil
}

// CreateIssue creates an issue and returns its number, parsed from the
// resource URL gh prints. The body goes over stdin to avoid a temp file.
func (c *CLI) CreateIssue(repo, title, body string, labels []string) (int, error) {
	args := []string{
		"issue", "create",
		"--repo", repo,
		"--title", title,
		"--body-file", "-",
	}
	for _, label := range labels {
		args = append(args, "--label", label)
	}
	url, err := c.ghStdin(body, args...)
	if err != nil {
		return 0, err
	}
	return ParseIssueNumber(url)
}

// CloseIssue closes an issue with a comment.
func (c *CLI) CloseIssue(repo string, number int, comment string) error {
	_, err := c.gh("issue", "close", strconv.Itoa(number), "--repo", repo, "--comment", comment)
	return err
}

// numberSet runs a gh api query that emits one issue number per line.
func (c *CLI) numberSet(path string) (map[int]bool, error) {
	out, err := c.gh("api", path, "--jq", "map(.number) | .[]")
	if err != nil {
		return nil, err
	}
	set := make(map[int]bool)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("unexpected number in %s response: %q", path, line)
		}
		set[n] = true
	}
	return set, nil
}

// BlockedBy returns the numbers of issues currently blocking number.
func (c *CLI) BlockedBy(repo string, number int) (map[int]bool, error) {
	return c.numberSet(fmt.Sprintf("repos/%s/issues/%d/dependencies/blocked_by", repo, number))
}

// SubIssues returns the numbers of issues nested under number.
func (c *CLI) SubIssues(repo string, number int) (map[int]bool, error) {
	return c.numberSet(fmt.Sprintf("repos/%s/issues/%d/sub_issues", repo, number))
}

// NumericID returns the internal id GitHub's relationship endpoints require.
func (c *CLI) NumericID(repo string, number int) (int64, error) {
	out, err := c.gh("api", fmt.Sprintf("repos/%s/issues/%d", repo, number), "--jq", ".id")
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(out, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected issue id %q for #%d: %w", out, number, err)
	}
	return id, nil
}

// postLink POSTs a JSON payload to a relationship endpoint.
func (c *CLI) postLink(path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling link payload: %w", err)
	}
	args := []string{"api", "-X", "POST", path}
	for _, h := range apiHeaders {
		args = append(args, "-H", h)
	}
	args = append(args, "--input", "-")
	_, err = c.ghStdin(string(body), args...)
	return err
}

// AddDependency records blocked as blocked-by blocker. Reads the current
// blocked-by set first so re-runs are idempotent.
func (c *CLI) AddDependency(repo string, blocked, blocker int) (bool, error) {
	existing, err := c.BlockedBy(repo, blocked)
	if err != nil {
		return false, err
	}
	if existing[blocker] {
		return false, nil
	}
	blockerID, err := c.NumericID(repo, blocker)
	if err != nil {
		return false, err
	}
	path := fmt.Sprintf("repos/%s/issues/%d/dependencies/blocked_by", repo, blocked)
	if err := c.postLink(path, map[string]int64{"issue_id": blockerID}); err != nil {
		return false, err
	}
	return true, nil
}

// AddSubIssue nests child under parent, idempotently.
func (c *CLI) AddSubIssue(repo string, parent, child int) (bool, error) {
	existing, err := c.SubIssues(repo, parent)
	if err != nil {
		return false, err
	}
	if existing[child] {
		return false, nil
	}
	childID, err := c.NumericID(repo, child)
	if err != nil {
		return false, err
	}
	path := fmt.Sprintf("repos/%s/issues/%d/sub_issues", repo, parent)
	if err := c.postLink(path, map[string]int64{"sub_issue_id": childID}); err != nil {
		return false, err
	}
	return true, nil
}
