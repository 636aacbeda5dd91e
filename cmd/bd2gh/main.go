// Command bd2gh migrates a Beads JSONL export into GitHub issues.
//
// The migration runs in two phases: create GitHub issues from the
// export, then apply optional dependency and hierarchy links from a
// links file. By default it is a dry run; pass --apply to execute
// write operations. A mapping ledger on disk makes re-runs resume
// where the last run stopped.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/steveyegge/bd2gh/internal/beads"
	"github.com/steveyegge/bd2gh/internal/github"
	"github.com/steveyegge/bd2gh/internal/links"
	"github.com/steveyegge/bd2gh/internal/mapping"
	"github.com/steveyegge/bd2gh/internal/migrate"
	"github.com/steveyegge/bd2gh/internal/ui"
)

var (
	configPath  string
	issuesPath  string
	mappingPath string
	linksPath   string
	repoFlag    string
	openOnly    bool
	limit       int
	applyFlag   bool
)

var rootCmd = &cobra.Command{
	Use:   "bd2gh",
	Short: "Migrate Beads issues into GitHub issues",
	Long: `Migrate Beads issues into GitHub issues.

Reads a Beads JSONL export, creates one GitHub issue per record via the
gh CLI, and records each created issue number in a mapping file so the
migration is idempotent and resumable. An optional links file wires up
blocking dependencies and sub-issue hierarchy afterwards.

Without --apply this is a dry run: every intended mutation is printed
and nothing is written, locally or remotely.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, configPath)
		if err != nil {
			return err
		}
		return run(github.NewCLI(), cfg)
	},
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "Path to a bd2gh config file (default .bd2gh.yaml)")
	flags.StringVar(&issuesPath, "issues", defaultIssuesPath, "Path to Beads issues JSONL")
	flags.StringVar(&mappingPath, "mapping", defaultMappingPath, "Path to persistent beads->github issue mapping")
	flags.StringVar(&linksPath, "links", "", "Optional JSON or YAML file with dependency/hierarchy links")
	flags.StringVar(&repoFlag, "repo", "", "GitHub repo in OWNER/REPO form (default: auto-detect via gh)")
	flags.BoolVar(&openOnly, "open-only", false, "Migrate only issues with status=open")
	flags.IntVar(&limit, "limit", -1, "Migrate at most N issues")
	flags.BoolVar(&applyFlag, "apply", false, "Execute writes. Without this flag, bd2gh is a dry run")
}

// run executes the full migration against the given tracker.
func run(tracker github.Tracker, cfg *Config) error {
	if _, err := os.Stat(cfg.Issues); err != nil {
		fmt.Fprintf(os.Stderr, "Issues file not found: %s\n", cfg.Issues)
		os.Exit(1)
	}

	repo := cfg.Repo
	if repo == "" {
		detected, err := tracker.DetectRepo()
		if err != nil {
			return fmt.Errorf("detecting repository: %w", err)
		}
		repo = detected
	}

	records, err := beads.LoadJSONL(cfg.Issues)
	if err != nil {
		return err
	}

	ledger, err := mapping.Load(cfg.Mapping)
	if err != nil {
		return err
	}
	if err := ledger.CheckRepo(repo); err != nil {
		var mismatch *mapping.RepoMismatchError
		if errors.As(err, &mismatch) {
			fmt.Fprintf(os.Stderr, "Refusing to continue: %v\n", err)
			os.Exit(1)
		}
		return err
	}

	linkSpec, err := links.Load(cfg.Links)
	if err != nil {
		return err
	}

	mode := "DRY RUN"
	if cfg.Apply {
		mode = "APPLY"
	}
	fmt.Println(ui.Header("Mode: " + mode))
	fmt.Println("Repo: " + repo)
	fmt.Println(ui.Muted("Issues input: " + cfg.Issues))
	fmt.Println(ui.Muted("Mapping file: " + cfg.Mapping))
	if cfg.Links != "" {
		fmt.Println(ui.Muted("Links file: " + cfg.Links))
	}

	opts := migrate.Options{
		Repo:        repo,
		MappingPath: cfg.Mapping,
		DryRun:      !cfg.Apply,
		OpenOnly:    cfg.OpenOnly,
		Limit:       cfg.Limit,
	}

	m := migrate.New(tracker)
	result, err := m.Run(records, ledger, opts)
	if err != nil {
		return err
	}

	linkResult, err := m.ApplyLinks(linkSpec, ledger.Issues, opts)
	if err != nil {
		return err
	}

	fmt.Println(ui.Header("Summary:"))
	fmt.Printf("- Issues planned: %d\n", result.Planned)
	fmt.Printf("- Issues created: %d\n", result.Created)
	fmt.Printf("- Dependency links processed: %d\n", linkResult.Dependencies)
	fmt.Printf("- Hierarchy links processed: %d\n", linkResult.Hierarchy)

	if cfg.Apply {
		fmt.Println(ui.Pass("Migration apply complete."))
	} else {
		fmt.Println(ui.Pass("Dry-run complete. Re-run with --apply to execute migration."))
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
