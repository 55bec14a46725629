package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/parlint/parlint/internal/adapters/outbound/config"
	"github.com/parlint/parlint/internal/adapters/outbound/engine"
	"github.com/parlint/parlint/internal/adapters/outbound/gitinfo"
	"github.com/parlint/parlint/internal/adapters/outbound/ignore"
	"github.com/parlint/parlint/internal/adapters/outbound/scanner"
	"github.com/parlint/parlint/internal/adapters/outbound/tui"
	"github.com/parlint/parlint/internal/application"
	"github.com/parlint/parlint/internal/domain"
	"github.com/spf13/cobra"
)

const (
	formatText = "text"
	formatJSON = "json"
)

type lintFlags struct {
	fix               bool
	ext               string
	ignorePath        string
	quiet             bool
	configPath        string
	workers           int
	format            string
	failOnWorkerError bool
	verbose           bool
}

func (f lintFlags) runOptions() domain.RunOptions {
	return domain.RunOptions{
		Extensions:        domain.ParseExtensions(f.ext),
		Fix:               f.fix,
		IgnorePath:        f.ignorePath,
		Quiet:             f.quiet,
		Workers:           f.workers,
		FailOnWorkerError: f.failOnWorkerError,
		ConfigPath:        f.configPath,
	}
}

func newLintCmd() *cobra.Command {
	var flags lintFlags

	cmd := &cobra.Command{
		Use:   "parlint [path]",
		Short: "Lint a source tree in parallel",
		Long: "parlint splits the files under path into one chunk per worker, " +
			"lints the chunks concurrently and prints a single merged report.\n\n" +
			"A directory named like a subcommand (rules, init, version, mcp, lint) " +
			"is linted with `parlint ./rules` or `parlint lint rules`.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, pathArg(args), flags)
		},
	}
	bindLintFlags(cmd, &flags)

	return cmd
}

func newLintSubCmd() *cobra.Command {
	var flags lintFlags

	cmd := &cobra.Command{
		Use:   "lint [path]",
		Short: "Lint a source tree in parallel (same as the bare command)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, pathArg(args), flags)
		},
	}
	bindLintFlags(cmd, &flags)

	return cmd
}

func bindLintFlags(cmd *cobra.Command, flags *lintFlags) {
	f := cmd.Flags()
	f.BoolVar(&flags.fix, "fix", false, "Apply automatic fixes and rewrite files")
	f.StringVar(&flags.ext, "ext", "", "Comma-separated extensions to lint (e.g. .go,.js)")
	f.StringVar(&flags.ignorePath, "ignore-path", "", "Ignore file to use instead of .parlintignore")
	f.BoolVar(&flags.quiet, "quiet", false, "Report errors only")
	f.StringVar(&flags.configPath, "config", "", "Config file to use instead of searching for one")
	f.IntVar(&flags.workers, "workers", 0, "Number of workers (0 = one per CPU)")
	f.StringVar(&flags.format, "format", formatText, "Output format: text or json")
	f.BoolVar(&flags.failOnWorkerError, "fail-on-worker-error", false, "Exit 1 when a worker fails")
	f.BoolVarP(&flags.verbose, "verbose", "v", false, "Log phases and worker timings")
}

func pathArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func runLint(cmd *cobra.Command, path string, flags lintFlags) error {
	if flags.format != formatText && flags.format != formatJSON {
		return fmt.Errorf("unknown format %q (valid: text, json)", flags.format)
	}
	if flags.workers < 0 {
		return fmt.Errorf("--workers must be >= 0, got %d", flags.workers)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	var reporter domain.Reporter = tui.NewLineReporter(cmd.OutOrStdout(), cmd.ErrOrStderr(), displayRoot(absPath))
	if flags.format == formatJSON {
		reporter = tui.JSONReporter{}
	}

	svc := application.NewLintService(
		config.New(),
		ignore.New(),
		scanner.New(),
		engine.New(),
		reporter,
		newLogger(cmd.ErrOrStderr(), flags.verbose),
	).WithGitInfo(gitinfo.New())

	summary, runErr := svc.RunAll(cmd.Context(), absPath, flags.runOptions())
	if summary == nil {
		return runErr
	}

	if flags.format == formatJSON {
		if err := tui.WriteJSON(cmd.OutOrStdout(), summary, flags.quiet); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	} else {
		fmt.Fprint(cmd.ErrOrStderr(), tui.RenderFailures(summary))
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderSummary(summary))
	}

	if runErr != nil {
		return fmt.Errorf("run interrupted: %w", runErr)
	}
	if summary.ExitCode != domain.ExitOK {
		return errLintFailed
	}
	return nil
}

// displayRoot is the directory report paths are shown relative to.
func displayRoot(absPath string) string {
	if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
		return filepath.Dir(absPath)
	}
	return absPath
}

// IsLintFailure reports whether err only carries a failing lint result that
// has already been reported.
func IsLintFailure(err error) bool {
	return errors.Is(err, errLintFailed)
}
