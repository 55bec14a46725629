package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/parlint/parlint/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// errLintFailed signals exit status 1 after the report has been printed.
var errLintFailed = errors.New("lint failed")

func newRootCmd() *cobra.Command {
	cmd := newLintCmd()
	cmd.AddCommand(newLintSubCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newRulesCmd())
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

// Execute runs the CLI until completion or SIGINT/SIGTERM. A non-nil error
// means the process should exit with status 1.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err != nil && !errors.Is(err, errLintFailed) {
		fmt.Fprint(cmd.ErrOrStderr(), tui.RenderError(err))
	}
	return err
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix:          "parlint",
		Level:           level,
		ReportTimestamp: verbose,
	})
}
