package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/parlint/parlint/internal/adapters/outbound/config"
	"github.com/parlint/parlint/internal/adapters/outbound/engine"
	"github.com/parlint/parlint/internal/adapters/outbound/tui"
	"github.com/parlint/parlint/internal/domain"
	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rules [path]",
		Short: "List the builtin rules",
		Long:  "List the builtin rules with the severity and threshold in effect for the project at path.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			cfg, err := projectConfig(absPath)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(engine.Catalog())
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderRules(engine.Catalog(), cfg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the rule catalog as JSON")

	return cmd
}

// projectConfig returns the config governing dir, or the defaults when
// there is none.
func projectConfig(dir string) (domain.LintConfig, error) {
	handle, err := config.New().Locate(dir)
	if errors.Is(err, domain.ErrConfigNotFound) {
		return domain.DefaultConfig(), nil
	}
	if err != nil {
		return domain.LintConfig{}, err
	}
	return handle.Config, nil
}
