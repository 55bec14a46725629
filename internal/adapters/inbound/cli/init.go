package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parlint/parlint/internal/adapters/outbound/config"
	"github.com/parlint/parlint/internal/domain"
	"github.com/spf13/cobra"
)

const configFileName = ".parlint.yaml"

func newInitCmd() *cobra.Command {
	var (
		engineKind string
		command    string
		force      bool
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .parlint.yaml configuration file",
		Long:  "Create a .parlint.yaml with the default rule set, or wired to an external linter with --engine command.",
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

			dest := filepath.Join(absPath, configFileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
				}
			}

			cfg := initialConfig(domain.EngineKind(engineKind), command)
			if err := cfg.Validate(); err != nil {
				return err
			}

			content, err := generateConfig(cfg)
			if err != nil {
				return err
			}

			if err := os.WriteFile(dest, content, 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFileName)
			return nil
		},
	}

	cmd.Flags().StringVar(&engineKind, "engine", string(domain.EngineBuiltin), "Engine kind (builtin, command)")
	cmd.Flags().StringVar(&command, "command", "eslint", "Linter executable for the command engine")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .parlint.yaml")

	return cmd
}

func initialConfig(kind domain.EngineKind, command string) domain.LintConfig {
	cfg := domain.DefaultConfig()
	if kind == domain.EngineBuiltin {
		return cfg
	}
	cfg.Extensions = []string{".js", ".jsx", ".ts", ".tsx"}
	cfg.IgnorePatterns = []string{"dist/", "build/"}
	cfg.Engine = domain.EngineConfig{
		Kind:    kind,
		Command: command,
		Args:    []string{"--format", "json"},
		FixArgs: []string{"--fix"},
	}
	return cfg
}

func generateConfig(cfg domain.LintConfig) ([]byte, error) {
	body, err := config.Render(cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering config: %w", err)
	}

	header := "# parlint configuration\n# Run `parlint rules` to list the builtin rules.\n\n"
	footer := ""
	if cfg.EffectiveEngine() == domain.EngineBuiltin {
		footer = `
# Override a rule with a severity or a mapping:
# rules:
#   no_todo: off
#   max_func_lines: {severity: error, max: 60}
`
	}
	return []byte(header + string(body) + footer), nil
}
