package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .twlint.yaml config file",
	Long:  `Create a .twlint.yaml configuration file in the current directory with sensible defaults.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".twlint.yaml"); err == nil && !force {
			return fmt.Errorf(".twlint.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".twlint.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .twlint.yaml")
		return nil
	},
}

const defaultConfig = `# twlint configuration
# Docs: https://github.com/yacobolo/twlint

# Shared settings
verbose: false
stylesheets:
  - "dist/**/*.css"
prefix: ""       # design-system prefix, e.g. "tw"
separator: ":"

# Linting settings
lint:
  paths:
    - "internal/web/**/*.templ"
    - "internal/web/**/*.go"
  rules: [order, shorthand, conflict, canonical]   # add unregistered to flag unknown classes
  order: official          # asc | desc | official | improved
  collapse: false
  root-font-size: 16
  recipes: ""              # YAML file with extra shorthand groups
  concurrency: 0           # 0 = number of CPUs
  strict: false
  output-format: issues    # issues | summary | full | json | markdown
  max-issues-per-linter: 0 # 0 = unlimited
  max-same-issues: 0       # 0 = unlimited
  print-lines: true
  print-linter-name: true
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
