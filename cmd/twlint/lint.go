package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/yacobolo/twlint/internal/twlint"
)

// exit is replaced in tests
var exit = os.Exit

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint utility class strings in Go/templ files",
	Long: `Check class strings in Go and templ files against the compiled stylesheet.
Rules: ` + strings.Join(twlint.AllRules, ", ") + `. The unregistered rule is opt-in.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLint(cmd)
	},
}

func init() {
	f := lintCmd.Flags()
	f.StringSlice("paths", []string{
		"internal/web/**/*.templ",
		"internal/web/**/*.go",
	}, "File patterns to scan for class strings")
	f.String("recipes", "", "YAML file with extra shorthand groups")
	f.StringSlice("rules", nil, "Rules to run (default: all but unregistered)")
	f.String("order", "official", "Order policy: asc|desc|official|improved")
	f.Bool("collapse", false, "Suggest collapsing several classes into one")
	f.Float64("root-font-size", 16, "Pixels per rem when comparing lengths (0 disables)")
	f.Int("concurrency", 0, "Files linted in parallel (0=number of CPUs)")
	f.Bool("strict", false, "Exit 1 on any issue (CI mode)")
	f.String("output-format", "", "Output format: issues|summary|full|json|markdown")
	f.Int("max-issues-per-linter", 0, "Max issues to show per rule (0=unlimited)")
	f.Int("max-same-issues", 0, "Max repeated issues to show (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with issues")
	f.Bool("print-linter-name", true, "Show (rule) suffix on issues")
}

func runLint(cmd *cobra.Command) error {
	lintConfig := buildLintConfig()

	lintResult, err := twlint.Lint(cmd.Context(), lintConfig)
	if err != nil {
		return fmt.Errorf("lint failed: %w", err)
	}

	quiet := getBoolWithFallback("quiet", "quiet", false)
	outputFormat := getStringWithFallback("output-format", "lint.output-format", "")
	format := twlint.DetermineOutputFormat(outputFormat, quiet)

	if !quiet {
		twlint.WriteOutput(cmd.OutOrStdout(), lintResult, format, lintConfig)
	}

	// Strict mode fails on any issue; otherwise only errors fail the build
	if lintConfig.Strict && len(lintResult.Issues) > 0 {
		exit(1)
	} else if lintResult.ErrorCount > 0 {
		exit(1)
	}

	return nil
}
