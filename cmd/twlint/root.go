package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

var rootCmd = &cobra.Command{
	Use:   "twlint",
	Short: "Utility class linter for Go/templ projects",
	Long: `Check utility class strings against the compiled stylesheet.
Reports classes out of order, longhands that have a shorthand, conflicting
classes and classes with a simpler canonical form.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = logger.Sync()
	},
	// Default behavior: run lint when no subcommand is given.
	// loadConfig is called here because PreRunE of lintCmd
	// is not triggered when delegating via rootCmd.RunE.
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		return runLint(cmd)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	pf := rootCmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("quiet", false, "Suppress all output (exit code only)")
	pf.Bool("color", false, "Force color output")
	pf.String("config", ".twlint.yaml", "Config file path")
	pf.StringSlice("stylesheets", []string{"dist/**/*.css"}, "Compiled utility stylesheets")
	pf.String("prefix", "", "Design-system class prefix")
	pf.String("separator", ":", "Variant separator")

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(orderCmd)
	rootCmd.AddCommand(dissectCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLogger builds a production logger on stderr. Only warnings are shown
// unless verbose is set.
func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}
