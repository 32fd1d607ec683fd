package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/yacobolo/twlint/internal/stylesheet"
	"github.com/yacobolo/twlint/internal/twlint"
	"github.com/yacobolo/twlint/utility"
)

var k = koanf.New(".")

// loadConfig loads configuration with precedence: flags > env > file > defaults.
// It must be called after cobra parses flags (in PreRunE or RunE).
func loadConfig(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = ".twlint.yaml"
	}

	if err := loadConfigFromPath(configPath); err != nil {
		return err
	}

	// 3. CLI flags (highest precedence, only flags that were explicitly set).
	// Flag defaults are left to the fallback helpers so they never shadow
	// the nested config file keys.
	flags := cmd.Flags()
	provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
		if !f.Changed {
			return "", nil
		}
		return f.Name, posflag.FlagVal(flags, f)
	})
	if err := k.Load(provider, nil); err != nil {
		return fmt.Errorf("loading command flags: %w", err)
	}

	return nil
}

// loadConfigFromPath loads configuration from a file and environment variables.
// This is separated from loadConfig to allow testing without a cobra command.
func loadConfigFromPath(configPath string) error {
	// 1. Config file (lowest precedence among providers)
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return fmt.Errorf("loading config file %s: %w", configPath, err)
		}
	}

	// 2. Environment variables (TWLINT_* prefix)
	if err := k.Load(env.Provider("TWLINT_", ".", func(s string) string {
		// TWLINT_LINT_STRICT -> lint.strict
		// TWLINT_PREFIX -> prefix
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "TWLINT_")),
			"_", ".",
		)
	}), nil); err != nil {
		return fmt.Errorf("loading environment variables: %w", err)
	}

	return nil
}

// buildSheetConfig returns the stylesheet patterns and class syntax settings.
func buildSheetConfig() ([]string, stylesheet.Config) {
	return getStringsWithFallback("stylesheets", "stylesheets", []string{"dist/**/*.css"}),
		stylesheet.Config{
			Prefix:    getStringWithFallback("prefix", "prefix", ""),
			Separator: getStringWithFallback("separator", "separator", ":"),
		}
}

// buildLintConfig constructs the library's LintConfig struct from koanf state.
func buildLintConfig() twlint.LintConfig {
	stylesheets, sheetConfig := buildSheetConfig()

	return twlint.LintConfig{
		Stylesheets: stylesheets,
		ScanPaths: getStringsWithFallback("paths", "lint.paths", []string{
			"internal/web/**/*.templ",
			"internal/web/**/*.go",
		}),
		Prefix:             sheetConfig.Prefix,
		Separator:          sheetConfig.Separator,
		RecipeFile:         getStringWithFallback("recipes", "lint.recipes", ""),
		Rules:              getStringsWithFallback("rules", "lint.rules", nil),
		OrderPolicy:        utility.OrderPolicy(getStringWithFallback("order", "lint.order", string(utility.OrderOfficial))),
		Collapse:           getBoolWithFallback("collapse", "lint.collapse", false),
		RootFontSize:       getFloat64WithFallback("root-font-size", "lint.root-font-size", 16),
		Concurrency:        getIntWithFallback("concurrency", "lint.concurrency", 0),
		Verbose:            getBoolWithFallback("verbose", "verbose", false),
		Strict:             getBoolWithFallback("strict", "lint.strict", false),
		MaxIssuesPerLinter: getIntWithFallback("max-issues-per-linter", "lint.max-issues-per-linter", 0),
		MaxSameIssues:      getIntWithFallback("max-same-issues", "lint.max-same-issues", 0),
		PrintIssuedLines:   getBoolWithFallback("print-lines", "lint.print-lines", true),
		PrintLinterName:    getBoolWithFallback("print-linter-name", "lint.print-linter-name", true),
		UseColors:          getBoolWithFallback("color", "color", false),
		Logger:             logger,
	}
}

// getStringsWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringsWithFallback(flagKey, configKey string, defaultVal []string) []string {
	if v := k.Strings(flagKey); len(v) > 0 {
		return v
	}
	if v := k.Strings(configKey); len(v) > 0 {
		return v
	}
	return defaultVal
}

// getStringWithFallback checks the flag key first, then the config file key, then returns the default.
func getStringWithFallback(flagKey, configKey, defaultVal string) string {
	if v := k.String(flagKey); v != "" {
		return v
	}
	if v := k.String(configKey); v != "" {
		return v
	}
	return defaultVal
}

// getBoolWithFallback checks the flag key first, then the config file key, then returns the default.
func getBoolWithFallback(flagKey, configKey string, defaultVal bool) bool {
	if k.Exists(flagKey) {
		return k.Bool(flagKey)
	}
	if k.Exists(configKey) {
		return k.Bool(configKey)
	}
	return defaultVal
}

// getIntWithFallback checks the flag key first, then the config file key, then returns the default.
func getIntWithFallback(flagKey, configKey string, defaultVal int) int {
	if k.Exists(flagKey) {
		return k.Int(flagKey)
	}
	if k.Exists(configKey) {
		return k.Int(configKey)
	}
	return defaultVal
}

// getFloat64WithFallback checks the flag key first, then the config file key, then returns the default.
func getFloat64WithFallback(flagKey, configKey string, defaultVal float64) float64 {
	if k.Exists(flagKey) {
		return k.Float64(flagKey)
	}
	if k.Exists(configKey) {
		return k.Float64(configKey)
	}
	return defaultVal
}
