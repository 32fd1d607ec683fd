// Package twlint lints utility class strings in templates and Go sources.
//
// # Oracle
//
// The compiled utility stylesheet is the source of truth. Every class
// selector in it is a registered class; its rule position gives the official
// order and its declarations drive conflict detection and canonicalization.
//
// # Rules
//
//   - order:        class string is not sorted by the configured policy
//   - shorthand:    longhands can be merged into shorthands (w-10 h-10 → size-10)
//   - conflict:     two classes set the same properties in the same context
//   - canonical:    a class has a simpler equivalent, or several classes collapse into one
//   - unregistered: class is not in the stylesheet (opt-in)
//
// Every issue carries the corrected class string as its Replacement; files are
// never rewritten.
package twlint

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yacobolo/twlint/internal/stylesheet"
	"github.com/yacobolo/twlint/utility"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// LintConfig holds linting configuration
type LintConfig struct {
	Stylesheets []string // Patterns for compiled CSS (e.g., "dist/**/*.css")
	ScanPaths   []string // Patterns to scan (e.g., "web/**/*.templ")
	Prefix      string   // Design-system prefix, "" for none
	Separator   string   // Variant separator, ":" by default
	RecipeFile  string   // Optional YAML file with extra shorthand groups

	Rules        []string            // Enabled rules, DefaultRules when empty
	OrderPolicy  utility.OrderPolicy // asc|desc|official|improved
	Collapse     bool                // Allow multi-class canonicalization
	RootFontSize float64             // px per rem for canonical comparisons, 0 disables
	Concurrency  int                 // Files linted in parallel, NumCPU when 0

	Verbose bool
	Strict  bool // Exit with code 1 if any issue is found

	// golangci-style output configuration
	MaxIssuesPerLinter int  // 0 = unlimited (default)
	MaxSameIssues      int  // 0 = unlimited (default)
	PrintIssuedLines   bool // Show source lines with issues (default: true)
	PrintLinterName    bool // Show (rule) suffix (default: true)
	UseColors          bool // Force color output

	Logger *zap.Logger // nil disables logging
}

// LintResult contains linting analysis results
type LintResult struct {
	// Issues in golangci-lint format
	Issues           []Issue            // All issues found
	IssuesByCategory map[string][]Issue // Grouped by rule

	FilesScanned      int // Source files linted
	FilesSkipped      int // Generated or gitignored files
	StylesheetFiles   int // Stylesheets loaded
	StylesheetClasses int // Registered classes in the stylesheets
	ClassStrings      int // Class strings found
	ClassesFound      int // Total classes across all class strings
	ErrorCount        int // Issues with error severity
	TruncatedCount    int // Issues removed due to limits

	Warnings []string
}

// Lint loads the stylesheets and checks every class string in the scanned files.
func Lint(ctx context.Context, config LintConfig) (*LintResult, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Step 1: Load the oracle
	sheet, cssFiles, warnings, err := LoadStylesheets(config.Stylesheets, stylesheet.Config{
		Prefix:    config.Prefix,
		Separator: config.Separator,
	}, logger)
	if err != nil {
		return nil, err
	}

	result := &LintResult{
		StylesheetFiles:   len(cssFiles),
		StylesheetClasses: len(sheet.Classes()),
		Warnings:          warnings,
	}

	// Step 2: Build the checker
	chk, err := newChecker(config, sheet)
	if err != nil {
		return nil, err
	}

	// Step 3: Find source files
	files, stats, err := expandGlobPatterns(config.ScanPaths)
	if err != nil {
		return nil, fmt.Errorf("scan files: %w", err)
	}
	result.FilesScanned = stats.FilesScanned
	result.FilesSkipped = stats.FilesSkipped
	logger.Debug("files discovered",
		zap.Int("scanned", stats.FilesScanned),
		zap.Int("skipped", stats.FilesSkipped))

	// Step 4: Lint files in parallel, keeping per-file results in input order
	perFile := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	limit := config.Concurrency
	if limit <= 0 {
		limit = runtime.NumCPU()
	}
	g.SetLimit(limit)

	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perFile[i] = lintFile(file, chk)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("lint: %w", err)
	}

	// Step 5: Merge
	var issues []Issue
	for i, fr := range perFile {
		if fr.err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Failed to scan %s: %v", files[i], fr.err))
			logger.Warn("skipping file", zap.String("file", files[i]), zap.Error(fr.err))
			continue
		}
		result.ClassStrings += fr.classStrings
		result.ClassesFound += fr.classes
		issues = append(issues, fr.issues...)
	}
	sortIssues(issues)

	result.Issues = issues
	result.IssuesByCategory = make(map[string][]Issue)
	for _, issue := range issues {
		result.IssuesByCategory[issue.FromLinter] = append(result.IssuesByCategory[issue.FromLinter], issue)
		if issue.Severity == SeverityError {
			result.ErrorCount++
		}
	}

	// Step 6: Apply issue limiting if configured
	if config.MaxIssuesPerLinter > 0 || config.MaxSameIssues > 0 {
		result.Issues, result.TruncatedCount = limitIssues(result.Issues, config)
	}

	logger.Info("lint complete",
		zap.Int("files", result.FilesScanned),
		zap.Int("class_strings", result.ClassStrings),
		zap.Int("issues", len(result.Issues)))

	return result, nil
}

// LoadStylesheets expands the patterns and builds one oracle from every
// matching stylesheet. Unreadable files become warnings.
func LoadStylesheets(patterns []string, config stylesheet.Config, logger *zap.Logger) (*stylesheet.Sheet, []string, []string, error) {
	cssFiles, err := scanCSSFiles(patterns)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("scan stylesheets: %w", err)
	}
	if len(cssFiles) == 0 {
		return nil, nil, nil, fmt.Errorf("no stylesheets match %v", patterns)
	}

	sheet, warnings := stylesheet.LoadFiles(cssFiles, config, logger)
	return sheet, cssFiles, warnings, nil
}

// newChecker validates the rule and policy settings.
func newChecker(config LintConfig, oracle utility.Oracle) (*checker, error) {
	rules := config.Rules
	if len(rules) == 0 {
		rules = DefaultRules
	}

	enabled := make(map[string]bool, len(rules))
	for _, r := range rules {
		if !slices.Contains(AllRules, r) {
			return nil, fmt.Errorf("unknown rule %q (want one of %v)", r, AllRules)
		}
		enabled[r] = true
	}

	policy := config.OrderPolicy
	if policy == "" {
		policy = utility.OrderOfficial
	}
	policy, err := utility.ParseOrderPolicy(string(policy))
	if err != nil {
		return nil, err
	}

	groups := utility.DefaultShorthandGroups()
	if config.RecipeFile != "" {
		extra, err := LoadRecipes(config.RecipeFile)
		if err != nil {
			return nil, err
		}
		groups = append(groups, extra...)
	}

	return &checker{
		oracle: oracle,
		rules:  enabled,
		policy: policy,
		groups: groups,
		canonical: utility.CanonicalOptions{
			Collapse:     config.Collapse,
			RootFontSize: config.RootFontSize,
		},
	}, nil
}

type fileResult struct {
	issues       []Issue
	classStrings int
	classes      int
	err          error
}

func lintFile(file string, chk *checker) fileResult {
	found, err := scanFile(file)
	if err != nil {
		return fileResult{err: err}
	}

	var fr fileResult
	for _, cs := range found {
		fr.classStrings++
		fr.classes += len(cs.Tokens)
		fr.issues = append(fr.issues, chk.check(cs)...)
	}
	return fr
}

// scanCSSFiles finds all CSS files matching the patterns, in pattern order
func scanCSSFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob pattern %q: %w", pattern, err)
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}

	return files, nil
}

// sortIssues orders issues by file, line, column; ties keep rule order.
func sortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Pos.Filename != issues[j].Pos.Filename {
			return issues[i].Pos.Filename < issues[j].Pos.Filename
		}
		if issues[i].Pos.Line != issues[j].Pos.Line {
			return issues[i].Pos.Line < issues[j].Pos.Line
		}
		return issues[i].Pos.Column < issues[j].Pos.Column
	})
}

// limitIssues applies max-issues-per-linter and max-same-issues constraints
func limitIssues(issues []Issue, config LintConfig) ([]Issue, int) {
	originalCount := len(issues)

	if config.MaxIssuesPerLinter > 0 {
		issues = limitPerLinter(issues, config.MaxIssuesPerLinter)
	}

	if config.MaxSameIssues > 0 {
		issues = deduplicateSameIssues(issues, config.MaxSameIssues)
	}

	return issues, originalCount - len(issues)
}

// limitPerLinter keeps the first max issues of every rule
func limitPerLinter(issues []Issue, maxPerLinter int) []Issue {
	counts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		if counts[issue.FromLinter] < maxPerLinter {
			filtered = append(filtered, issue)
			counts[issue.FromLinter]++
		}
	}

	return filtered
}

// deduplicateSameIssues limits how many times the same message appears
func deduplicateSameIssues(issues []Issue, maxSame int) []Issue {
	messageCounts := make(map[string]int)
	var filtered []Issue

	for _, issue := range issues {
		count := messageCounts[issue.Text]
		if count < maxSame {
			filtered = append(filtered, issue)
			messageCounts[issue.Text]++
		}
	}

	return filtered
}
