package twlint

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

const utilitiesCSS = `
@layer utilities {
.flex { display: flex; }
.block { display: block; }
.size-10 { width: 2.5rem; height: 2.5rem; }
.w-10 { width: 2.5rem; }
.h-10 { height: 2.5rem; }
.p-4 { padding: 1rem; }
.hover\:underline:hover { text-decoration-line: underline; }
}
`

const pageTempl = `templ Page() {
	<div class="flex block">
	<div class="h-10 w-10">
	<div class={ templ.Classes("p-4", templ.KV("hover:underline", true)) }>
	// <div class="block flex">
	<span class="mystery p-4"></span>
}
`

// writeProject lays out a stylesheet and a template in a temp dir.
func writeProject(t *testing.T) (string, LintConfig) {
	t.Helper()
	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "dist"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "web"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dist", "app.css"), []byte(utilitiesCSS), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "web", "page.templ"), []byte(pageTempl), 0644))

	return dir, LintConfig{
		Stylesheets: []string{filepath.Join(dir, "dist", "**", "*.css")},
		ScanPaths:   []string{filepath.Join(dir, "web", "**", "*.templ")},
		Concurrency: 2,
		Logger:      zap.NewNop(),
	}
}

func TestLintEndToEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir, config := writeProject(t)
	page := filepath.Join(dir, "web", "page.templ")

	result, err := Lint(context.Background(), config)
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesScanned)
	assert.Equal(t, 1, result.StylesheetFiles)
	assert.Equal(t, 7, result.StylesheetClasses)
	assert.Equal(t, 5, result.ClassStrings)
	assert.Equal(t, 8, result.ClassesFound)
	assert.Equal(t, 1, result.ErrorCount)

	require.Len(t, result.Issues, 3)

	conflict := result.Issues[0]
	assert.Equal(t, RuleConflict, conflict.FromLinter)
	assert.Equal(t, SeverityError, conflict.Severity)
	assert.Equal(t, `"block" conflicts with "flex" on display`, conflict.Text)
	assert.Equal(t, IssuePos{Filename: page, Line: 2, Column: 19}, conflict.Pos)
	assert.Nil(t, conflict.Replacement)

	order := result.Issues[1]
	assert.Equal(t, RuleOrder, order.FromLinter)
	assert.Equal(t, "classes are not in official order", order.Text)
	assert.Equal(t, 3, order.Pos.Line)
	assert.Equal(t, 14, order.Pos.Column)
	require.NotNil(t, order.Replacement)
	assert.Equal(t, Replacement{NewText: "w-10 h-10", InlineLength: 9}, *order.Replacement)

	shorthand := result.Issues[2]
	assert.Equal(t, RuleShorthand, shorthand.FromLinter)
	assert.Equal(t, `"h-10", "w-10" can be replaced by "size-10"`, shorthand.Text)
	assert.Equal(t, 14, shorthand.Pos.Column)
	require.NotNil(t, shorthand.Replacement)
	assert.Equal(t, "size-10", shorthand.Replacement.NewText)
	assert.Equal(t, []string{"\t<div class=\"h-10 w-10\">"}, shorthand.SourceLines)

	assert.Len(t, result.IssuesByCategory[RuleConflict], 1)
	assert.Len(t, result.IssuesByCategory[RuleOrder], 1)
	assert.Empty(t, result.Warnings)
}

func TestLintRuleSelection(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, config := writeProject(t)
	config.Rules = []string{RuleUnregistered, RuleCanonical}
	config.Collapse = true

	result, err := Lint(context.Background(), config)
	require.NoError(t, err)

	var texts []string
	for _, issue := range result.Issues {
		texts = append(texts, issue.FromLinter+": "+issue.Text)
	}
	assert.Equal(t, []string{
		`canonical: "h-10", "w-10" can be collapsed into "size-10"`,
		`unregistered: class "mystery" is not a registered utility`,
	}, texts)
}

func TestLintErrors(t *testing.T) {
	_, config := writeProject(t)

	t.Run("no stylesheets", func(t *testing.T) {
		c := config
		c.Stylesheets = []string{filepath.Join(t.TempDir(), "*.css")}
		_, err := Lint(context.Background(), c)
		assert.ErrorContains(t, err, "no stylesheets")
	})

	t.Run("unknown rule", func(t *testing.T) {
		c := config
		c.Rules = []string{"spelling"}
		_, err := Lint(context.Background(), c)
		assert.ErrorContains(t, err, `unknown rule "spelling"`)
	})

	t.Run("unknown policy", func(t *testing.T) {
		c := config
		c.OrderPolicy = "random"
		_, err := Lint(context.Background(), c)
		assert.ErrorContains(t, err, "unknown order policy")
	})

	t.Run("missing recipe file", func(t *testing.T) {
		c := config
		c.RecipeFile = filepath.Join(t.TempDir(), "recipes.yaml")
		_, err := Lint(context.Background(), c)
		assert.ErrorContains(t, err, "read recipes")
	})

	t.Run("canceled", func(t *testing.T) {
		defer goleak.VerifyNone(t)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Lint(ctx, config)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLimitIssues(t *testing.T) {
	issues := []Issue{
		{FromLinter: RuleOrder, Text: "a"},
		{FromLinter: RuleOrder, Text: "a"},
		{FromLinter: RuleOrder, Text: "b"},
		{FromLinter: RuleConflict, Text: "c"},
		{FromLinter: RuleConflict, Text: "a"},
	}

	tests := []struct {
		name          string
		config        LintConfig
		wantTexts     []string
		wantTruncated int
	}{
		{"no limits", LintConfig{}, []string{"a", "a", "b", "c", "a"}, 0},
		{"per linter", LintConfig{MaxIssuesPerLinter: 1}, []string{"a", "c"}, 3},
		{"same issues", LintConfig{MaxSameIssues: 1}, []string{"a", "b", "c"}, 2},
		{"both", LintConfig{MaxIssuesPerLinter: 2, MaxSameIssues: 1}, []string{"a", "c"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := limitIssues(append([]Issue(nil), issues...), tt.config)
			var texts []string
			for _, issue := range got {
				texts = append(texts, issue.Text)
			}
			assert.Equal(t, tt.wantTexts, texts)
			assert.Equal(t, tt.wantTruncated, truncated)
		})
	}
}
