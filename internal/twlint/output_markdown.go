package twlint

import (
	"fmt"
	"io"
	"strings"
)

// WriteMarkdown writes the lint result as a Markdown report
func WriteMarkdown(w io.Writer, result *LintResult) error {
	var b strings.Builder

	status := "✅ Clean"
	switch {
	case result.ErrorCount > 0:
		status = "❌ Errors"
	case len(result.Issues) > 0:
		status = "⚠️ Warnings"
	}

	b.WriteString("# Class Lint Report\n\n")
	fmt.Fprintf(&b, "**Status:** %s\n\n", status)

	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Files scanned | %d |\n", result.FilesScanned)
	fmt.Fprintf(&b, "| Class strings | %d |\n", result.ClassStrings)
	fmt.Fprintf(&b, "| Registered classes | %d |\n", result.StylesheetClasses)
	fmt.Fprintf(&b, "| Issues | %d |\n", len(result.Issues))
	for _, rule := range AllRules {
		if n := len(result.IssuesByCategory[rule]); n > 0 {
			fmt.Fprintf(&b, "| %s | %d |\n", rule, n)
		}
	}

	if len(result.Issues) > 0 {
		b.WriteString("\n## Issues\n\n")
		b.WriteString("| Location | Rule | Message | Suggestion |\n|---|---|---|---|\n")
		for _, issue := range result.Issues {
			suggestion := ""
			if issue.Replacement != nil {
				suggestion = "`" + escapeMarkdown(issue.Replacement.NewText) + "`"
			}
			fmt.Fprintf(&b, "| %s:%d:%d | %s | %s | %s |\n",
				escapeMarkdown(issue.Pos.Filename), issue.Pos.Line, issue.Pos.Column,
				issue.FromLinter, escapeMarkdown(issue.Text), suggestion)
		}
	}

	if len(result.Warnings) > 0 {
		b.WriteString("\n## Warnings\n\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(&b, "- %s\n", escapeMarkdown(warning))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// escapeMarkdown keeps table cells intact
func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ", "`", "'").Replace(s)
}
