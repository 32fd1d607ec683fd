package twlint

import (
	"encoding/json"
	"io"
	"time"
)

// JSONOutput represents the structured JSON export schema
type JSONOutput struct {
	Version   string      `json:"version"`
	Timestamp string      `json:"timestamp"`
	Summary   JSONSummary `json:"summary"`
	Stats     JSONStats   `json:"stats"`
	Issues    []JSONIssue `json:"issues"`
}

// JSONSummary contains high-level issue counts
type JSONSummary struct {
	TotalIssues  int            `json:"total_issues"`
	Errors       int            `json:"errors"`
	Warnings     int            `json:"warnings"`
	Truncated    int            `json:"truncated"`
	FilesScanned int            `json:"files_scanned"`
	ByRule       map[string]int `json:"by_rule"`
}

// JSONStats contains scan statistics
type JSONStats struct {
	Stylesheets       int `json:"stylesheets"`
	RegisteredClasses int `json:"registered_classes"`
	ClassStrings      int `json:"class_strings"`
	Classes           int `json:"classes"`
	FilesSkipped      int `json:"files_skipped"`
}

// JSONIssue represents a single linting issue
type JSONIssue struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Column      int    `json:"column"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Linter      string `json:"linter"`
	Source      string `json:"source,omitempty"`
	Replacement string `json:"replacement,omitempty"`
}

// WriteJSON writes the lint result as JSON
func WriteJSON(w io.Writer, result *LintResult) error {
	output := buildJSONOutput(result)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildJSONOutput converts LintResult to JSONOutput
func buildJSONOutput(result *LintResult) JSONOutput {
	var errors, warnings int
	byRule := make(map[string]int)
	for _, issue := range result.Issues {
		switch issue.Severity {
		case SeverityError:
			errors++
		case SeverityWarning:
			warnings++
		}
		byRule[issue.FromLinter]++
	}

	jsonIssues := make([]JSONIssue, len(result.Issues))
	for i, issue := range result.Issues {
		ji := JSONIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Linter:   issue.FromLinter,
		}
		if len(issue.SourceLines) > 0 {
			ji.Source = issue.SourceLines[0]
		}
		if issue.Replacement != nil {
			ji.Replacement = issue.Replacement.NewText
		}
		jsonIssues[i] = ji
	}

	return JSONOutput{
		Version:   "1.0",
		Timestamp: time.Now().Format(time.RFC3339),
		Summary: JSONSummary{
			TotalIssues:  len(result.Issues),
			Errors:       errors,
			Warnings:     warnings,
			Truncated:    result.TruncatedCount,
			FilesScanned: result.FilesScanned,
			ByRule:       byRule,
		},
		Stats: JSONStats{
			Stylesheets:       result.StylesheetFiles,
			RegisteredClasses: result.StylesheetClasses,
			ClassStrings:      result.ClassStrings,
			Classes:           result.ClassesFound,
			FilesSkipped:      result.FilesSkipped,
		},
		Issues: jsonIssues,
	}
}
