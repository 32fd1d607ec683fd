package twlint

import (
	"io"
	"os"
)

// OutputFormat represents the linter output format
type OutputFormat string

const (
	// OutputIssues prints issues only, golangci-lint style
	OutputIssues OutputFormat = "issues"
	// OutputSummary prints statistics only
	OutputSummary OutputFormat = "summary"
	// OutputFull prints issues and statistics
	OutputFull OutputFormat = "full"
	// OutputJSON prints a JSON document
	OutputJSON OutputFormat = "json"
	// OutputMarkdown prints a Markdown report
	OutputMarkdown OutputFormat = "markdown"
)

// DetermineOutputFormat selects the output format from the flag value.
// Quiet wins; unknown values fall back to the default.
func DetermineOutputFormat(formatFlag string, quiet bool) OutputFormat {
	if quiet {
		return OutputIssues
	}

	switch formatFlag {
	case "issues":
		return OutputIssues
	case "summary":
		return OutputSummary
	case "full":
		return OutputFull
	case "json":
		return OutputJSON
	case "markdown", "md":
		return OutputMarkdown
	}

	return DetermineDefaultOutputFormat()
}

// DetermineDefaultOutputFormat returns the default output format
func DetermineDefaultOutputFormat() OutputFormat {
	return OutputIssues
}

// WriteOutput writes the lint result in the specified format
func WriteOutput(w io.Writer, result *LintResult, format OutputFormat, config LintConfig) {
	switch format {
	case OutputIssues:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)

	case OutputSummary:
		verboseReporter := NewVerboseReporter(w, shouldUseColors(config))
		verboseReporter.PrintStatistics(*result)
		verboseReporter.PrintRuleBreakdown(*result)
		verboseReporter.PrintWarnings(*result)

	case OutputFull:
		reporter := NewReporter(w, config)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(*result)

		verboseReporter := NewVerboseReporter(w, reporter.UseColors())
		verboseReporter.PrintStatistics(*result)
		verboseReporter.PrintRuleBreakdown(*result)
		verboseReporter.PrintWarnings(*result)

	case OutputJSON:
		if err := WriteJSON(w, result); err != nil {
			os.Stderr.WriteString("Error writing JSON: " + err.Error() + "\n")
		}

	case OutputMarkdown:
		if err := WriteMarkdown(w, result); err != nil {
			os.Stderr.WriteString("Error writing Markdown: " + err.Error() + "\n")
		}
	}
}
