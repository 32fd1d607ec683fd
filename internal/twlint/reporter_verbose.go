package twlint

import (
	"fmt"
	"io"
)

// VerboseReporter prints run statistics
type VerboseReporter struct {
	w         io.Writer
	useColors bool
}

// NewVerboseReporter creates a verbose reporter
func NewVerboseReporter(w io.Writer, useColors bool) *VerboseReporter {
	return &VerboseReporter{
		w:         w,
		useColors: useColors,
	}
}

// PrintStatistics outputs scan and stylesheet counts
func (r *VerboseReporter) PrintStatistics(result LintResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Class Linter Statistics", r.useColors))
	fmt.Fprintln(r.w, "-----------------------")

	fmt.Fprintf(r.w, "Stylesheets:        %d\n", result.StylesheetFiles)
	fmt.Fprintf(r.w, "Registered Classes: %d\n", result.StylesheetClasses)
	fmt.Fprintf(r.w, "Files Scanned:      %d\n", result.FilesScanned)
	fmt.Fprintf(r.w, "Files Skipped:      %d\n", result.FilesSkipped)
	fmt.Fprintf(r.w, "Class Strings:      %d\n", result.ClassStrings)
	fmt.Fprintf(r.w, "Classes:            %d\n", result.ClassesFound)
}

// PrintRuleBreakdown shows issue counts for every rule, including clean ones
func (r *VerboseReporter) PrintRuleBreakdown(result LintResult) {
	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleCyan, "Issues by Rule", r.useColors))
	fmt.Fprintln(r.w, "--------------")

	for _, rule := range AllRules {
		count := len(result.IssuesByCategory[rule])
		line := fmt.Sprintf("%-13s %d", rule+":", count)
		if count == 0 {
			line = RenderStyle(StyleGreen, line, r.useColors)
		}
		fmt.Fprintln(r.w, line)
	}
}

// PrintWarnings shows files that could not be read
func (r *VerboseReporter) PrintWarnings(result LintResult) {
	if len(result.Warnings) == 0 {
		return
	}

	fmt.Fprintln(r.w, "")
	fmt.Fprintln(r.w, RenderStyle(StyleYellow, "Warnings", r.useColors))
	fmt.Fprintln(r.w, "--------")

	for _, warning := range result.Warnings {
		fmt.Fprintf(r.w, "• %s\n", warning)
	}
}
