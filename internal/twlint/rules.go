package twlint

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yacobolo/twlint/utility"
)

// checker runs the enabled rules against class strings. It is safe for
// concurrent use once built.
type checker struct {
	oracle    utility.Oracle
	rules     map[string]bool
	policy    utility.OrderPolicy
	groups    []utility.ShorthandGroup
	canonical utility.CanonicalOptions
}

// check returns the issues of one class string in rule order.
func (c *checker) check(cs ClassString) []Issue {
	classes := cs.Classes()
	var issues []Issue

	if c.rules[RuleOrder] {
		issues = append(issues, c.checkOrder(cs, classes)...)
	}
	if c.rules[RuleShorthand] {
		issues = append(issues, c.checkShorthand(cs, classes)...)
	}
	if c.rules[RuleConflict] {
		issues = append(issues, c.checkConflict(cs, classes)...)
	}
	if c.rules[RuleCanonical] {
		issues = append(issues, c.checkCanonical(cs, classes)...)
	}
	if c.rules[RuleUnregistered] {
		issues = append(issues, c.checkUnregistered(cs, classes)...)
	}

	return issues
}

func (c *checker) checkOrder(cs ClassString, classes []string) []Issue {
	if len(classes) < 2 {
		return nil
	}

	want := utility.Order(classes, c.policy, c.oracle)
	if slices.Equal(want, classes) {
		return nil
	}

	// report at the first class that moved
	column := cs.Location.Column
	for i := range classes {
		if classes[i] != want[i] {
			column = cs.Tokens[i].Column
			break
		}
	}

	return []Issue{newIssue(cs, RuleOrder, SeverityWarning, column,
		fmt.Sprintf(IssueOrder, c.policy), want)}
}

func (c *checker) checkShorthand(cs ClassString, classes []string) []Issue {
	var issues []Issue

	for _, merge := range utility.MergeShorthands(classes, c.groups, c.oracle) {
		longhands := make([]string, len(merge.Longhands))
		for i, l := range merge.Longhands {
			longhands[i] = l.Raw
		}

		shorthands := append(append([]string(nil), merge.Shorthands...), merge.Existing...)
		text := fmt.Sprintf(IssueShorthand, quoteJoin(longhands), quoteJoin(shorthands))
		fixed := replaceClasses(classes, longhands, merge.Shorthands)

		issues = append(issues, newIssue(cs, RuleShorthand, SeverityWarning,
			cs.column(longhands[0]), text, fixed))
	}

	return issues
}

func (c *checker) checkConflict(cs ClassString, classes []string) []Issue {
	conflicts := utility.FindConflicts(classes, c.oracle)
	if len(conflicts) == 0 {
		return nil
	}

	position := make(map[string]int, len(classes))
	for i, class := range classes {
		if _, ok := position[class]; !ok {
			position[class] = i
		}
	}

	var issues []Issue
	for _, class := range uniqueOrdered(classes) {
		for _, other := range conflicts[class] {
			// each pair once, reported at the later class
			if position[other.Class] <= position[class] {
				continue
			}
			text := fmt.Sprintf(IssueConflict, other.Class, class, strings.Join(other.Properties, ", "))
			issues = append(issues, newIssue(cs, RuleConflict, SeverityError,
				cs.column(other.Class), text, nil))
		}
	}

	return issues
}

func (c *checker) checkCanonical(cs ClassString, classes []string) []Issue {
	cmap := utility.Canonicalize(classes, c.canonical, c.oracle)

	var issues []Issue
	reported := make(map[string]bool)

	for _, class := range uniqueOrdered(classes) {
		if !cmap.Changed(class) {
			continue
		}
		entry := cmap[class]
		key := entry.Output + "\x00" + strings.Join(entry.NecessaryPeers, " ")
		if reported[key] {
			continue
		}
		reported[key] = true

		var text string
		var insert []string
		switch {
		case entry.Output == "":
			text = fmt.Sprintf(IssueRedundant, class)
		case len(entry.NecessaryPeers) > 1:
			text = fmt.Sprintf(IssueCollapse, quoteJoin(entry.NecessaryPeers), entry.Output)
			insert = []string{entry.Output}
		default:
			text = fmt.Sprintf(IssueCanonical, class, entry.Output)
			insert = []string{entry.Output}
		}

		peers := entry.NecessaryPeers
		if len(peers) == 0 {
			peers = []string{class}
		}
		fixed := replaceClasses(classes, peers, insert)
		issues = append(issues, newIssue(cs, RuleCanonical, SeverityWarning,
			cs.column(peers[0]), text, fixed))
	}

	return issues
}

func (c *checker) checkUnregistered(cs ClassString, classes []string) []Issue {
	var issues []Issue
	for _, class := range uniqueOrdered(classes) {
		if c.oracle.IsRegistered(class) {
			continue
		}
		issues = append(issues, newIssue(cs, RuleUnregistered, SeverityError,
			cs.column(class), fmt.Sprintf(IssueUnregistered, class), nil))
	}
	return issues
}

// newIssue builds an issue. A non-nil fixed list becomes the replacement for
// the whole class string.
func newIssue(cs ClassString, rule, severity string, column int, text string, fixed []string) Issue {
	issue := Issue{
		FromLinter:  rule,
		Text:        text,
		Severity:    severity,
		SourceLines: []string{cs.Location.Text},
		Pos: IssuePos{
			Filename: cs.Location.File,
			Line:     cs.Location.Line,
			Column:   column,
		},
	}
	if fixed != nil {
		issue.Replacement = &Replacement{
			NewText:      strings.Join(fixed, " "),
			InlineLength: len(cs.Value),
		}
	}
	return issue
}

// replaceClasses drops every occurrence of remove and puts insert where the
// first removed class was. Inserted classes already in the result are skipped.
func replaceClasses(classes, remove, insert []string) []string {
	drop := make(map[string]bool, len(remove))
	for _, r := range remove {
		drop[r] = true
	}

	out := make([]string, 0, len(classes)+len(insert))
	inserted := false
	for _, class := range classes {
		if !drop[class] {
			out = append(out, class)
			continue
		}
		if inserted {
			continue
		}
		inserted = true
		for _, in := range insert {
			if !slices.Contains(classes, in) || drop[in] {
				out = append(out, in)
			}
		}
	}
	return out
}

func uniqueOrdered(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// quoteJoin renders classes as "a", "b"
func quoteJoin(classes []string) string {
	quoted := make([]string, len(classes))
	for i, c := range classes {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	return strings.Join(quoted, ", ")
}
