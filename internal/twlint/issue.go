package twlint

// Issue represents a single linting violation in golangci-lint format
type Issue struct {
	FromLinter  string       `json:"FromLinter"`  // rule name: "order", "shorthand", ...
	Text        string       `json:"Text"`        // "classes are not in official order"
	Severity    string       `json:"Severity"`    // "", "warning", "error"
	SourceLines []string     `json:"SourceLines"` // Lines of code with issue
	Pos         IssuePos     `json:"Pos"`         // File location
	Replacement *Replacement `json:"Replacement"` // Suggested class string
}

// IssuePos specifies the exact location of an issue
type IssuePos struct {
	Filename string `json:"Filename"` // "web/pages/home.templ"
	Line     int    `json:"Line"`     // 35
	Column   int    `json:"Column"`   // 1-based, start of the offending class
}

// Replacement is the class string that fixes the issue. It replaces
// InlineLength bytes starting at the start of the class string, not at Pos.
type Replacement struct {
	NewText      string // "size-10 flex"
	InlineLength int    // Length of the original class string
}

// IssueSeverity constants
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule names, also used as FromLinter
const (
	RuleOrder        = "order"
	RuleShorthand    = "shorthand"
	RuleConflict     = "conflict"
	RuleCanonical    = "canonical"
	RuleUnregistered = "unregistered"
)

// AllRules lists every rule in reporting order.
var AllRules = []string{RuleOrder, RuleShorthand, RuleConflict, RuleCanonical, RuleUnregistered}

// DefaultRules are enabled when no rules are configured. Unregistered is
// opt-in because most projects mix utilities with their own classes.
var DefaultRules = []string{RuleOrder, RuleShorthand, RuleConflict, RuleCanonical}

// Issue messages
const (
	IssueOrder        = "classes are not in %s order"
	IssueShorthand    = "%s can be replaced by %s"
	IssueConflict     = "%q conflicts with %q on %s"
	IssueCanonical    = "%q can be written as %q"
	IssueCollapse     = "%s can be collapsed into %q"
	IssueRedundant    = "%q is redundant"
	IssueUnregistered = "class %q is not a registered utility"
)
