package twlint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yacobolo/twlint/internal/stylesheet"
	"github.com/yacobolo/twlint/utility"
)

func newTestChecker(t *testing.T, config LintConfig) *checker {
	t.Helper()
	sheet, err := stylesheet.Parse(utilitiesCSS+`
.mt-2 { margin-top: 0.5rem; }
.mb-2 { margin-bottom: 0.5rem; }
.my-2 { margin-top: 0.5rem; margin-bottom: 0.5rem; }
.items-center { align-items: center; }
.justify-items-center { justify-items: center; }
.place-items-center { place-items: center; }
`, stylesheet.Config{})
	require.NoError(t, err)

	chk, err := newChecker(config, sheet)
	require.NoError(t, err)
	return chk
}

func classString(value string) ClassString {
	line := `<div class="` + value + `">`
	cs := newClassString(line, 12, 12+len(value))
	cs.Location.File = "page.html"
	cs.Location.Line = 1
	return cs
}

func TestChecker(t *testing.T) {
	tests := []struct {
		name   string
		config LintConfig
		value  string
		want   []string // rule: text => replacement
	}{
		{
			name:   "clean",
			config: LintConfig{},
			value:  "flex p-4",
		},
		{
			name:   "asc order",
			config: LintConfig{Rules: []string{RuleOrder}, OrderPolicy: utility.OrderAsc},
			value:  "p-4 flex",
			want:   []string{"order: classes are not in asc order => flex p-4"},
		},
		{
			name:   "margin shorthand keeps position",
			config: LintConfig{Rules: []string{RuleShorthand}},
			value:  "flex mt-2 p-4 mb-2",
			want:   []string{`shorthand: "mt-2", "mb-2" can be replaced by "my-2" => flex my-2 p-4`},
		},
		{
			name:   "shorthand already present",
			config: LintConfig{Rules: []string{RuleShorthand}},
			value:  "my-2 mt-2 mb-2",
			want:   []string{`shorthand: "mt-2", "mb-2" can be replaced by "my-2" => my-2`},
		},
		{
			name:   "redundant longhand",
			config: LintConfig{Rules: []string{RuleCanonical}, Collapse: true},
			value:  "size-10 w-10",
			want:   []string{`canonical: "w-10" is redundant => size-10`},
		},
		{
			name:   "conflicts are reported once per pair",
			config: LintConfig{Rules: []string{RuleConflict}},
			value:  "flex block flex",
			want:   []string{`conflict: "block" conflicts with "flex" on display`},
		},
		{
			name:   "variants are separate contexts",
			config: LintConfig{Rules: []string{RuleConflict, RuleShorthand}},
			value:  "hover:mt-2 mb-2 hover:flex block",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chk := newTestChecker(t, tt.config)

			var got []string
			for _, issue := range chk.check(classString(tt.value)) {
				s := issue.FromLinter + ": " + issue.Text
				if issue.Replacement != nil {
					s += " => " + issue.Replacement.NewText
				}
				got = append(got, s)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("check(%q) mismatch (-want +got):\n%s", tt.value, diff)
			}
		})
	}
}

func TestCheckerWithRecipes(t *testing.T) {
	groups, err := ParseRecipes([]byte(`
groups:
  - name: place
    recipes:
      - patterns: ["^items-(center)$", "^justify-items-(center)$"]
        substitutes: ["place-items-$1"]
`))
	require.NoError(t, err)

	chk := newTestChecker(t, LintConfig{Rules: []string{RuleShorthand}})
	chk.groups = groups

	issues := chk.check(classString("justify-items-center items-center"))
	require.Len(t, issues, 1)
	assert.Equal(t, `"justify-items-center", "items-center" can be replaced by "place-items-center"`, issues[0].Text)
	assert.Equal(t, 13, issues[0].Pos.Column)
}

func TestReplaceClasses(t *testing.T) {
	tests := []struct {
		name    string
		classes []string
		remove  []string
		insert  []string
		want    []string
	}{
		{"replace in place", []string{"a", "b", "c"}, []string{"b"}, []string{"x"}, []string{"a", "x", "c"}},
		{"many into one", []string{"a", "b", "c", "d"}, []string{"b", "d"}, []string{"x"}, []string{"a", "x", "c"}},
		{"drop only", []string{"a", "b"}, []string{"a"}, nil, []string{"b"}},
		{"insert already present", []string{"x", "a"}, []string{"a"}, []string{"x"}, []string{"x"}},
		{"duplicates removed", []string{"a", "b", "a"}, []string{"a"}, []string{"y"}, []string{"y", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, replaceClasses(tt.classes, tt.remove, tt.insert))
		})
	}
}
