package utility

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ShorthandRecipe maps a fixed set of longhand patterns onto one or more
// shorthand templates. Capture groups 1..9 must agree across every pattern and
// are substituted into the templates as $1..$9.
type ShorthandRecipe struct {
	Patterns    []*regexp.Regexp
	Substitutes []string
}

// ShorthandGroup is a set of recipes that compete for the same longhands.
type ShorthandGroup struct {
	Name    string
	Recipes []ShorthandRecipe
}

// ShorthandMerge is one proposed replacement of longhands by shorthands.
type ShorthandMerge struct {
	Group      string           `json:"group"`
	Longhands  []DissectedClass `json:"longhands"`
	Shorthands []string         `json:"shorthands"`         // to insert
	Existing   []string         `json:"existing,omitempty"` // already present in the input
}

// ShorthandOracle is what MergeShorthands needs.
type ShorthandOracle interface {
	VariantSegmenter
	Registry
}

// NewRecipe compiles a recipe from pattern sources.
func NewRecipe(patterns []string, substitutes ...string) (ShorthandRecipe, error) {
	if len(patterns) == 0 {
		return ShorthandRecipe{}, fmt.Errorf("recipe has no patterns")
	}
	if len(substitutes) == 0 {
		return ShorthandRecipe{}, fmt.Errorf("recipe %v has no substitutes", patterns)
	}

	r := ShorthandRecipe{Substitutes: substitutes}
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return ShorthandRecipe{}, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		r.Patterns = append(r.Patterns, re)
	}
	return r, nil
}

// MustRecipe is NewRecipe for static tables.
func MustRecipe(patterns []string, substitutes ...string) ShorthandRecipe {
	r, err := NewRecipe(patterns, substitutes...)
	if err != nil {
		panic(err)
	}
	return r
}

// MergeShorthands finds groups of longhand classes that can be replaced by
// shorthands. Groups are evaluated independently, so a longhand may appear in
// merges from different groups; within a group a longhand is used at most once.
// A nil groups table uses DefaultShorthandGroups.
func MergeShorthands(classes []string, groups []ShorthandGroup, oracle ShorthandOracle) []ShorthandMerge {
	if groups == nil {
		groups = DefaultShorthandGroups()
	}

	dissected := DissectAll(classes, oracle)
	partitions := partitionByVariants(dissected)

	present := make(map[string]bool, len(classes))
	for _, c := range classes {
		present[c] = true
	}

	var merges []ShorthandMerge
	for _, group := range groups {
		recipes := append([]ShorthandRecipe(nil), group.Recipes...)
		sort.SliceStable(recipes, func(i, j int) bool {
			return len(recipes[i].Patterns) > len(recipes[j].Patterns)
		})

		consumed := make(map[int]bool)
		for _, recipe := range recipes {
			for _, members := range partitions {
				matched, captures, ok := matchRecipe(recipe, dissected, members, consumed)
				if !ok {
					continue
				}

				merge, ok := buildMerge(group.Name, recipe, dissected, matched, captures, oracle, present)
				if !ok {
					continue
				}

				for _, idx := range matched {
					consumed[idx] = true
				}
				merges = append(merges, merge)
			}
		}
	}

	return merges
}

// partitionByVariants groups class indexes by identical prefix and variant context, in
// order of first appearance.
func partitionByVariants(classes []DissectedClass) [][]int {
	var order []string
	parts := make(map[string][]int)

	for i, c := range classes {
		key := c.Prefix + "\x00" + c.Separator + "\x00" + strings.Join(c.Variants, "\x00")
		if _, seen := parts[key]; !seen {
			order = append(order, key)
		}
		parts[key] = append(parts[key], i)
	}

	out := make([][]int, 0, len(order))
	for _, k := range order {
		out = append(out, parts[k])
	}
	return out
}

// matchRecipe requires exactly one unused member per pattern, agreeing captures,
// a uniform sign and a consistent important notation.
func matchRecipe(recipe ShorthandRecipe, classes []DissectedClass, members []int, consumed map[int]bool) ([]int, map[int]string, bool) {
	captures := make(map[int]string)
	used := make(map[int]bool)
	var matched []int

	for _, re := range recipe.Patterns {
		hit := -1
		var groups []string

		for _, idx := range members {
			if consumed[idx] || used[idx] {
				continue
			}
			m := re.FindStringSubmatch(classes[idx].Base)
			if m == nil {
				continue
			}
			if hit != -1 {
				return nil, nil, false
			}
			hit, groups = idx, m
		}
		if hit == -1 {
			return nil, nil, false
		}

		for g := 1; g < len(groups); g++ {
			if prev, ok := captures[g]; ok && prev != groups[g] {
				return nil, nil, false
			}
			captures[g] = groups[g]
		}

		used[hit] = true
		matched = append(matched, hit)
	}

	if !uniformModifiers(classes, matched) {
		return nil, nil, false
	}

	sort.Ints(matched)
	return matched, captures, true
}

// uniformModifiers checks the sign and important rules: all negative or none,
// and either every longhand is important with the same notation or none is.
func uniformModifiers(classes []DissectedClass, matched []int) bool {
	first := classes[matched[0]]
	var atStart, atEnd int

	for _, idx := range matched {
		c := classes[idx]
		if c.Negative != first.Negative {
			return false
		}
		if c.Important.AtStart {
			atStart++
		}
		if c.Important.AtEnd {
			atEnd++
		}
	}

	switch {
	case atEnd > 0:
		return atEnd == len(matched) && atStart == 0
	case atStart > 0:
		return atStart == len(matched)
	}
	return true
}

func buildMerge(group string, recipe ShorthandRecipe, classes []DissectedClass, matched []int, captures map[int]string, reg Registry, present map[string]bool) (ShorthandMerge, bool) {
	template := classes[matched[0]]
	merge := ShorthandMerge{Group: group}

	for _, sub := range recipe.Substitutes {
		shorthand := Build(template.withBase(expandTemplate(sub, captures)))
		if reg == nil || !reg.IsRegistered(shorthand) {
			return ShorthandMerge{}, false
		}
		if present[shorthand] {
			merge.Existing = append(merge.Existing, shorthand)
		} else {
			merge.Shorthands = append(merge.Shorthands, shorthand)
		}
	}

	for _, idx := range matched {
		merge.Longhands = append(merge.Longhands, classes[idx])
	}
	return merge, true
}

// expandTemplate replaces $1..$9 with captured groups. Missing groups expand to "".
func expandTemplate(tmpl string, captures map[int]string) string {
	var b strings.Builder
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '$' && i+1 < len(tmpl) && tmpl[i+1] >= '1' && tmpl[i+1] <= '9' {
			b.WriteString(captures[int(tmpl[i+1]-'0')])
			i++
			continue
		}
		b.WriteByte(tmpl[i])
	}
	return b.String()
}
