package stylesheet

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/yacobolo/twlint/utility"
)

// pxValue matches pixel lengths for rem conversion
var pxValue = regexp.MustCompile(`(-?\d*\.?\d+)px`)

// zeroValue matches unitless or unit-suffixed zero lengths
var zeroValue = regexp.MustCompile(`^-?0(\.0+)?(px|rem|em)?$`)

// canonicalIndex groups variant-free classes by their normalized declarations.
type canonicalIndex struct {
	bySignature map[string][]string // signature -> classes, shortest first
	keys        map[string][]string // class -> declaration keys
	byKey       map[string][]string // declaration key -> classes declaring it
}

// index returns the lookup tables for a root font size, building them once.
func (s *Sheet) index(rootFontSize float64) *canonicalIndex {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx, ok := s.indexes[rootFontSize]; ok {
		return idx
	}

	idx := &canonicalIndex{
		bySignature: make(map[string][]string),
		keys:        make(map[string][]string),
		byKey:       make(map[string][]string),
	}
	for _, name := range s.Classes() {
		if seg, ok := s.SegmentVariants(name); !ok || len(seg.Variants) > 0 {
			continue
		}
		keys := declarationKeys(s.classes[name].props, rootFontSize)
		if len(keys) == 0 {
			continue
		}
		idx.keys[name] = keys
		sig := strings.Join(keys, "\x01")
		idx.bySignature[sig] = append(idx.bySignature[sig], name)
		for _, k := range keys {
			idx.byKey[k] = append(idx.byKey[k], name)
		}
	}
	for sig := range idx.bySignature {
		sort.Slice(idx.bySignature[sig], func(i, j int) bool {
			return simpler(idx.bySignature[sig][i], idx.bySignature[sig][j])
		})
	}

	if s.indexes == nil {
		s.indexes = make(map[float64]*canonicalIndex)
	}
	s.indexes[rootFontSize] = idx
	return idx
}

// simpler orders candidate names: shorter first, then byte order.
func simpler(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

// declarationKeys flattens a property set into sorted, de-duplicated keys.
func declarationKeys(set utility.PropertySet, rootFontSize float64) []string {
	seen := make(map[string]bool)
	var keys []string
	for path, decls := range set {
		for _, d := range decls {
			k := path + "\x00" + d.Property + "\x00" + normalizeValue(d.Value, rootFontSize)
			if d.Important {
				k += "\x00!"
			}
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// normalizeValue lowercases a value, folds zero lengths and converts px to rem.
func normalizeValue(v string, rootFontSize float64) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if zeroValue.MatchString(v) {
		return "0"
	}
	if rootFontSize <= 0 {
		return v
	}
	return pxValue.ReplaceAllStringFunc(v, func(m string) string {
		n, err := strconv.ParseFloat(strings.TrimSuffix(m, "px"), 64)
		if err != nil {
			return m
		}
		return strconv.FormatFloat(n/rootFontSize, 'f', -1, 64) + "rem"
	})
}

// Canonicalize rewrites each class to the simplest registered class with the
// same declarations and, when opts.Collapse is set, replaces groups of classes
// sharing a variant context by a single class whose declarations are exactly
// their union. Classes it cannot interpret are returned unchanged.
func (s *Sheet) Canonicalize(classes []string, opts utility.CanonicalOptions) ([]string, error) {
	idx := s.index(opts.RootFontSize)

	current := make([]string, 0, len(classes))
	for _, c := range classes {
		current = append(current, s.canonicalSingle(c, idx))
	}

	if opts.Collapse {
		current = s.collapse(current, idx)
	}

	return dedupe(current), nil
}

// canonicalSingle swaps a class for a simpler equivalent, keeping its variants
// and modifiers.
func (s *Sheet) canonicalSingle(class string, idx *canonicalIndex) string {
	d := utility.Dissect(class, s)
	base := baseClass(d)

	keys, ok := idx.keys[base]
	if !ok {
		return class
	}

	best := idx.bySignature[strings.Join(keys, "\x01")][0]
	if !simpler(best, base) {
		return class
	}

	out := utility.Dissect(best, s)
	out.Variants = d.Variants
	candidate := utility.Build(out)
	if !s.IsRegistered(candidate) {
		return class
	}
	return candidate
}

// collapse repeatedly replaces the largest group of classes whose declarations
// union to exactly one registered class.
func (s *Sheet) collapse(classes []string, idx *canonicalIndex) []string {
	for {
		target, members := s.bestCollapse(classes, idx)
		if target == "" {
			return classes
		}

		out := make([]string, 0, len(classes))
		placed := false
		for i, c := range classes {
			if !members[i] {
				out = append(out, c)
				continue
			}
			if !placed {
				out = append(out, target)
				placed = true
			}
		}
		classes = out
	}
}

func (s *Sheet) bestCollapse(classes []string, idx *canonicalIndex) (string, map[int]bool) {
	type member struct {
		pos  int
		keys []string
	}

	contexts := make(map[string][]member)
	var order []string
	dissected := make([]utility.DissectedClass, len(classes))

	for i, c := range classes {
		d := utility.Dissect(c, s)
		dissected[i] = d
		keys, ok := idx.keys[baseClass(d)]
		if !ok {
			continue
		}
		ctx := d.VariantPath()
		if _, seen := contexts[ctx]; !seen {
			order = append(order, ctx)
		}
		contexts[ctx] = append(contexts[ctx], member{pos: i, keys: keys})
	}

	bestTarget := ""
	var bestMembers map[int]bool

	for _, ctx := range order {
		members := contexts[ctx]
		if len(members) < 2 {
			continue
		}

		candidates := make(map[string]bool)
		for _, m := range members {
			for _, k := range m.keys {
				for _, name := range idx.byKey[k] {
					candidates[name] = true
				}
			}
		}

		names := make([]string, 0, len(candidates))
		for name := range candidates {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool { return simpler(names[i], names[j]) })

		for _, name := range names {
			target := toKeySet(idx.keys[name])
			covered := make(map[string]bool)
			chosen := make(map[int]bool)

			for _, m := range members {
				if !subset(m.keys, target) {
					continue
				}
				chosen[m.pos] = true
				for _, k := range m.keys {
					covered[k] = true
				}
			}

			if len(chosen) < 2 || len(covered) != len(target) {
				continue
			}
			if bestMembers != nil && len(chosen) <= len(bestMembers) {
				continue
			}

			first := -1
			for pos := range chosen {
				if first == -1 || pos < first {
					first = pos
				}
			}
			out := utility.Dissect(name, s)
			out.Variants = dissected[first].Variants
			candidate := utility.Build(out)
			if !s.IsRegistered(candidate) {
				continue
			}

			bestTarget, bestMembers = candidate, chosen
		}
	}

	return bestTarget, bestMembers
}

func toKeySet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func subset(keys []string, set map[string]bool) bool {
	for _, k := range keys {
		if !set[k] {
			return false
		}
	}
	return true
}

func dedupe(in []string) []string {
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
