package utility

import "sort"

// Conflict names a class that sets the same properties in the same context.
type Conflict struct {
	Class      string   `json:"class"`
	Properties []string `json:"properties"`
}

// FindConflicts reports pairs of distinct classes whose compiled output sets the
// same property names under the same selector paths. The relation is
// materialized in both directions. Classes without declarations, classes the
// oracle does not know, and every class when the oracle fails are never in conflict.
func FindConflicts(classes []string, oracle PropertySource) map[string][]Conflict {
	result := make(map[string][]Conflict)
	if oracle == nil {
		return result
	}

	unique := uniqueStrings(classes)
	sets, err := oracle.PropertySets(unique)
	if err != nil {
		return result
	}

	shapes := make(map[string]map[string][]string, len(unique))
	for _, c := range unique {
		if set, ok := sets[c]; ok {
			if shape := propertyShape(set); shape != nil {
				shapes[c] = shape
			}
		}
	}

	for i, a := range unique {
		sa, ok := shapes[a]
		if !ok {
			continue
		}
		for _, b := range unique[i+1:] {
			sb, ok := shapes[b]
			if !ok || !sameShape(sa, sb) {
				continue
			}
			props := shapeProperties(sa)
			result[a] = append(result[a], Conflict{Class: b, Properties: props})
			result[b] = append(result[b], Conflict{Class: a, Properties: append([]string(nil), props...)})
		}
	}

	return result
}

// propertyShape reduces a property set to sorted, de-duplicated property names per path.
// It returns nil when the set declares nothing.
func propertyShape(set PropertySet) map[string][]string {
	shape := make(map[string][]string, len(set))
	total := 0
	for path, decls := range set {
		names := make([]string, 0, len(decls))
		for _, d := range decls {
			names = append(names, d.Property)
		}
		names = uniqueStrings(names)
		sort.Strings(names)
		shape[path] = names
		total += len(names)
	}
	if total == 0 {
		return nil
	}
	return shape
}

func sameShape(a, b map[string][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for path, na := range a {
		nb, ok := b[path]
		if !ok || len(na) != len(nb) {
			return false
		}
		for i := range na {
			if na[i] != nb[i] {
				return false
			}
		}
	}
	return true
}

func shapeProperties(shape map[string][]string) []string {
	var all []string
	for _, names := range shape {
		all = append(all, names...)
	}
	all = uniqueStrings(all)
	sort.Strings(all)
	return all
}

// uniqueStrings drops repeats, keeping first occurrences in order.
func uniqueStrings(in []string) []string {
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
