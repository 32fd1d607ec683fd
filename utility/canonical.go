package utility

// CanonicalEntry describes what happens to one input class.
type CanonicalEntry struct {
	NecessaryPeers []string `json:"necessaryPeers"` // originals that must all be present to produce Output
	Output         string   `json:"output"`         // "" when the class is dropped without replacement
}

// CanonicalMap maps every input class to its canonical entry.
type CanonicalMap map[string]CanonicalEntry

// Changed reports whether the class is rewritten or dropped.
func (m CanonicalMap) Changed(class string) bool {
	e, ok := m[class]
	return ok && e.Output != class
}

// CanonicalOracle is what Canonicalize needs.
type CanonicalOracle interface {
	Registry
	Canonicalizer
}

// Canonicalize maps classes to their canonical form. Unknown classes map to
// themselves. For every new canonical class the necessary peers are found by
// dropping each removed class in turn and asking the oracle again; this is a
// quadratic number of oracle calls in the number of removed classes.
//
// When the oracle fails on the batch every class is treated as canonical.
func Canonicalize(classes []string, opts CanonicalOptions, oracle CanonicalOracle) CanonicalMap {
	result := make(CanonicalMap, len(classes))
	unique := uniqueStrings(classes)

	var known []string
	for _, c := range unique {
		if oracle != nil && oracle.IsRegistered(c) {
			known = append(known, c)
			continue
		}
		result[c] = identity(c)
	}
	if len(known) == 0 {
		return result
	}

	canonical, err := oracle.Canonicalize(known, opts)
	if err != nil {
		for _, c := range known {
			result[c] = identity(c)
		}
		return result
	}

	inOutput := toSet(canonical)
	inInput := toSet(known)

	var removed []string
	for _, c := range known {
		if inOutput[c] {
			result[c] = identity(c)
		} else {
			removed = append(removed, c)
		}
	}

	var added []string
	for _, c := range uniqueStrings(canonical) {
		if !inInput[c] {
			added = append(added, c)
		}
	}

	peers := necessaryPeers(removed, added, opts, oracle)

	for _, r := range removed {
		entry := CanonicalEntry{NecessaryPeers: []string{r}}
		for _, a := range added {
			if containsString(peers[a], r) {
				entry = CanonicalEntry{NecessaryPeers: peers[a], Output: a}
				break
			}
		}
		result[r] = entry
	}

	return result
}

// necessaryPeers finds, for each added class, the removed classes without which
// it is no longer produced.
func necessaryPeers(removed, added []string, opts CanonicalOptions, oracle Canonicalizer) map[string][]string {
	peers := make(map[string][]string, len(added))
	if len(added) == 0 {
		return peers
	}

	for i, r := range removed {
		subset := make([]string, 0, len(removed)-1)
		subset = append(subset, removed[:i]...)
		subset = append(subset, removed[i+1:]...)

		var still map[string]bool
		if len(subset) > 0 {
			out, err := oracle.Canonicalize(subset, opts)
			if err == nil {
				still = toSet(out)
			}
		}

		for _, a := range added {
			if !still[a] {
				peers[a] = append(peers[a], r)
			}
		}
	}

	return peers
}

func identity(c string) CanonicalEntry {
	return CanonicalEntry{NecessaryPeers: []string{c}, Output: c}
}

func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, s := range list {
		set[s] = true
	}
	return set
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
