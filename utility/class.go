// Package utility models utility-class tokens and implements the engines that
// operate on lists of them: ordering, shorthand merging, conflict detection and
// canonical simplification.
//
// Every engine is a pure function of its input and an injected oracle. The
// oracle owns all design-system knowledge (variant boundaries, ordering weights,
// compiled declarations, canonical candidates); the engines only combine its
// answers.
//
//	d := utility.Dissect("hover:lg:-top-4!", oracle)
//	// d.Variants == ["hover", "lg"], d.Negative, d.Important.AtEnd, d.Base == "top-4"
//	utility.Build(d) // "hover:lg:-top-4!"
package utility

import "strings"

// Important records which important notation a class uses.
type Important struct {
	AtStart bool `json:"atStart"` // "!top-4"
	AtEnd   bool `json:"atEnd"`   // "top-4!"
}

// Any reports whether either marker is set.
func (i Important) Any() bool {
	return i.AtStart || i.AtEnd
}

// DissectedClass is a raw class split into its structural parts.
type DissectedClass struct {
	Raw       string    `json:"raw"`
	Prefix    string    `json:"prefix"`
	Variants  []string  `json:"variants"`
	Separator string    `json:"separator"`
	Negative  bool      `json:"negative"`
	Important Important `json:"important"`
	Base      string    `json:"base"`
}

// VariantPath joins the variants with the separator. Classes without variants share the empty path.
func (d DissectedClass) VariantPath() string {
	return strings.Join(d.Variants, d.Separator)
}

// Dissect splits raw into prefix, variants, important markers, sign and base.
// It never fails: when the oracle cannot segment the class, only the sign and
// important markers are removed and everything else becomes the base.
func Dissect(raw string, seg VariantSegmenter) DissectedClass {
	d := DissectedClass{
		Raw:       raw,
		Variants:  []string{},
		Separator: DefaultSeparator,
	}

	rest := raw
	if seg != nil {
		if s, ok := seg.SegmentVariants(raw); ok {
			if s.Separator != "" {
				d.Separator = s.Separator
			}

			if s.Prefix != "" && strings.HasPrefix(rest, s.Prefix+d.Separator) {
				d.Prefix = s.Prefix
				rest = rest[len(s.Prefix)+len(d.Separator):]
			}

			for _, v := range s.Variants {
				if !strings.HasPrefix(rest, v+d.Separator) {
					break
				}
				d.Variants = append(d.Variants, v)
				rest = rest[len(v)+len(d.Separator):]
			}
		}
	}

	switch {
	case strings.HasPrefix(rest, "!"):
		d.Important.AtStart = true
		rest = rest[1:]
	case len(rest) > 1 && strings.HasSuffix(rest, "!"):
		d.Important.AtEnd = true
		rest = rest[:len(rest)-1]
	}

	if len(rest) > 1 && strings.HasPrefix(rest, "-") {
		d.Negative = true
		rest = rest[1:]
	}

	d.Base = rest
	return d
}

// Build reassembles a class string from its parts.
func Build(d DissectedClass) string {
	sep := d.Separator
	if sep == "" {
		sep = DefaultSeparator
	}

	var b strings.Builder
	if d.Prefix != "" {
		b.WriteString(d.Prefix)
		b.WriteString(sep)
	}
	for _, v := range d.Variants {
		b.WriteString(v)
		b.WriteString(sep)
	}
	if d.Important.AtStart {
		b.WriteByte('!')
	}
	if d.Negative {
		b.WriteByte('-')
	}
	b.WriteString(d.Base)
	if d.Important.AtEnd {
		b.WriteByte('!')
	}
	return b.String()
}

// withBase returns a copy of d with a different base and no raw text.
func (d DissectedClass) withBase(base string) DissectedClass {
	out := d
	out.Raw = ""
	out.Base = base
	out.Variants = append([]string(nil), d.Variants...)
	return out
}

// DissectAll dissects every class in order.
func DissectAll(classes []string, seg VariantSegmenter) []DissectedClass {
	out := make([]DissectedClass, 0, len(classes))
	for _, c := range classes {
		out = append(out, Dissect(c, seg))
	}
	return out
}
