// Package stylesheet implements a design-system oracle backed by compiled
// utility CSS. Every class selector in the stylesheet becomes a registered
// class; its rule position is its ordering key and its declarations, grouped
// by selector path, are its property set.
package stylesheet

import (
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/yacobolo/twlint/utility"
)

// Config holds the design-system settings the stylesheet cannot express.
type Config struct {
	Prefix    string // "tw" for classes written as "tw:flex"
	Separator string // variant separator, ":" by default
}

// classInfo is one class as compiled in the stylesheet
type classInfo struct {
	name  string
	order int // position of the first rule mentioning the class
	props utility.PropertySet
}

// Sheet is a parsed stylesheet. After loading it is read-only and safe for
// concurrent use.
type Sheet struct {
	config   Config
	classes  map[string]*classInfo
	variants map[string]int // variant token -> rank by first appearance
	rules    int

	mu      sync.Mutex
	indexes map[float64]*canonicalIndex // keyed by root font size
}

var _ utility.Oracle = (*Sheet)(nil)

func newSheet(config Config) *Sheet {
	if config.Separator == "" {
		config.Separator = utility.DefaultSeparator
	}
	return &Sheet{
		config:   config,
		classes:  make(map[string]*classInfo),
		variants: make(map[string]int),
	}
}

// clone copies everything add mutates.
func (s *Sheet) clone() *Sheet {
	c := newSheet(s.config)
	c.rules = s.rules
	for name, info := range s.classes {
		props := make(utility.PropertySet, len(info.props))
		for path, decls := range info.props {
			props[path] = append([]utility.Declaration(nil), decls...)
		}
		c.classes[name] = &classInfo{name: name, order: info.order, props: props}
	}
	return c
}

func (s *Sheet) register(name string, order int) *classInfo {
	info, ok := s.classes[name]
	if !ok {
		info = &classInfo{name: name, order: order, props: utility.PropertySet{}}
		s.classes[name] = info
	}
	return info
}

// own makes sure the class records declarations under the owner's path.
func (s *Sheet) own(o owner) owner {
	info := s.register(o.class, s.rules)
	if _, ok := info.props[o.path()]; !ok {
		info.props[o.path()] = []utility.Declaration{}
	}
	return o
}

// finish drops selector paths left without declarations, such as the outer
// "&" of a ruleset that only holds nested rules, and ranks every variant
// token used by a registered class.
func (s *Sheet) finish() {
	for _, info := range s.classes {
		for path, decls := range info.props {
			if len(decls) == 0 {
				delete(info.props, path)
			}
		}
	}

	names := s.Classes()

	s.variants = make(map[string]int)
	for _, name := range names {
		seg, ok := s.SegmentVariants(name)
		if !ok {
			continue
		}
		for _, v := range seg.Variants {
			if _, seen := s.variants[v]; !seen {
				s.variants[v] = len(s.variants)
			}
		}
	}

	s.mu.Lock()
	s.indexes = nil
	s.mu.Unlock()
}

// Classes returns every registered class in stylesheet order.
func (s *Sheet) Classes() []string {
	names := make([]string, 0, len(s.classes))
	for name := range s.classes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := s.classes[names[i]], s.classes[names[j]]
		if a.order != b.order {
			return a.order < b.order
		}
		return a.name < b.name
	})
	return names
}

// SegmentVariants splits a class on the separator outside brackets and
// parentheses. Everything before the last segment is a variant, except a
// leading configured prefix. Unbalanced brackets or empty segments fail.
func (s *Sheet) SegmentVariants(class string) (utility.Segmentation, bool) {
	sep := s.config.Separator
	seg := utility.Segmentation{Prefix: s.config.Prefix, Separator: sep}

	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(class); i++ {
		switch class[i] {
		case '[', '(':
			depth++
		case ']', ')':
			depth--
			if depth < 0 {
				return utility.Segmentation{}, false
			}
		default:
			if depth == 0 && strings.HasPrefix(class[i:], sep) {
				parts = append(parts, class[start:i])
				i += len(sep) - 1
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return utility.Segmentation{}, false
	}
	parts = append(parts, class[start:])

	for _, p := range parts {
		if p == "" {
			return utility.Segmentation{}, false
		}
	}

	if s.config.Prefix != "" && len(parts) > 1 && parts[0] == s.config.Prefix {
		parts = parts[1:]
	}
	seg.Variants = parts[:len(parts)-1]
	return seg, true
}

// IsRegistered reports whether the class is compiled in the stylesheet, or its
// variant-free form is and every variant is used somewhere in the stylesheet.
func (s *Sheet) IsRegistered(class string) bool {
	if _, ok := s.classes[class]; ok {
		return true
	}
	_, ok := s.resolve(class)
	return ok
}

// resolve maps a class with variants onto its compiled variant-free form.
func (s *Sheet) resolve(class string) (utility.DissectedClass, bool) {
	d := utility.Dissect(class, s)
	if len(d.Variants) == 0 {
		return d, false
	}
	for _, v := range d.Variants {
		if _, ok := s.variants[v]; !ok {
			return d, false
		}
	}
	if _, ok := s.classes[baseClass(d)]; !ok {
		return d, false
	}
	return d, true
}

// baseClass rebuilds a dissected class without its variants.
func baseClass(d utility.DissectedClass) string {
	d.Variants = nil
	return utility.Build(d)
}

// variantMask sets one bit per variant rank above the low 32 bits reserved for rule order.
func (s *Sheet) variantMask(variants []string) *big.Int {
	mask := new(big.Int)
	for _, v := range variants {
		mask.SetBit(mask, s.variants[v], 1)
	}
	return mask.Lsh(mask, 32)
}

// OrderingKeys orders classes by rule position, with variant classes after
// plain utilities and grouped by the variants they use.
func (s *Sheet) OrderingKeys(classes []string) ([]*big.Int, error) {
	keys := make([]*big.Int, len(classes))

	for i, class := range classes {
		d := utility.Dissect(class, s)
		info, ok := s.classes[class]
		if len(d.Variants) > 0 {
			if base, found := s.classes[baseClass(d)]; found && s.IsRegistered(class) {
				info, ok = base, true
			}
		}
		if !ok {
			continue
		}

		key := s.variantMask(d.Variants)
		keys[i] = key.Add(key, big.NewInt(int64(info.order)))
	}

	return keys, nil
}

// PropertySets returns compiled declarations. A class with variants that is
// not compiled itself borrows its base declarations under variant-qualified paths.
func (s *Sheet) PropertySets(classes []string) (map[string]utility.PropertySet, error) {
	out := make(map[string]utility.PropertySet, len(classes))
	for _, class := range classes {
		if set, ok := s.propertySet(class); ok {
			out[class] = set
		}
	}
	return out, nil
}

func (s *Sheet) propertySet(class string) (utility.PropertySet, bool) {
	if info, ok := s.classes[class]; ok {
		return info.props, true
	}

	d, ok := s.resolve(class)
	if !ok {
		return nil, false
	}

	base := s.classes[baseClass(d)]
	scope := strings.Join(d.Variants, s.config.Separator) + s.config.Separator
	set := make(utility.PropertySet, len(base.props))
	for path, decls := range base.props {
		set[scope+path] = decls
	}
	return set, true
}
