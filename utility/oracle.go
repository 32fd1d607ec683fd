package utility

import "math/big"

// DefaultSeparator joins prefix, variants and base when the oracle does not say otherwise.
const DefaultSeparator = ":"

// Segmentation is the oracle's view of how a class splits into prefix, variants and base.
type Segmentation struct {
	Prefix    string
	Variants  []string
	Separator string
}

// Declaration is a single compiled CSS declaration.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// PropertySet maps a selector path (the compiled rule and at-rule context) to the
// declarations a class emits under it.
type PropertySet map[string][]Declaration

// CanonicalOptions are forwarded to the oracle unchanged.
type CanonicalOptions struct {
	Collapse     bool    // Allow several classes to collapse into one replacement
	RootFontSize float64 // px per rem used for unit comparison; 0 disables conversion
}

// VariantSegmenter knows where variants end and the utility begins.
// It reports false when the class cannot be segmented.
type VariantSegmenter interface {
	SegmentVariants(class string) (Segmentation, bool)
}

// OrderKeyer assigns ordering keys. A nil key means the class is unknown.
// The returned slice is parallel to classes.
type OrderKeyer interface {
	OrderingKeys(classes []string) ([]*big.Int, error)
}

// PropertySource compiles classes into property sets. Unknown classes are absent from the map.
type PropertySource interface {
	PropertySets(classes []string) (map[string]PropertySet, error)
}

// Registry reports whether a class exists in the active design system.
type Registry interface {
	IsRegistered(class string) bool
}

// Canonicalizer rewrites a batch of known classes into their canonical form.
type Canonicalizer interface {
	Canonicalize(classes []string, opts CanonicalOptions) ([]string, error)
}

// Oracle is the full design-system surface the engines consume.
type Oracle interface {
	VariantSegmenter
	OrderKeyer
	PropertySource
	Registry
	Canonicalizer
}
