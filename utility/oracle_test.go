package utility

import (
	"errors"
	"math/big"
	"strings"
)

var errOracleDown = errors.New("oracle unavailable")

// fakeOracle answers from fixed tables.
type fakeOracle struct {
	prefix     string
	separator  string
	variants   map[string]bool
	keys       map[string]int64
	registered map[string]bool
	props      map[string]PropertySet
	canon      func(classes []string, opts CanonicalOptions) ([]string, error)

	keysErr  error
	propsErr error

	canonCalls int
}

func newFakeOracle() *fakeOracle {
	return &fakeOracle{
		separator:  ":",
		variants:   map[string]bool{"hover": true, "focus": true, "lg": true, "md": true, "dark": true},
		keys:       map[string]int64{},
		registered: map[string]bool{},
		props:      map[string]PropertySet{},
	}
}

func (f *fakeOracle) register(classes ...string) *fakeOracle {
	for _, c := range classes {
		f.registered[c] = true
	}
	return f
}

func (f *fakeOracle) SegmentVariants(class string) (Segmentation, bool) {
	if strings.HasPrefix(class, "??") {
		return Segmentation{}, false
	}

	seg := Segmentation{Prefix: f.prefix, Separator: f.separator}
	parts := strings.Split(class, f.separator)
	if f.prefix != "" && len(parts) > 1 && parts[0] == f.prefix {
		parts = parts[1:]
	}
	for _, p := range parts[:len(parts)-1] {
		if !f.variants[p] {
			break
		}
		seg.Variants = append(seg.Variants, p)
	}
	return seg, true
}

func (f *fakeOracle) OrderingKeys(classes []string) ([]*big.Int, error) {
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	keys := make([]*big.Int, len(classes))
	for i, c := range classes {
		if k, ok := f.keys[c]; ok {
			keys[i] = big.NewInt(k)
		}
	}
	return keys, nil
}

func (f *fakeOracle) PropertySets(classes []string) (map[string]PropertySet, error) {
	if f.propsErr != nil {
		return nil, f.propsErr
	}
	out := make(map[string]PropertySet)
	for _, c := range classes {
		if set, ok := f.props[c]; ok {
			out[c] = set
		}
	}
	return out, nil
}

func (f *fakeOracle) IsRegistered(class string) bool {
	return f.registered[class]
}

func (f *fakeOracle) Canonicalize(classes []string, opts CanonicalOptions) ([]string, error) {
	f.canonCalls++
	if f.canon == nil {
		return classes, nil
	}
	return f.canon(classes, opts)
}
