package utility

import (
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// OrderPolicy selects how Order sorts classes.
type OrderPolicy string

// Order policies
const (
	OrderAsc      OrderPolicy = "asc"      // byte order, ascending
	OrderDesc     OrderPolicy = "desc"     // byte order, descending
	OrderOfficial OrderPolicy = "official" // oracle ordering keys
	OrderImproved OrderPolicy = "improved" // official, clustered by variant path
)

// ErrUnknownPolicy is returned by ParseOrderPolicy for unsupported names.
var ErrUnknownPolicy = errors.New("unknown order policy")

// ParseOrderPolicy validates a policy name.
func ParseOrderPolicy(name string) (OrderPolicy, error) {
	switch p := OrderPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case OrderAsc, OrderDesc, OrderOfficial, OrderImproved:
		return p, nil
	}
	return "", fmt.Errorf("%w %q (want asc|desc|official|improved)", ErrUnknownPolicy, name)
}

// OrderOracle is what Order needs for the official and improved policies.
type OrderOracle interface {
	VariantSegmenter
	OrderKeyer
}

// Order returns a sorted copy of classes. All sorts are stable. An unknown
// policy sorts ascending.
func Order(classes []string, policy OrderPolicy, oracle OrderOracle) []string {
	out := append([]string(nil), classes...)

	switch policy {
	case OrderDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i] > out[j] })
	case OrderOfficial:
		out = officialOrder(out, oracle)
	case OrderImproved:
		out = clusterByVariants(officialOrder(out, oracle), oracle)
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i] < out[j] })
	}

	return out
}

type keyedClass struct {
	class string
	key   *big.Int
}

// officialOrder sorts by ordering key with nil keys first.
func officialOrder(classes []string, oracle OrderKeyer) []string {
	var keys []*big.Int
	if oracle != nil {
		k, err := oracle.OrderingKeys(classes)
		if err == nil && len(k) == len(classes) {
			keys = k
		}
	}

	items := make([]keyedClass, len(classes))
	for i, c := range classes {
		items[i].class = c
		if keys != nil {
			items[i].key = keys[i]
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return compareKeys(items[i].key, items[j].key) < 0
	})

	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.class
	}
	return out
}

// compareKeys orders nil before every non-nil key.
func compareKeys(a, b *big.Int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Cmp(b)
}

// clusterByVariants keeps classes that share a variant path adjacent. Clusters
// appear in the order their path is first seen; members keep their input order.
func clusterByVariants(ordered []string, seg VariantSegmenter) []string {
	var paths []string
	clusters := make(map[string][]string)

	for _, c := range ordered {
		path := Dissect(c, seg).VariantPath()
		if _, seen := clusters[path]; !seen {
			paths = append(paths, path)
		}
		clusters[path] = append(clusters[path], c)
	}

	out := make([]string, 0, len(ordered))
	for _, p := range paths {
		out = append(out, clusters[p]...)
	}
	return out
}
