package utility

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collapsingCanon replaces each complete rule's inputs with its output and
// rewrites single classes through aliases.
func collapsingCanon(rules map[string][]string, aliases map[string]string) func([]string, CanonicalOptions) ([]string, error) {
	return func(classes []string, _ CanonicalOptions) ([]string, error) {
		present := toSet(classes)
		var out []string
		used := make(map[string]bool)

		names := make([]string, 0, len(rules))
		for name := range rules {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			complete := true
			for _, in := range rules[name] {
				if !present[in] || used[in] {
					complete = false
				}
			}
			if complete {
				for _, in := range rules[name] {
					used[in] = true
				}
				out = append(out, name)
			}
		}

		for _, c := range classes {
			if used[c] {
				continue
			}
			if a, ok := aliases[c]; ok {
				c = a
			}
			out = append(out, c)
		}
		return out, nil
	}
}

func TestCanonicalize_Collapse(t *testing.T) {
	oracle := newFakeOracle().register("w-10", "h-10")
	oracle.canon = collapsingCanon(map[string][]string{"size-10": {"w-10", "h-10"}}, nil)

	got := Canonicalize([]string{"w-10", "h-10"}, CanonicalOptions{}, oracle)
	want := CanonicalMap{
		"w-10": {NecessaryPeers: []string{"w-10", "h-10"}, Output: "size-10"},
		"h-10": {NecessaryPeers: []string{"w-10", "h-10"}, Output: "size-10"},
	}
	assert.Equal(t, want, got)
	assert.True(t, got.Changed("w-10"))
}

func TestCanonicalize_Empty(t *testing.T) {
	oracle := newFakeOracle()
	assert.Empty(t, Canonicalize(nil, CanonicalOptions{}, oracle))
	assert.Equal(t, 0, oracle.canonCalls)
}

func TestCanonicalize_UnchangedAndUnknown(t *testing.T) {
	oracle := newFakeOracle().register("flex", "p-4", "w-[16px]")
	oracle.canon = collapsingCanon(nil, map[string]string{"w-[16px]": "w-4"})

	got := Canonicalize([]string{"flex", "custom-thing", "p-4", "w-[16px]"}, CanonicalOptions{RootFontSize: 16}, oracle)

	assert.Equal(t, CanonicalEntry{NecessaryPeers: []string{"flex"}, Output: "flex"}, got["flex"])
	assert.Equal(t, CanonicalEntry{NecessaryPeers: []string{"p-4"}, Output: "p-4"}, got["p-4"])
	assert.Equal(t, CanonicalEntry{NecessaryPeers: []string{"custom-thing"}, Output: "custom-thing"}, got["custom-thing"])
	assert.Equal(t, CanonicalEntry{NecessaryPeers: []string{"w-[16px]"}, Output: "w-4"}, got["w-[16px]"])
	assert.False(t, got.Changed("flex"))
	assert.False(t, got.Changed("custom-thing"))
	assert.True(t, got.Changed("w-[16px]"))
}

func TestCanonicalize_OptionsForwarded(t *testing.T) {
	oracle := newFakeOracle().register("a")
	var seen []CanonicalOptions
	oracle.canon = func(classes []string, opts CanonicalOptions) ([]string, error) {
		seen = append(seen, opts)
		return classes, nil
	}

	opts := CanonicalOptions{Collapse: true, RootFontSize: 14}
	Canonicalize([]string{"a"}, opts, oracle)
	require.Len(t, seen, 1)
	assert.Equal(t, opts, seen[0])
}

func TestCanonicalize_OracleFailureIsIdentity(t *testing.T) {
	oracle := newFakeOracle().register("w-10", "h-10")
	oracle.canon = func([]string, CanonicalOptions) ([]string, error) {
		return nil, errOracleDown
	}

	got := Canonicalize([]string{"w-10", "h-10", "x"}, CanonicalOptions{}, oracle)
	for _, c := range []string{"w-10", "h-10", "x"} {
		assert.Equal(t, c, got[c].Output)
		assert.False(t, got.Changed(c))
	}
}

func TestCanonicalize_OnlyNecessaryPeers(t *testing.T) {
	oracle := newFakeOracle().register("w-10", "h-10", "mt-2", "mb-2")
	oracle.canon = collapsingCanon(map[string][]string{
		"size-10": {"w-10", "h-10"},
		"my-2":    {"mt-2", "mb-2"},
	}, nil)

	got := Canonicalize([]string{"mt-2", "w-10", "mb-2", "h-10"}, CanonicalOptions{Collapse: true}, oracle)

	assert.Equal(t, "size-10", got["w-10"].Output)
	assert.Equal(t, []string{"w-10", "h-10"}, got["w-10"].NecessaryPeers)
	assert.Equal(t, "my-2", got["mb-2"].Output)
	assert.Equal(t, []string{"mt-2", "mb-2"}, got["mb-2"].NecessaryPeers)
}

func TestCanonicalize_DroppedClass(t *testing.T) {
	oracle := newFakeOracle().register("block", "flex")
	oracle.canon = func(classes []string, _ CanonicalOptions) ([]string, error) {
		var out []string
		for _, c := range classes {
			if !strings.EqualFold(c, "block") {
				out = append(out, c)
			}
		}
		return out, nil
	}

	got := Canonicalize([]string{"block", "flex"}, CanonicalOptions{}, oracle)
	assert.Equal(t, CanonicalEntry{NecessaryPeers: []string{"block"}}, got["block"])
	assert.True(t, got.Changed("block"))
	assert.Equal(t, "flex", got["flex"].Output)
}

func TestCanonicalize_FailedPeerCheckKeepsClass(t *testing.T) {
	oracle := newFakeOracle().register("w-10", "h-10", "extra")

	var calls [][]string
	oracle.canon = func(classes []string, _ CanonicalOptions) ([]string, error) {
		calls = append(calls, append([]string(nil), classes...))
		if len(classes) == 3 {
			return []string{"size-10"}, nil
		}
		return nil, errOracleDown
	}

	got := Canonicalize([]string{"w-10", "h-10", "extra"}, CanonicalOptions{}, oracle)

	want := CanonicalEntry{NecessaryPeers: []string{"w-10", "h-10", "extra"}, Output: "size-10"}
	for _, c := range []string{"w-10", "h-10", "extra"} {
		assert.Equal(t, want, got[c], c)
	}
	assert.Len(t, calls, 4, "one batch call and one check per removed class")
}
