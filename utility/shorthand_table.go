package utility

import "regexp"

// valued builds a recipe whose longhands all carry the same value suffix,
// e.g. mt-4 mb-4 -> my-4.
func valued(target string, longhands ...string) ShorthandRecipe {
	patterns := make([]string, len(longhands))
	for i, l := range longhands {
		patterns[i] = "^" + regexp.QuoteMeta(l) + "-(.+)$"
	}
	return MustRecipe(patterns, target+"-$1")
}

// bare builds a recipe for longhands without a value, e.g. border-t border-b -> border-y.
func bare(target string, longhands ...string) ShorthandRecipe {
	patterns := make([]string, len(longhands))
	for i, l := range longhands {
		patterns[i] = "^" + regexp.QuoteMeta(l) + "$"
	}
	return MustRecipe(patterns, target)
}

// spacing covers the margin/padding/scroll families that share the t/r/b/l/x/y/s/e axes.
func spacing(name, p string) ShorthandGroup {
	return ShorthandGroup{
		Name: name,
		Recipes: []ShorthandRecipe{
			valued(p, p+"t", p+"b", p+"l", p+"r"),
			valued(p, p+"t", p+"b", p+"x"),
			valued(p, p+"l", p+"r", p+"y"),
			valued(p, p+"x", p+"y"),
			valued(p+"x", p+"l", p+"r"),
			valued(p+"x", p+"s", p+"e"),
			valued(p+"y", p+"t", p+"b"),
		},
	}
}

// edges covers border-width style families that exist with and without a value.
func edges(name, p string) ShorthandGroup {
	g := ShorthandGroup{Name: name}
	for _, mk := range []func(string, ...string) ShorthandRecipe{valued, bare} {
		g.Recipes = append(g.Recipes,
			mk(p, p+"-t", p+"-b", p+"-l", p+"-r"),
			mk(p, p+"-x", p+"-y"),
			mk(p+"-x", p+"-l", p+"-r"),
			mk(p+"-y", p+"-t", p+"-b"),
		)
	}
	return g
}

func corners(name, p string) ShorthandGroup {
	g := ShorthandGroup{Name: name}
	for _, mk := range []func(string, ...string) ShorthandRecipe{valued, bare} {
		g.Recipes = append(g.Recipes,
			mk(p, p+"-tl", p+"-tr", p+"-bl", p+"-br"),
			mk(p, p+"-t", p+"-b"),
			mk(p, p+"-l", p+"-r"),
			mk(p+"-t", p+"-tl", p+"-tr"),
			mk(p+"-b", p+"-bl", p+"-br"),
			mk(p+"-l", p+"-tl", p+"-bl"),
			mk(p+"-r", p+"-tr", p+"-br"),
		)
	}
	return g
}

func axes(name, p string) ShorthandGroup {
	return ShorthandGroup{
		Name:    name,
		Recipes: []ShorthandRecipe{valued(p, p+"-x", p+"-y")},
	}
}

// DefaultShorthandGroups returns the built-in recipe table. The table is
// rebuilt on every call so callers may append to it freely.
func DefaultShorthandGroups() []ShorthandGroup {
	return []ShorthandGroup{
		spacing("margin", "m"),
		spacing("padding", "p"),
		spacing("scroll-margin", "scroll-m"),
		spacing("scroll-padding", "scroll-p"),
		{
			Name: "inset",
			Recipes: []ShorthandRecipe{
				valued("inset", "top", "right", "bottom", "left"),
				valued("inset", "top", "bottom", "inset-x"),
				valued("inset", "left", "right", "inset-y"),
				valued("inset", "inset-x", "inset-y"),
				valued("inset-x", "left", "right"),
				valued("inset-x", "start", "end"),
				valued("inset-y", "top", "bottom"),
			},
		},
		{
			Name:    "size",
			Recipes: []ShorthandRecipe{valued("size", "w", "h")},
		},
		axes("gap", "gap"),
		axes("border-spacing", "border-spacing"),
		axes("overflow", "overflow"),
		axes("overscroll", "overscroll"),
		axes("scale", "scale"),
		axes("translate", "translate"),
		edges("border-width", "border"),
		corners("rounded", "rounded"),
		{
			Name: "place",
			Recipes: []ShorthandRecipe{
				MustRecipe([]string{`^content-(center|start|end|between|around|evenly|stretch)$`, `^justify-(center|start|end|between|around|evenly|stretch)$`}, "place-content-$1"),
				MustRecipe([]string{`^items-(center|start|end|baseline|stretch)$`, `^justify-items-(center|start|end|baseline|stretch)$`}, "place-items-$1"),
				MustRecipe([]string{`^self-(auto|center|start|end|stretch)$`, `^justify-self-(auto|center|start|end|stretch)$`}, "place-self-$1"),
			},
		},
		{
			Name: "truncate",
			Recipes: []ShorthandRecipe{
				bare("truncate", "overflow-hidden", "text-ellipsis", "whitespace-nowrap"),
			},
		},
	}
}
