package twlint

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/yacobolo/twlint/utility"
	"gopkg.in/yaml.v3"
)

// RecipeFile is the YAML layout of extra shorthand groups:
//
//	groups:
//	  - name: border-color
//	    recipes:
//	      - patterns: ["^border-x-(.+)$", "^border-y-(.+)$"]
//	        substitutes: ["border-$1"]
type RecipeFile struct {
	Groups []RecipeGroup `yaml:"groups"`
}

// RecipeGroup is one named group of recipes
type RecipeGroup struct {
	Name    string         `yaml:"name"`
	Recipes []RecipeSource `yaml:"recipes"`
}

// RecipeSource is an uncompiled recipe
type RecipeSource struct {
	Patterns    []string `yaml:"patterns"`
	Substitutes []string `yaml:"substitutes"`
}

// LoadRecipes reads and compiles shorthand groups from a YAML file.
func LoadRecipes(path string) ([]utility.ShorthandGroup, error) {
	// #nosec G304 - path comes from trusted configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recipes: %w", err)
	}

	groups, err := ParseRecipes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return groups, nil
}

// ParseRecipes compiles shorthand groups from YAML. Unknown keys are errors.
func ParseRecipes(data []byte) ([]utility.ShorthandGroup, error) {
	var file RecipeFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode recipes: %w", err)
	}

	groups := make([]utility.ShorthandGroup, 0, len(file.Groups))
	for i, g := range file.Groups {
		if g.Name == "" {
			return nil, fmt.Errorf("group %d has no name", i)
		}
		if len(g.Recipes) == 0 {
			return nil, fmt.Errorf("group %q has no recipes", g.Name)
		}

		group := utility.ShorthandGroup{Name: g.Name}
		for j, src := range g.Recipes {
			recipe, err := utility.NewRecipe(src.Patterns, src.Substitutes...)
			if err != nil {
				return nil, fmt.Errorf("group %q recipe %d: %w", g.Name, j, err)
			}
			group.Recipes = append(group.Recipes, recipe)
		}
		groups = append(groups, group)
	}

	return groups, nil
}
