package curation

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Term is a single search term within a category. In YAML it may appear
// either as a plain string or as a mapping with overrides:
//
//	terms:
//	  - John Coltrane
//	  - name: Sun Ra
//	    search_term: '"Sun Ra" Arkestra'
//	    mediatype: [audio]
type Term struct {
	Name       string   `yaml:"name"`
	SearchTerm string   `yaml:"search_term"`
	Mediatypes []string `yaml:"mediatype"`
}

// UnmarshalYAML accepts both the scalar and the mapping form.
func (t *Term) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		t.Name = node.Value
		return nil
	}
	type plain Term
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	if p.Name == "" {
		return fmt.Errorf("line %d: term entry is missing a name", node.Line)
	}
	*t = Term(p)
	return nil
}

// Query returns the text to search for: the explicit search_term when set,
// the term name otherwise.
func (t Term) Query() string {
	if t.SearchTerm != "" {
		return t.SearchTerm
	}
	return t.Name
}

// Category groups search terms under default mediatypes.
type Category struct {
	Mediatypes []string `yaml:"mediatype"`
	Terms      []Term   `yaml:"terms"`
}

// Categories maps category name to its definition.
type Categories map[string]Category

// Names returns category names in sorted order for stable display.
func (c Categories) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadCategories reads a categories YAML file.
func LoadCategories(path string) (Categories, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories config: %w", err)
	}
	var cats Categories
	if err := yaml.Unmarshal(raw, &cats); err != nil {
		return nil, fmt.Errorf("parse categories config %s: %w", path, err)
	}
	for name, cat := range cats {
		if len(cat.Terms) == 0 {
			return nil, fmt.Errorf("category %q has no terms", name)
		}
	}
	return cats, nil
}
