package curation

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTempYAML(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MinConfidence != 60 {
		t.Fatalf("min_confidence default: got %d", cfg.MinConfidence)
	}
	if cfg.MinDownloads != 10 || cfg.MinFavorites != 1 {
		t.Fatalf("engagement defaults: got %d/%d", cfg.MinDownloads, cfg.MinFavorites)
	}
	if cfg.PageCount.MinPages != 50 || cfg.PageCount.MinPenalty != 25 {
		t.Fatalf("page count defaults: %+v", cfg.PageCount)
	}
	if cfg.MediatypeLimits["movies"] != 10 {
		t.Fatalf("movies limit default: %+v", cfg.MediatypeLimits)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeTempYAML(t, "filters.yaml", `
min_confidence: 75
min_downloads: 100
academic_patterns:
  - thesis
  - dissertation
trusted_publishers:
  - Penguin
page_count:
  min_pages: 30
  min_penalty: 20
  bonus_threshold: 400
  bonus_points: 12
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.MinConfidence != 75 || cfg.MinDownloads != 100 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.MinFavorites != 1 || cfg.AcademicPenalty != 40 {
		t.Fatalf("defaults lost under partial override: %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AcademicPatterns, []string{"thesis", "dissertation"}) {
		t.Fatalf("patterns not loaded: %v", cfg.AcademicPatterns)
	}
	if cfg.PageCount.BonusThreshold != 400 {
		t.Fatalf("nested override not applied: %+v", cfg.PageCount)
	}
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"confidence over 100": "min_confidence: 150\n",
		"negative downloads":  "min_downloads: -5\n",
		"negative penalty":    "academic_penalty: -10\n",
		"negative limit":      "mediatype_limits:\n  movies: -1\n",
	}
	for name, content := range cases {
		path := writeTempYAML(t, "filters.yaml", content)
		if _, err := LoadConfig(path); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoadCategories_ScalarAndMappingTerms(t *testing.T) {
	path := writeTempYAML(t, "categories.yaml", `
jazz:
  mediatype: [audio]
  terms:
    - John Coltrane
    - name: Sun Ra
      search_term: '"Sun Ra" Arkestra'
      mediatype: [audio, movies]
literature:
  terms:
    - Moby Dick
`)
	cats, err := LoadCategories(path)
	if err != nil {
		t.Fatalf("LoadCategories: %v", err)
	}
	if !reflect.DeepEqual(cats.Names(), []string{"jazz", "literature"}) {
		t.Fatalf("Names: %v", cats.Names())
	}

	jazz := cats["jazz"]
	if !reflect.DeepEqual(jazz.Mediatypes, []string{"audio"}) {
		t.Fatalf("category mediatypes: %v", jazz.Mediatypes)
	}
	if len(jazz.Terms) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(jazz.Terms))
	}

	scalar := jazz.Terms[0]
	if scalar.Name != "John Coltrane" || scalar.Query() != "John Coltrane" {
		t.Fatalf("scalar term: %+v", scalar)
	}

	mapping := jazz.Terms[1]
	if mapping.Name != "Sun Ra" {
		t.Fatalf("mapping term name: %+v", mapping)
	}
	if mapping.Query() != `"Sun Ra" Arkestra` {
		t.Fatalf("explicit search term must win: %q", mapping.Query())
	}
	if !reflect.DeepEqual(mapping.Mediatypes, []string{"audio", "movies"}) {
		t.Fatalf("term mediatype override: %v", mapping.Mediatypes)
	}
}

func TestLoadCategories_EmptyTermsRejected(t *testing.T) {
	path := writeTempYAML(t, "categories.yaml", "empty:\n  terms: []\n")
	if _, err := LoadCategories(path); err == nil {
		t.Fatal("expected an error for a category with no terms")
	}
}

func TestLoadCategories_MappingTermWithoutName(t *testing.T) {
	path := writeTempYAML(t, "categories.yaml", "bad:\n  terms:\n    - search_term: foo\n")
	if _, err := LoadCategories(path); err == nil {
		t.Fatal("expected an error for a nameless term mapping")
	}
}
