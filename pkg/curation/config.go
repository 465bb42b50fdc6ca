package curation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PageCountConfig controls the length/substance rule for document-like items.
type PageCountConfig struct {
	MinPages       int `yaml:"min_pages"`
	MinPenalty     int `yaml:"min_penalty"`
	BonusThreshold int `yaml:"bonus_threshold"`
	BonusPoints    int `yaml:"bonus_points"`
}

// Config holds every knob used by filtering and scoring. It is loaded once
// per run and never mutated afterwards; scoring reproducibility depends on
// that.
type Config struct {
	MinConfidence int `yaml:"min_confidence"`
	MinDownloads  int `yaml:"min_downloads"`
	MinFavorites  int `yaml:"min_favorites"`

	PageCount PageCountConfig `yaml:"page_count"`

	AcademicPatterns []string `yaml:"academic_patterns"`
	AcademicPenalty  int      `yaml:"academic_penalty"`

	InterviewPatterns []string `yaml:"interview_patterns"`
	InterviewPenalty  int      `yaml:"interview_penalty"`

	LiveRecordingPatterns []string `yaml:"live_recording_patterns"`
	LiveRecordingPenalty  int      `yaml:"live_recording_penalty"`

	TrustedPublishers []string `yaml:"trusted_publishers"`
	PublisherBonus    int      `yaml:"publisher_bonus"`

	TrustedCollections []string `yaml:"trusted_collections"`
	CollectionBonus    int      `yaml:"collection_bonus"`

	// PreferredFormats maps a mediatype to the file formats worth a bonus.
	PreferredFormats map[string][]string `yaml:"preferred_formats"`
	FormatBonus      int                 `yaml:"format_bonus"`

	// MediatypeLimits caps how many items of a given mediatype survive
	// dedupe-and-cap. Types without an entry are unlimited.
	MediatypeLimits map[string]int `yaml:"mediatype_limits"`
}

// DefaultConfig returns the baseline configuration used when no filters
// file is present, or as the base that a filters file overrides.
func DefaultConfig() *Config {
	return &Config{
		MinConfidence: 60,
		MinDownloads:  10,
		MinFavorites:  1,
		PageCount: PageCountConfig{
			MinPages:       50,
			MinPenalty:     25,
			BonusThreshold: 200,
			BonusPoints:    10,
		},
		AcademicPenalty:      40,
		InterviewPenalty:     50,
		LiveRecordingPenalty: 30,
		PublisherBonus:       15,
		CollectionBonus:      10,
		FormatBonus:          5,
		MediatypeLimits:      map[string]int{"movies": 10},
	}
}

// LoadConfig reads a filters YAML file on top of the defaults. Any invalid
// value is a hard error: the pipeline must never start with a
// partially-valid configuration.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read filters config: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse filters config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid filters config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations that scoring cannot honor.
func (c *Config) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 100 {
		return fmt.Errorf("min_confidence must be within [0,100], got %d", c.MinConfidence)
	}
	if c.MinDownloads < 0 {
		return fmt.Errorf("min_downloads must not be negative, got %d", c.MinDownloads)
	}
	if c.MinFavorites < 0 {
		return fmt.Errorf("min_favorites must not be negative, got %d", c.MinFavorites)
	}
	for name, v := range map[string]int{
		"academic_penalty":       c.AcademicPenalty,
		"interview_penalty":      c.InterviewPenalty,
		"live_recording_penalty": c.LiveRecordingPenalty,
		"publisher_bonus":        c.PublisherBonus,
		"collection_bonus":       c.CollectionBonus,
		"format_bonus":           c.FormatBonus,
		"page_count.min_penalty": c.PageCount.MinPenalty,
		"page_count.bonus_points": c.PageCount.BonusPoints,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %d", name, v)
		}
	}
	if c.PageCount.MinPages < 0 {
		return fmt.Errorf("page_count.min_pages must not be negative, got %d", c.PageCount.MinPages)
	}
	for mt, limit := range c.MediatypeLimits {
		if limit < 0 {
			return fmt.Errorf("mediatype_limits.%s must not be negative, got %d", mt, limit)
		}
	}
	return nil
}
