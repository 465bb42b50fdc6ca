package curation

import (
	"context"
	"sort"
)

// SearchProvider returns raw hits for a search. Implementations compose
// their own query syntax from the text and mediatype, sort by their own
// ranking key, and may return fewer than maxResults.
type SearchProvider interface {
	Search(ctx context.Context, text, mediatype string, maxResults int) ([]Hit, error)
	// ItemURL returns the canonical URL for an identifier.
	ItemURL(identifier string) string
}

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Pipeline runs the curation phases for a category: collect and filter
// candidates, enrich them concurrently, score them, and sort the result.
type Pipeline struct {
	Search   SearchProvider
	Metadata MetadataProvider
	Config   *Config
	Log      Logger // optional; nil = no logging
}

// CategoryOptions tunes a single RunCategory call.
type CategoryOptions struct {
	MaxResultsPerTerm int  // defaults to 50 if <= 0
	FetchEnrichment   bool // phase 2 runs only when true and Metadata is set
	IncludeFiles      bool // fetch file listings too (slow)
}

// candidate pairs a surviving hit with the term and mediatype it came from.
type candidate struct {
	hit       Hit
	term      string
	mediatype string
}

// RunCategory analyzes every term in a category and returns scored items
// sorted by score descending. Per-term search failures are logged and
// skipped; they never abort the category. Enrichment failures degrade to
// scoring without enrichment for the affected items only.
func (p *Pipeline) RunCategory(ctx context.Context, categoryName string, cat Category, opts CategoryOptions) ([]Item, error) {
	log := p.Log
	if log == nil {
		log = nopLogger{}
	}
	maxResults := opts.MaxResultsPerTerm
	if maxResults <= 0 {
		maxResults = 50
	}
	defaultTypes := cat.Mediatypes
	if len(defaultTypes) == 0 {
		defaultTypes = []string{"texts"}
	}

	log.Infof("Processing category %s: %d terms, default mediatype %v", categoryName, len(cat.Terms), defaultTypes)

	// Phase 1: collect search hits and drop obvious non-matches before any
	// expensive metadata I/O.
	seen := make(map[string]bool)
	var candidates []candidate
	for _, term := range cat.Terms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mediatypes := term.Mediatypes
		if len(mediatypes) == 0 {
			mediatypes = defaultTypes
		}

		for _, mediatype := range mediatypes {
			hits, err := p.Search.Search(ctx, term.Query(), mediatype, maxResults)
			if err != nil {
				log.Warnf("Search failed for %q (%s): %v", term.Query(), mediatype, err)
				continue
			}

			for _, hit := range hits {
				if hit.Identifier == "" || seen[hit.Identifier] {
					continue
				}
				seen[hit.Identifier] = true

				if !MatchesIntent(hit, term.Name) {
					log.Debugf("Dropping %s: no intent match for %q", hit.Identifier, term.Name)
					continue
				}
				if ok, reason := MeetsEngagement(hit, p.Config); !ok {
					log.Debugf("Dropping %s: %s", hit.Identifier, reason)
					continue
				}

				candidates = append(candidates, candidate{hit: hit, term: term.Name, mediatype: mediatype})
			}
		}
	}

	log.Infof("Category %s: %d candidates after filtering", categoryName, len(candidates))

	// Phase 2: batch-fetch metadata concurrently. The whole batch settles
	// before scoring starts.
	var enrichments map[string]*Enrichment
	if opts.FetchEnrichment && p.Metadata != nil && len(candidates) > 0 {
		log.Infof("Fetching metadata for %d items...", len(candidates))
		ids := make([]string, len(candidates))
		for i, c := range candidates {
			ids[i] = c.hit.Identifier
		}
		enrichments = FetchEnrichmentBatch(ctx, p.Metadata, ids, opts.IncludeFiles)
	}

	// Phase 3: score. Pure and sequential; one item at a time.
	results := make([]Item, 0, len(candidates))
	for _, c := range candidates {
		enrichment := enrichments[c.hit.Identifier]
		confidence := Score(c.hit, enrichment, c.mediatype, p.Config)

		item := Item{
			Identifier: c.hit.Identifier,
			Title:      c.hit.Title,
			Mediatype:  c.hit.Mediatype,
			URL:        p.Search.ItemURL(c.hit.Identifier),
			Confidence: confidence,
			SearchTerm: c.term,
			Category:   categoryName,
			Creator:    c.hit.Creator,
			Publisher:  c.hit.Publisher,
		}
		if item.Mediatype == "" {
			item.Mediatype = c.mediatype
		}
		if enrichment != nil {
			item.PageCount = enrichment.PageCount
		}
		results = append(results, item)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence.Score > results[j].Confidence.Score
	})

	passing := 0
	for _, r := range results {
		if r.Confidence.Passes {
			passing++
		}
	}
	log.Infof("Category %s: %d of %d items pass the confidence threshold", categoryName, passing, len(results))

	return results, nil
}

// PassingItems filters a scored result set down to items above threshold.
func PassingItems(items []Item) []Item {
	passing := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Confidence.Passes {
			passing = append(passing, item)
		}
	}
	return passing
}
