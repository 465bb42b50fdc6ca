package curation

// Hit is a raw search result as returned by a search provider, after the
// provider has normalized string-or-list source fields into the canonical
// shapes below. Hits are never mutated once built.
type Hit struct {
	Identifier  string
	Title       string
	Mediatype   string
	Creator     string // list-valued at the source; joined with ", "
	Publisher   string // list-valued at the source; joined with ", "
	Description string
	Collections []string
	Downloads   int
	Favorites   int
}

// FileInfo describes one file from an item's file listing.
type FileInfo struct {
	Name   string
	Format string
	Size   int64
}

// Enrichment carries supplementary per-item metadata fetched in a second
// pass. A nil *Enrichment means enrichment was skipped or the fetch failed;
// scoring treats both identically.
type Enrichment struct {
	// PageCount is nil when the page/image count could not be determined.
	PageCount *int
	// Files is the item's file listing. Only populated when HasFiles is
	// true; fetching it is slow so it is requested separately.
	Files    []FileInfo
	HasFiles bool
}

// ScoreResult is the outcome of confidence scoring for a single item.
type ScoreResult struct {
	Score   int      // clamped to [0,100]
	Reasons []string // signed adjustment reasons, in rule order
	Passes  bool     // Score >= configured minimum confidence
}

// Item is a scored candidate. It is the unit handed to every downstream
// consumer (display, export, list write-back, persistence).
type Item struct {
	Identifier string
	Title      string
	Mediatype  string
	URL        string
	Confidence ScoreResult
	SearchTerm string
	Category   string
	Creator    string
	Publisher  string
	PageCount  *int
}
