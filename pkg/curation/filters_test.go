package curation

import "testing"

func TestMatchesIntent_AnyQualifyingToken(t *testing.T) {
	hit := Hit{Title: "Flute Sonatas"}
	if !MatchesIntent(hit, "The Magic Flute") {
		t.Fatal("expected a match: token 'flute' appears in the title")
	}
}

func TestMatchesIntent_CreatorField(t *testing.T) {
	hit := Hit{Title: "A Love Supreme", Creator: "John Coltrane"}
	if !MatchesIntent(hit, "Coltrane discography") {
		t.Fatal("expected a match via the creator field")
	}
}

func TestMatchesIntent_ShortTokensOnly(t *testing.T) {
	hit := Hit{Title: "a an it: the collected works", Creator: "a an it"}
	if MatchesIntent(hit, "a an it") {
		t.Fatal("terms with no token longer than 3 chars must never match")
	}
}

func TestMatchesIntent_CaseInsensitive(t *testing.T) {
	hit := Hit{Title: "THE WASTELAND"}
	if !MatchesIntent(hit, "wasteland") {
		t.Fatal("matching must be case-insensitive")
	}
}

func TestMatchesIntent_NoMatch(t *testing.T) {
	hit := Hit{Title: "Cooking with Gas", Creator: "Anonymous"}
	if MatchesIntent(hit, "John Coltrane") {
		t.Fatal("unrelated hit must not match")
	}
}

func TestMeetsEngagement_DownloadsBelowMinimum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinDownloads = 10
	cfg.MinFavorites = 0

	hit := Hit{Downloads: 5, Favorites: 9999}
	ok, reason := MeetsEngagement(hit, cfg)
	if ok {
		t.Fatal("downloads below minimum must fail regardless of favorites")
	}
	if reason == "" {
		t.Fatal("expected a diagnostic reason")
	}
}

func TestMeetsEngagement_FavoritesBelowMinimum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinDownloads = 0
	cfg.MinFavorites = 2

	hit := Hit{Downloads: 100, Favorites: 1}
	if ok, _ := MeetsEngagement(hit, cfg); ok {
		t.Fatal("favorites below minimum must fail")
	}
}

func TestMeetsEngagement_MissingCountsWithZeroThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinDownloads = 0
	cfg.MinFavorites = 0

	// Missing counts arrive as zero and must pass zero thresholds.
	if ok, _ := MeetsEngagement(Hit{}, cfg); !ok {
		t.Fatal("zero counts must pass zero thresholds")
	}
}
