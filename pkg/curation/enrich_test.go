package curation

import (
	"context"
	"errors"
	"sync"
	"testing"
)

// fakeMetadata serves canned enrichments and records which identifiers
// were requested.
type fakeMetadata struct {
	mu       sync.Mutex
	data     map[string]*Enrichment
	failing  map[string]bool
	requests []string
}

func (f *fakeMetadata) GetMetadata(ctx context.Context, identifier string, includeFiles bool) (*Enrichment, error) {
	f.mu.Lock()
	f.requests = append(f.requests, identifier)
	f.mu.Unlock()
	if f.failing[identifier] {
		return nil, errors.New("metadata fetch failed")
	}
	return f.data[identifier], nil
}

func TestFetchEnrichmentBatch_CompleteMap(t *testing.T) {
	pages := 120
	provider := &fakeMetadata{
		data: map[string]*Enrichment{
			"a": {PageCount: &pages},
			"b": {},
			"c": {},
		},
	}
	ids := []string{"a", "b", "c"}

	results := FetchEnrichmentBatch(context.Background(), provider, ids, false)
	if len(results) != 3 {
		t.Fatalf("expected one entry per identifier, got %d", len(results))
	}
	for _, id := range ids {
		if _, ok := results[id]; !ok {
			t.Fatalf("missing entry for %q", id)
		}
	}
	if results["a"] == nil || results["a"].PageCount == nil || *results["a"].PageCount != 120 {
		t.Fatalf("enrichment for a not carried through: %+v", results["a"])
	}
}

func TestFetchEnrichmentBatch_FailureIsolation(t *testing.T) {
	provider := &fakeMetadata{
		data:    map[string]*Enrichment{"ok1": {}, "ok2": {}},
		failing: map[string]bool{"bad": true},
	}

	results := FetchEnrichmentBatch(context.Background(), provider, []string{"ok1", "bad", "ok2"}, false)
	if len(results) != 3 {
		t.Fatalf("failed fetches must still produce entries, got %d", len(results))
	}
	if results["bad"] != nil {
		t.Fatalf("failed fetch must map to nil, got %+v", results["bad"])
	}
	if results["ok1"] == nil || results["ok2"] == nil {
		t.Fatal("failure must not disturb sibling fetches")
	}
}

func TestFetchEnrichmentBatch_DuplicateIdentifiersFetchedOnce(t *testing.T) {
	provider := &fakeMetadata{data: map[string]*Enrichment{"a": {}}}

	results := FetchEnrichmentBatch(context.Background(), provider, []string{"a", "a", "a"}, false)
	if len(results) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(results))
	}
	if len(provider.requests) != 1 {
		t.Fatalf("expected 1 fetch for a repeated identifier, got %d", len(provider.requests))
	}
}

func TestFetchEnrichmentBatch_EmptyInput(t *testing.T) {
	provider := &fakeMetadata{}
	results := FetchEnrichmentBatch(context.Background(), provider, nil, false)
	if len(results) != 0 {
		t.Fatalf("expected empty map, got %v", results)
	}
	if len(provider.requests) != 0 {
		t.Fatalf("no fetches expected, got %d", len(provider.requests))
	}
}

func TestFetchEnrichmentBatch_ManyIdentifiers(t *testing.T) {
	data := make(map[string]*Enrichment)
	var ids []string
	for i := 0; i < 100; i++ {
		id := identifierFor(i)
		data[id] = &Enrichment{}
		ids = append(ids, id)
	}
	provider := &fakeMetadata{data: data}

	results := FetchEnrichmentBatch(context.Background(), provider, ids, false)
	if len(results) != 100 {
		t.Fatalf("expected 100 entries, got %d", len(results))
	}
}

func identifierFor(n int) string {
	const digits = "0123456789"
	return "item-" + string(digits[n/10]) + string(digits[n%10])
}
