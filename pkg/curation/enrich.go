package curation

import (
	"context"
	"sync"
)

// MetadataProvider fetches supplementary metadata for a single item.
// Implementations own their transport concerns (timeouts, retries); the
// batcher only isolates failures.
type MetadataProvider interface {
	GetMetadata(ctx context.Context, identifier string, includeFiles bool) (*Enrichment, error)
}

// enrichmentWorkers bounds concurrent in-flight metadata fetches.
const enrichmentWorkers = 10

// FetchEnrichmentBatch fetches enrichment for every identifier using a
// fixed-size worker pool. The returned map has exactly one entry per
// distinct identifier; a failed fetch leaves a nil entry for that key and
// never disturbs its siblings. The call returns once every fetch has
// settled.
func FetchEnrichmentBatch(ctx context.Context, provider MetadataProvider, identifiers []string, includeFiles bool) map[string]*Enrichment {
	results := make(map[string]*Enrichment, len(identifiers))
	if provider == nil || len(identifiers) == 0 {
		return results
	}

	idChan := make(chan string, len(identifiers))

	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := enrichmentWorkers
	if len(identifiers) < workers {
		workers = len(identifiers)
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range idChan {
				enrichment, err := provider.GetMetadata(ctx, id, includeFiles)
				if err != nil {
					enrichment = nil
				}
				mu.Lock()
				results[id] = enrichment
				mu.Unlock()
			}
		}()
	}

	seen := make(map[string]bool, len(identifiers))
	for _, id := range identifiers {
		if seen[id] {
			continue
		}
		seen[id] = true
		idChan <- id
	}
	close(idChan)
	wg.Wait()

	return results
}
