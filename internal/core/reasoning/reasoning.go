// Package reasoning models the chain-of-thought artifacts a translation
// batch left behind, and caches them per batch id for the lookup panel.
package reasoning

import (
	"context"
	"fmt"

	"github.com/aldersky/loom/pkg/kv"
)

// Batch is the reasoning record for one pipeline run. Any of the content
// fields may be absent; the panel omits sections for absent fields instead
// of rendering empty placeholders.
type Batch struct {
	Found           bool
	BatchID         int64
	Summary         string
	CharacterEvents map[string]string
	ReviewFeedback  map[string]string
}

// HasContent reports whether the batch carries anything worth rendering.
func (b Batch) HasContent() bool {
	return b.Found && (b.Summary != "" || len(b.CharacterEvents) > 0 || len(b.ReviewFeedback) > 0)
}

// Fetcher loads reasoning data for a batch id from the pipeline
// collaborator.
type Fetcher func(ctx context.Context, batchID int64) (Batch, error)

// Cache memoizes reasoning lookups per batch id for the lifetime of a run.
// Fetching is keyed on the batch id alone and happens whenever an id is
// resolvable, independent of panel visibility, so expanding the panel is
// instantaneous once data arrived. Negative results ("not found") are
// cached too; fetch errors are not, so the next selection retries.
type Cache struct {
	fetch Fetcher
	data  *kv.Store[int64, Batch]
}

// NewCache creates a cache around the given fetcher.
func NewCache(fetch Fetcher) *Cache {
	return &Cache{
		fetch: fetch,
		data:  kv.New[int64, Batch](),
	}
}

// Get returns the reasoning batch for the id, fetching it at most once.
func (c *Cache) Get(ctx context.Context, batchID int64) (Batch, error) {
	if b, ok := c.data.Get(batchID); ok {
		return b, nil
	}

	b, err := c.fetch(ctx, batchID)
	if err != nil {
		return Batch{}, fmt.Errorf("fetch reasoning for batch %d: %w", batchID, err)
	}
	b.BatchID = batchID

	c.data.Set(batchID, b)
	return b, nil
}

// Cached returns the batch only if it is already resident.
func (c *Cache) Cached(batchID int64) (Batch, bool) {
	return c.data.Get(batchID)
}

// Invalidate drops all cached batches. Called on editor-data refresh, since
// a re-translation may have produced new batches for the same segments.
func (c *Cache) Invalidate() {
	c.data.Clear()
}
