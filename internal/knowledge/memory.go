package knowledge

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// embedConcurrency bounds parallel embedding calls during Load.
const embedConcurrency = 4

// Index retrieves knowledge records by semantic similarity. Search
// over-fetches beyond the requested k so downstream filtering still has
// enough candidates after discarding ineligible entries.
type Index interface {
	Load(ctx context.Context, records []Record) error
	Search(ctx context.Context, query string, opts ...SearchOption) ([]Hit, error)
}

// indexedRecord pairs a record with its embedding vector.
type indexedRecord struct {
	record Record
	vector []float32
}

// MemoryIndex is an in-memory vector index over the knowledge base.
// The corpus is small and rebuilt at startup, so brute-force cosine
// similarity is sufficient.
type MemoryIndex struct {
	embedder  Embedder
	overfetch int

	mu      sync.RWMutex
	entries []indexedRecord
}

// NewMemoryIndex creates an empty index. overfetch multiplies the requested
// top-k when searching; values < 1 are treated as 1.
func NewMemoryIndex(embedder Embedder, overfetch int) *MemoryIndex {
	if overfetch < 1 {
		overfetch = 1
	}
	return &MemoryIndex{embedder: embedder, overfetch: overfetch}
}

// Load embeds every record and replaces the index contents.
// Records keep their file order; embedding runs with bounded concurrency.
func (m *MemoryIndex) Load(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: no records", ErrMalformedSet)
	}

	entries := make([]indexedRecord, len(records))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(embedConcurrency)

	for i, r := range records {
		g.Go(func() error {
			vec, err := m.embedder.Embed(ctx, NormalizeQuery(r.Question))
			if err != nil {
				return fmt.Errorf("embedding record %d: %w", i, err)
			}
			entries[i] = indexedRecord{record: r, vector: vec}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	m.mu.Lock()
	m.entries = entries
	m.mu.Unlock()
	return nil
}

// Search returns the entries most similar to query, scored by cosine
// similarity and sorted descending. It returns up to topK * overfetch hits.
// The query is embedded as-is after normalization, even when normalization
// leaves nothing; the embedder decides what an empty query means.
func (m *MemoryIndex) Search(ctx context.Context, query string, opts ...SearchOption) ([]Hit, error) {
	normalized := NormalizeQuery(query)

	m.mu.RLock()
	entries := m.entries
	m.mu.RUnlock()
	if len(entries) == 0 {
		return nil, ErrNotLoaded
	}

	qvec, err := m.embedder.Embed(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	cfg := applyOptions(opts)
	limit := cfg.topK * m.overfetch

	hits := make([]Hit, 0, len(entries))
	for _, e := range entries {
		hits = append(hits, Hit{Record: e.record, Score: cosineSimilarity(qvec, e.vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// cosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector is zero-length or the dimensions differ.
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
