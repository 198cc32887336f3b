package knowledge

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PostgresIndex stores knowledge embeddings in PostgreSQL with pgvector.
// It implements the same Index contract as MemoryIndex; the backend is
// chosen by configuration. Nearest-neighbor search orders by cosine
// distance and reports score = 1 - distance.
type PostgresIndex struct {
	pool      *pgxpool.Pool
	embedder  Embedder
	overfetch int
	loaded    bool
}

// NewPostgresIndex creates an index over an existing pool. The schema is
// managed by migrations; Load only replaces row contents.
func NewPostgresIndex(pool *pgxpool.Pool, embedder Embedder, overfetch int) *PostgresIndex {
	if overfetch < 1 {
		overfetch = 1
	}
	return &PostgresIndex{pool: pool, embedder: embedder, overfetch: overfetch}
}

// Load embeds every record and replaces the stored knowledge set in a
// single transaction, so a failed reload never leaves a partial index.
func (p *PostgresIndex) Load(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: no records", ErrMalformedSet)
	}

	vectors := make([]pgvector.Vector, len(records))
	for i, r := range records {
		vec, err := p.embedder.Embed(ctx, NormalizeQuery(r.Question))
		if err != nil {
			return fmt.Errorf("embedding record %d: %w", i, err)
		}
		vectors[i] = pgvector.NewVector(vec)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM knowledge_entries`); err != nil {
		return fmt.Errorf("clearing knowledge entries: %w", err)
	}

	batch := &pgx.Batch{}
	for i, r := range records {
		batch.Queue(
			`INSERT INTO knowledge_entries (question, answer, embedding) VALUES ($1, $2, $3)`,
			r.Question, r.Answer, vectors[i],
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting knowledge entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing knowledge load: %w", err)
	}
	p.loaded = true
	return nil
}

// Search returns up to topK * overfetch nearest entries for query.
func (p *PostgresIndex) Search(ctx context.Context, query string, opts ...SearchOption) ([]Hit, error) {
	normalized := NormalizeQuery(query)
	if !p.loaded {
		return nil, ErrNotLoaded
	}

	qvec, err := p.embedder.Embed(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	cfg := applyOptions(opts)
	limit := cfg.topK * p.overfetch

	rows, err := p.pool.Query(ctx,
		`SELECT question, answer, 1 - (embedding <=> $1) AS score
		   FROM knowledge_entries
		  ORDER BY embedding <=> $1
		  LIMIT $2`,
		pgvector.NewVector(qvec), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying knowledge entries: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		if err := rows.Scan(&h.Record.Question, &h.Record.Answer, &h.Score); err != nil {
			return nil, fmt.Errorf("scanning knowledge entry: %w", err)
		}
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading knowledge entries: %w", err)
	}
	return hits, nil
}
