package knowledge_test

import (
	"context"
	"testing"

	"github.com/movnaglobal/chat-service/internal/knowledge"
	"github.com/movnaglobal/chat-service/internal/testutil"
)

func TestPostgresIndexLoadAndSearch(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	emb := testutil.NewMockEmbedder(768)
	idx := knowledge.NewPostgresIndex(db.Pool, emb, 2)

	records := []knowledge.Record{
		{Question: "minimum investment", Answer: "100,000 NIS"},
		{Question: "contact support", Answer: "Call us at 03-555-0100."},
	}
	ctx := context.Background()
	if err := idx.Load(ctx, records); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	hits, err := idx.Search(ctx, "minimum investment?", knowledge.WithTopK(1))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) == 0 {
		t.Fatal("Search() returned no hits")
	}
	// identical text embeds identically, so the match is exact
	if hits[0].Record.Answer != "100,000 NIS" {
		t.Errorf("best hit = %q, want minimum investment answer", hits[0].Record.Answer)
	}
	if hits[0].Score < 0.99 {
		t.Errorf("score = %f, want ~1 for identical text", hits[0].Score)
	}

	// reload replaces, not appends
	if err := idx.Load(ctx, records[:1]); err != nil {
		t.Fatalf("Load() reload error = %v", err)
	}
	var count int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM knowledge_entries`).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d after reload, want 1", count)
	}
}
