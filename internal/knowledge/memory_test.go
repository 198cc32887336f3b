package knowledge_test

import (
	"context"
	"errors"
	"testing"

	"github.com/movnaglobal/chat-service/internal/knowledge"
	"github.com/movnaglobal/chat-service/internal/testutil"
)

func loadedIndex(t *testing.T) (*knowledge.MemoryIndex, *testutil.MockEmbedder) {
	t.Helper()

	emb := testutil.NewMockEmbedder(4)
	emb.SetVector("minimum investment", []float32{1, 0, 0, 0})
	emb.SetVector("contact support", []float32{0, 1, 0, 0})
	emb.SetVector("office hours", []float32{0, 0, 1, 0})
	emb.SetVector("what is the minimum", []float32{0.9, 0.1, 0, 0})

	idx := knowledge.NewMemoryIndex(emb, 2)
	records := []knowledge.Record{
		{Question: "minimum investment", Answer: "100,000 NIS"},
		{Question: "contact support", Answer: "Call us at 03-555-0100."},
		{Question: "office hours", Answer: "Sunday to Thursday, 9:00-17:00."},
	}
	if err := idx.Load(context.Background(), records); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return idx, emb
}

func TestSearchRanksBySimilarity(t *testing.T) {
	idx, _ := loadedIndex(t)

	hits, err := idx.Search(context.Background(), "what is the minimum?", knowledge.WithTopK(1))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	// top-k 1 with over-fetch 2 returns up to 2 candidates
	if len(hits) != 2 {
		t.Fatalf("len(hits) = %d, want 2", len(hits))
	}
	if hits[0].Record.Answer != "100,000 NIS" {
		t.Errorf("best hit = %q, want minimum investment answer", hits[0].Record.Answer)
	}
	if hits[0].Score < hits[1].Score {
		t.Error("hits not sorted by descending score")
	}
}

func TestSearchOverfetchBound(t *testing.T) {
	idx, _ := loadedIndex(t)

	hits, err := idx.Search(context.Background(), "what is the minimum?", knowledge.WithTopK(3))
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	// only 3 records exist, so the 3*2 bound is not reached
	if len(hits) != 3 {
		t.Errorf("len(hits) = %d, want 3", len(hits))
	}
}

func TestSearchPunctuationOnlyQuery(t *testing.T) {
	idx, _ := loadedIndex(t)

	// Normalization strips everything; the leftover empty string is still
	// embedded rather than rejected.
	hits, err := idx.Search(context.Background(), "?!.,")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(hits) != 3 {
		t.Errorf("len(hits) = %d, want 3", len(hits))
	}
}

func TestSearchNotLoaded(t *testing.T) {
	idx := knowledge.NewMemoryIndex(testutil.NewMockEmbedder(4), 2)
	if _, err := idx.Search(context.Background(), "anything"); !errors.Is(err, knowledge.ErrNotLoaded) {
		t.Errorf("Search() error = %v, want %v", err, knowledge.ErrNotLoaded)
	}
}

func TestLoadRejectsEmptySet(t *testing.T) {
	idx := knowledge.NewMemoryIndex(testutil.NewMockEmbedder(4), 2)
	if err := idx.Load(context.Background(), nil); !errors.Is(err, knowledge.ErrMalformedSet) {
		t.Errorf("Load() error = %v, want %v", err, knowledge.ErrMalformedSet)
	}
}
