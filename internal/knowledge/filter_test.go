package knowledge

import (
	"strings"
	"testing"
)

func TestFilter(t *testing.T) {
	long := strings.Repeat("x", 501)
	hits := []Hit{
		{Record: Record{Answer: "best"}, Score: 0.95},
		{Record: Record{Answer: long}, Score: 0.90},
		{Record: Record{Answer: "good"}, Score: 0.80},
		{Record: Record{Answer: "weak"}, Score: 0.20},
		{Record: Record{Answer: "extra"}, Score: 0.75},
	}
	cfg := FilterConfig{TopK: 2, MinScore: 0.5, MaxAnswerLength: 500}

	got := Filter(hits, cfg)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != "best" || got[1] != "good" {
		t.Errorf("Filter() = %v, want [best good]", got)
	}
}

func TestFilterZeroMinScoreKeepsAll(t *testing.T) {
	hits := []Hit{
		{Record: Record{Answer: "a"}, Score: 0.01},
		{Record: Record{Answer: "b"}, Score: -0.2},
	}
	got := Filter(hits, FilterConfig{TopK: 3, MinScore: 0, MaxAnswerLength: 500})
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestFilterEmptyResultIsValid(t *testing.T) {
	hits := []Hit{{Record: Record{Answer: strings.Repeat("y", 600)}, Score: 0.99}}
	got := Filter(hits, FilterConfig{TopK: 3, MinScore: 0, MaxAnswerLength: 500})
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestFilterCountsRunesNotBytes(t *testing.T) {
	// 400 Hebrew letters exceed 500 bytes in UTF-8 but not 500 characters
	hebrew := strings.Repeat("א", 400)
	hits := []Hit{{Record: Record{Answer: hebrew}, Score: 0.9}}
	got := Filter(hits, FilterConfig{TopK: 1, MinScore: 0, MaxAnswerLength: 500})
	if len(got) != 1 {
		t.Error("Hebrew answer within character limit was dropped")
	}
}
