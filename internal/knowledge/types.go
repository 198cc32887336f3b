// Package knowledge provides the question-answer knowledge base behind the
// chat service: loading curated Q&A pairs, embedding them, and retrieving
// the entries most semantically similar to a caller's query.
package knowledge

import "errors"

// Sentinel errors.
var (
	ErrNotLoaded    = errors.New("knowledge index is not loaded")
	ErrMalformedSet = errors.New("malformed knowledge data")
)

// Record is one curated question-answer pair.
type Record struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Hit is a retrieved record with its similarity score, in [0, 1]
// where 1 is an exact semantic match.
type Hit struct {
	Record Record
	Score  float32
}

// searchConfig holds per-call search options.
type searchConfig struct {
	topK int
}

// SearchOption configures a Search call.
type SearchOption func(*searchConfig)

// WithTopK sets the number of results to return. Values < 1 are ignored.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		if k >= 1 {
			c.topK = k
		}
	}
}

func applyOptions(opts []SearchOption) searchConfig {
	cfg := searchConfig{topK: 3}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
