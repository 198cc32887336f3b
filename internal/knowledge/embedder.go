package knowledge

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
)

// Embedder converts text into a vector. The index depends on this
// capability alone rather than a full model client, so tests supply a
// deterministic implementation and production supplies Genkit's.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// GenkitEmbedder adapts a Genkit ai.Embedder to the Embedder interface.
type GenkitEmbedder struct {
	embedder ai.Embedder
}

// NewGenkitEmbedder wraps a Genkit embedder.
func NewGenkitEmbedder(embedder ai.Embedder) *GenkitEmbedder {
	return &GenkitEmbedder{embedder: embedder}
}

// Embed returns the embedding vector for text.
func (g *GenkitEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := &ai.EmbedRequest{
		Input: []*ai.Document{
			ai.DocumentFromText(text, nil),
		},
	}

	resp, err := g.embedder.Embed(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("embed failed: %w", err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}

	return resp.Embeddings[0].Embedding, nil
}
