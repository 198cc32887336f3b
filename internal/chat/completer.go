package chat

import (
	"context"
	"fmt"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Completer produces a reply for a composed message list. The pipeline
// depends on this single capability rather than a full model client, so
// tests substitute a scripted implementation.
type Completer interface {
	Complete(ctx context.Context, messages []*ai.Message) (string, error)
}

// GenkitCompleter calls a Genkit-registered model by name.
type GenkitCompleter struct {
	g           *genkit.Genkit
	modelName   string
	temperature float32
	maxTokens   int
}

// NewGenkitCompleter creates a completer bound to a registered model,
// e.g. "googleai/gemini-2.5-flash".
func NewGenkitCompleter(g *genkit.Genkit, modelName string, temperature float32, maxTokens int) *GenkitCompleter {
	return &GenkitCompleter{
		g:           g,
		modelName:   modelName,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Complete generates a reply for messages.
func (c *GenkitCompleter) Complete(ctx context.Context, messages []*ai.Message) (string, error) {
	resp, err := genkit.Generate(ctx, c.g,
		ai.WithModelName(c.modelName),
		ai.WithMessages(messages...),
		ai.WithConfig(&ai.GenerationCommonConfig{
			Temperature:     float64(c.temperature),
			MaxOutputTokens: c.maxTokens,
		}),
	)
	if err != nil {
		return "", fmt.Errorf("generating reply: %w", err)
	}
	return resp.Text(), nil
}
