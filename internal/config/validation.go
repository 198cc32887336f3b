package config

import (
	"fmt"
	"os"
)

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model name is empty", ErrInvalidModelName)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: %.2f (must be 0.0-2.0)", ErrInvalidTemperature, c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidMaxTokens, c.MaxTokens)
	}
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder model is empty", ErrInvalidEmbedderModel)
	}

	if c.KnowledgePath == "" {
		return fmt.Errorf("%w: knowledge path is empty", ErrInvalidKnowledgePath)
	}
	switch c.KnowledgeBackend {
	case BackendMemory, BackendPostgres:
	default:
		return fmt.Errorf("%w: %q (must be %q or %q)",
			ErrInvalidBackend, c.KnowledgeBackend, BackendMemory, BackendPostgres)
	}

	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidTopK, c.Retrieval.TopK)
	}
	if c.Retrieval.MinScore < 0 || c.Retrieval.MinScore > 1 {
		return fmt.Errorf("%w: %.2f (must be 0.0-1.0)", ErrInvalidMinScore, c.Retrieval.MinScore)
	}
	if c.Retrieval.MaxAnswerLength <= 0 {
		return fmt.Errorf("%w: %d (must be positive)", ErrInvalidAnswerLength, c.Retrieval.MaxAnswerLength)
	}
	if c.Retrieval.Overfetch < 1 {
		return fmt.Errorf("%w: overfetch %d (must be at least 1)", ErrInvalidTopK, c.Retrieval.Overfetch)
	}

	if c.Validation.MaxReplyLength < 1000 || c.Validation.MaxReplyLength > 2000 {
		return fmt.Errorf("%w: %d (must be 1000-2000)", ErrInvalidReplyLength, c.Validation.MaxReplyLength)
	}

	if c.History.MaxTurns < 0 {
		return fmt.Errorf("%w: %d (must be non-negative)", ErrInvalidHistoryTurns, c.History.MaxTurns)
	}

	if c.KnowledgeBackend == BackendPostgres {
		if c.PostgresHost == "" {
			return fmt.Errorf("%w: host is empty", ErrInvalidPostgresHost)
		}
		if c.PostgresPort <= 0 || c.PostgresPort > 65535 {
			return fmt.Errorf("%w: %d (must be 1-65535)", ErrInvalidPostgresPort, c.PostgresPort)
		}
	}

	return nil
}

// RequireAPIKey checks that the Gemini API key is present in the environment.
// Called at startup before model initialization; kept out of Validate so
// tests can construct configs without credentials.
func RequireAPIKey() error {
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		return fmt.Errorf("%w: set GEMINI_API_KEY", ErrMissingAPIKey)
	}
	return nil
}
