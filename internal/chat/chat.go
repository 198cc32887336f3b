// Package chat implements the retrieval-augmented reply pipeline:
// detect the query language, retrieve and filter company knowledge,
// compose the prompt, generate a reply, and validate it before it
// reaches the caller.
package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/movnaglobal/chat-service/internal/knowledge"
	"github.com/movnaglobal/chat-service/internal/log"
	"github.com/movnaglobal/chat-service/internal/session"
)

// Pipeline errors.
var (
	ErrEmptyQuery    = errors.New("query is empty")
	ErrReplyRejected = errors.New("reply failed validation")
)

// Config assembles a Service. Index, Completer, and Logger are required.
type Config struct {
	Index     knowledge.Index
	Completer Completer
	Logger    log.Logger

	Retrieval knowledge.FilterConfig

	ValidationEnabled bool
	MaxReplyLength    int
	StrictScript      bool

	MaxHistoryTurns int

	// RateLimiter paces completion calls to stay under upstream quota
	// (nil = default 10 req/s, burst 30).
	RateLimiter *rate.Limiter
}

func (c *Config) validate() error {
	if c.Index == nil {
		return errors.New("chat: Index is required")
	}
	if c.Completer == nil {
		return errors.New("chat: Completer is required")
	}
	if c.Logger == nil {
		return errors.New("chat: Logger is required")
	}
	if c.Retrieval.TopK <= 0 {
		return errors.New("chat: Retrieval.TopK must be positive")
	}
	if c.ValidationEnabled && c.MaxReplyLength <= 0 {
		return errors.New("chat: MaxReplyLength must be positive when validation is enabled")
	}
	return nil
}

// Service runs the chat pipeline. All fields are set at construction and
// never mutated, so a single Service is safe for concurrent requests.
type Service struct {
	index     knowledge.Index
	completer Completer
	composer  Composer
	validator *Validator
	retrieval knowledge.FilterConfig
	rateLimit *rate.Limiter
	logger    log.Logger
}

// New creates a Service from cfg.
func New(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	rl := cfg.RateLimiter
	if rl == nil {
		rl = rate.NewLimiter(10, 30)
	}

	var validator *Validator
	if cfg.ValidationEnabled {
		validator = &Validator{
			MaxLength:    cfg.MaxReplyLength,
			StrictScript: cfg.StrictScript,
		}
	}

	return &Service{
		index:     cfg.Index,
		completer: cfg.Completer,
		composer:  Composer{MaxHistoryTurns: cfg.MaxHistoryTurns},
		validator: validator,
		retrieval: cfg.Retrieval,
		rateLimit: rl,
		logger:    cfg.Logger,
	}, nil
}

// Result is one completed exchange.
type Result struct {
	// Reply is the validated assistant reply.
	Reply string
	// Language is the detected query language ("en" or "he").
	Language string
	// Turns is the caller's history extended with the new exchange.
	Turns []session.Turn
}

// Respond answers query given the caller-supplied history and returns the
// reply with the extended history. The server holds no conversation state;
// history lives entirely in the request and response.
func (s *Service) Respond(ctx context.Context, query string, history []session.Turn) (*Result, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	start := time.Now()
	lang := DetectLanguage(query)

	sess, err := session.FromTurns(history)
	if err != nil {
		return nil, fmt.Errorf("invalid history: %w", err)
	}

	snippets, err := s.retrieve(ctx, query)
	if err != nil {
		return nil, err
	}

	messages := s.composer.Compose(snippets, sess, query, lang)

	if err := s.rateLimit.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}
	reply, err := s.completer.Complete(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("completing chat: %w", err)
	}

	if s.validator != nil {
		if err := s.validator.Validate(reply); err != nil {
			s.logger.Warn("reply rejected by validator",
				"reason", err,
				"reply_length", len(reply))
			return nil, fmt.Errorf("%w: %v", ErrReplyRejected, err)
		}
	}

	if err := sess.AppendUserTurn(query); err != nil {
		return nil, err
	}
	if err := sess.AppendBotTurn(reply); err != nil {
		return nil, err
	}

	s.logger.Info("chat exchange completed",
		"language", lang,
		"knowledge_snippets", len(snippets),
		"history_turns", len(history),
		"duration", time.Since(start))

	return &Result{Reply: reply, Language: lang, Turns: sess.Turns()}, nil
}

// retrieve looks up and filters knowledge for query. Lookup failures fail
// the exchange: a reply composed without the knowledge base would come from
// the bare model, and the caller must not receive one as a success.
func (s *Service) retrieve(ctx context.Context, query string) ([]string, error) {
	hits, err := s.index.Search(ctx, query, knowledge.WithTopK(s.retrieval.TopK))
	if err != nil {
		return nil, fmt.Errorf("searching knowledge: %w", err)
	}
	return knowledge.Filter(hits, s.retrieval), nil
}
