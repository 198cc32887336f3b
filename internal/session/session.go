// Package session models a single chat exchange.
//
// Sessions are stateless across requests: the caller supplies the full
// conversation history with every request and receives it back extended
// with the new exchange. The server keeps nothing between calls.
package session

import (
	"errors"
	"fmt"
)

// Wire roles accepted in caller-supplied history.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// Sentinel errors.
var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrInvalidRole  = errors.New("invalid turn role")
)

// Turn is one message in a conversation, as exchanged with callers.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Validate checks the turn's role.
func (t Turn) Validate() error {
	switch t.Role {
	case RoleUser, RoleBot:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRole, t.Role)
	}
}

// Session is the per-request conversation state. It starts empty and
// becomes active once the first turn is appended. Order is preserved.
type Session struct {
	turns []Turn
}

// FromTurns builds a session from caller-supplied history.
// Turns are copied; the caller's slice is not retained.
func FromTurns(turns []Turn) (*Session, error) {
	s := &Session{turns: make([]Turn, 0, len(turns)+2)}
	for i, t := range turns {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("history turn %d: %w", i, err)
		}
		s.turns = append(s.turns, t)
	}
	return s, nil
}

// Empty reports whether the session has no turns.
func (s *Session) Empty() bool { return len(s.turns) == 0 }

// Len returns the number of turns.
func (s *Session) Len() int { return len(s.turns) }

// Turns returns a copy of the turns in order.
func (s *Session) Turns() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// AppendUserTurn records a caller message.
func (s *Session) AppendUserTurn(content string) error {
	if content == "" {
		return ErrEmptyMessage
	}
	s.turns = append(s.turns, Turn{Role: RoleUser, Content: content})
	return nil
}

// AppendBotTurn records an assistant reply.
func (s *Session) AppendBotTurn(content string) error {
	if content == "" {
		return ErrEmptyMessage
	}
	s.turns = append(s.turns, Turn{Role: RoleBot, Content: content})
	return nil
}

// Tail returns a copy of the newest maxTurns turns, oldest dropped first.
// maxTurns <= 0 means all turns. The session itself is not modified, so a
// capped view handed to the model never shortens the history echoed back
// to the caller.
func (s *Session) Tail(maxTurns int) []Turn {
	turns := s.turns
	if maxTurns > 0 && len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	out := make([]Turn, len(turns))
	copy(out, turns)
	return out
}
