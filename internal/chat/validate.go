package chat

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// Validation errors. A rejected reply is terminal for the request; the
// pipeline never retries generation and never forwards the reply.
var (
	ErrEmptyReply     = errors.New("reply is empty")
	ErrReplyTooLong   = errors.New("reply exceeds maximum length")
	ErrDisallowedRune = errors.New("reply contains disallowed character")
	ErrMixedScript    = errors.New("reply mixes Hebrew and Latin letters")
)

// allowedRunes is the character allow-set for model replies: printable
// ASCII, Latin-1 supplement, the Hebrew block, general punctuation
// including directional marks, and common currency signs.
var allowedRunes = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0009, Hi: 0x000D, Stride: 1}, // tab, newline, carriage return
		{Lo: 0x0020, Hi: 0x007E, Stride: 1}, // printable ASCII
		{Lo: 0x00A0, Hi: 0x00FF, Stride: 1}, // Latin-1 supplement
		{Lo: 0x0590, Hi: 0x05FF, Stride: 1}, // Hebrew
		{Lo: 0x200E, Hi: 0x2027, Stride: 1}, // direction marks, dashes, quotes
		{Lo: 0x20AA, Hi: 0x20AC, Stride: 1}, // shekel, euro signs
	},
	LatinOffset: 3,
}

// Validator checks model replies before they reach the caller.
// Validation always runs when enabled, regardless of reply language.
type Validator struct {
	// MaxLength is the reply ceiling in characters.
	MaxLength int
	// StrictScript additionally rejects replies mixing Hebrew and Latin
	// letters. Off by default: bilingual replies quoting product names
	// are legitimate.
	StrictScript bool
}

// Validate checks a reply against the policy. It is read-only and
// idempotent; validating the same reply twice gives the same verdict.
func (v *Validator) Validate(reply string) error {
	if reply == "" {
		return ErrEmptyReply
	}
	if n := utf8.RuneCountInString(reply); n > v.MaxLength {
		return fmt.Errorf("%w: %d characters (limit %d)", ErrReplyTooLong, n, v.MaxLength)
	}

	var hasHebrew, hasLatin bool
	for i, r := range reply {
		if !unicode.Is(allowedRunes, r) {
			return fmt.Errorf("%w: %q at byte %d", ErrDisallowedRune, r, i)
		}
		switch {
		case r >= hebrewBlockLo && r <= hebrewBlockHi:
			hasHebrew = true
		case unicode.IsLetter(r):
			hasLatin = true
		}
	}
	if v.StrictScript && hasHebrew && hasLatin {
		return ErrMixedScript
	}
	return nil
}
