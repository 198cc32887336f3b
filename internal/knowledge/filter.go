package knowledge

import "unicode/utf8"

// FilterConfig holds the retrieval filtering policy.
type FilterConfig struct {
	// TopK is the maximum number of answers to keep.
	TopK int
	// MinScore discards hits scoring below it. 0 disables the threshold.
	MinScore float32
	// MaxAnswerLength discards answers longer than this many characters.
	MaxAnswerLength int
}

// Filter reduces retrieval hits to the answers fit for prompt injection:
// over-long answers are dropped, then low-scoring hits, then everything
// beyond the top k. Order (best score first) is preserved. An empty result
// is valid; the chat pipeline proceeds without knowledge context.
func Filter(hits []Hit, cfg FilterConfig) []string {
	answers := make([]string, 0, cfg.TopK)
	for _, h := range hits {
		if utf8.RuneCountInString(h.Record.Answer) > cfg.MaxAnswerLength {
			continue
		}
		if cfg.MinScore > 0 && h.Score < cfg.MinScore {
			continue
		}
		answers = append(answers, h.Record.Answer)
		if len(answers) == cfg.TopK {
			break
		}
	}
	return answers
}
