package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// qaFile is the on-disk knowledge format.
type qaFile struct {
	QAPairs []Record `json:"qa_pairs"`
}

// LoadFile reads the knowledge file and returns its records.
// A missing or malformed file is a hard error: the service must not start
// with an empty knowledge base by accident.
func LoadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading knowledge file: %w", err)
	}

	var f qaFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedSet, path, err)
	}
	if len(f.QAPairs) == 0 {
		return nil, fmt.Errorf("%w: %s: no qa_pairs", ErrMalformedSet, path)
	}

	for i, r := range f.QAPairs {
		if strings.TrimSpace(r.Question) == "" || strings.TrimSpace(r.Answer) == "" {
			return nil, fmt.Errorf("%w: %s: entry %d has empty question or answer",
				ErrMalformedSet, path, i)
		}
	}

	return f.QAPairs, nil
}

// NormalizeQuery prepares a caller query for embedding: common punctuation
// becomes spaces and whitespace runs collapse to single spaces. Punctuation
// variance between otherwise identical questions degraded match scores.
func NormalizeQuery(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		switch r {
		case '?', '!', '.', ',':
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
