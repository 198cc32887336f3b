package chat

import "github.com/movnaglobal/chat-service/internal/i18n"

// hebrewBlockLo and hebrewBlockHi bound the Unicode Hebrew block,
// covering letters, points, and punctuation.
const (
	hebrewBlockLo = 0x0590
	hebrewBlockHi = 0x05FF
)

// DetectLanguage returns the language code for a caller query. Any Hebrew
// character makes the query Hebrew; detection looks at the current query
// only, never at history, so a conversation can switch language mid-way.
func DetectLanguage(query string) string {
	for _, r := range query {
		if r >= hebrewBlockLo && r <= hebrewBlockHi {
			return i18n.LangHE
		}
	}
	return i18n.LangEN
}
