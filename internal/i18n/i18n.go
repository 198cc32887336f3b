// Package i18n provides the user-facing message catalog.
//
// Unlike a CLI where one language is picked at startup, the chat service
// answers each request in the language detected from the query, so every
// lookup carries an explicit language tag.
package i18n

import "strings"

// Supported language tags.
const (
	LangEN = "en"
	LangHE = "he"
)

// messages stores all translations, keyed by language then message key.
var messages = map[string]map[string]string{
	LangEN: englishMessages,
	LangHE: hebrewMessages,
}

// T returns the translated message for key in the given language.
// Falls back to English, then to the key itself.
func T(lang, key string) string {
	if msg, ok := messages[normalize(lang)][key]; ok {
		return msg
	}
	if msg, ok := messages[LangEN][key]; ok {
		return msg
	}
	return key
}

// IsSupported reports whether lang is a supported language tag.
func IsSupported(lang string) bool {
	_, ok := messages[normalize(lang)]
	return ok
}

func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "he", "he-il", "iw", "hebrew":
		return LangHE
	case "en", "en-us", "en-gb", "english":
		return LangEN
	}
	return lang
}
