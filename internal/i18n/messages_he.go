package i18n

// hebrewMessages holds all Hebrew translations.
var hebrewMessages = map[string]string{
	// Chat service errors surfaced to end users.
	"error.generic":          "אירעה שגיאה בעת עיבוד הבקשה. אנא נסו שוב.",
	"error.message.required": "Message is required",

	// CLI output.
	"ask.thinking": "יוצר קשר עם נציג השירות...",
}
