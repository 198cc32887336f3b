package i18n

// englishMessages holds all English translations.
var englishMessages = map[string]string{
	// Chat service errors surfaced to end users.
	"error.generic":          "An error occurred while processing your request. Please try again.",
	"error.message.required": "Message is required",

	// CLI output.
	"ask.thinking": "Contacting the service representative...",
}
