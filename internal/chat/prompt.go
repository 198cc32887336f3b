package chat

import (
	"strings"

	"github.com/firebase/genkit/go/ai"

	"github.com/movnaglobal/chat-service/internal/i18n"
	"github.com/movnaglobal/chat-service/internal/session"
)

// companyDescription anchors every reply to the business domain.
const companyDescription = "You are a helpful customer service representative for Movna Global, " +
	"a company specializing in structured financial products for qualified and unqualified clients."

// directives are the standing behavioral rules for the assistant.
var directives = []string{
	"Answer only questions related to Movna Global, its products, and its services.",
	"Base your answers on the company knowledge provided below when it is relevant.",
	"Be courteous, professional, and concise.",
	"If you do not know the answer, say so and refer the customer to a human representative.",
	"Never invent figures, terms, or commitments that do not appear in the company knowledge.",
}

// hebrewDirective is appended when the caller's query is in Hebrew.
const hebrewDirective = "השב בעברית."

// knowledgeHeader introduces the retrieved snippets inside the system message.
const knowledgeHeader = "Company knowledge:"

// knowledgeSeparator joins retrieved snippets. Kept stable so prompt
// caching upstream is not defeated by formatting churn.
const knowledgeSeparator = "\n- "

// Composer assembles the model message list for one exchange.
type Composer struct {
	// MaxHistoryTurns caps the history sent to the model, oldest dropped
	// first. 0 means unbounded. The cap applies to prompt assembly only;
	// the session handed in is never modified.
	MaxHistoryTurns int
}

// Compose builds the messages for a completion call: one system message
// carrying the company description, directives, and retrieved knowledge,
// followed by the conversation history in order and the new user message.
// lang selects language directives; snippets may be empty.
func (c *Composer) Compose(snippets []string, sess *session.Session, query, lang string) []*ai.Message {
	turns := sess.Tail(c.MaxHistoryTurns)

	messages := make([]*ai.Message, 0, len(turns)+2)
	messages = append(messages, ai.NewSystemTextMessage(c.systemText(snippets, lang)))

	for _, t := range turns {
		switch t.Role {
		case session.RoleUser:
			messages = append(messages, ai.NewUserTextMessage(t.Content))
		case session.RoleBot:
			messages = append(messages, ai.NewModelTextMessage(t.Content))
		}
	}

	messages = append(messages, ai.NewUserTextMessage(query))
	return messages
}

func (c *Composer) systemText(snippets []string, lang string) string {
	var b strings.Builder
	b.WriteString(companyDescription)
	b.WriteString("\n\n")
	for _, d := range directives {
		b.WriteString("- ")
		b.WriteString(d)
		b.WriteString("\n")
	}
	if lang == i18n.LangHE {
		b.WriteString("- ")
		b.WriteString(hebrewDirective)
		b.WriteString("\n")
	}
	if len(snippets) > 0 {
		b.WriteString("\n")
		b.WriteString(knowledgeHeader)
		b.WriteString(knowledgeSeparator)
		b.WriteString(strings.Join(snippets, knowledgeSeparator))
	}
	return b.String()
}
