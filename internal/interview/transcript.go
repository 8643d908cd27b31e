package interview

import "strings"

// Transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single transcript entry.
type Message struct {
	Role    string `json:"role" mapstructure:"role"`
	Content string `json:"content" mapstructure:"content"`
}

// Transcript is the append-only log of user and assistant turns. Insertion
// order is significant: it defines the conversational context sent to the
// completion service.
type Transcript struct {
	messages []Message
}

func (t *Transcript) Append(role, content string) {
	t.messages = append(t.messages, Message{Role: role, Content: content})
}

func (t *Transcript) Len() int {
	return len(t.messages)
}

// Messages returns a copy of the transcript entries.
func (t *Transcript) Messages() []Message {
	return append([]Message(nil), t.messages...)
}

// Render flattens the transcript into the "User: ..."/"Assistant: ..." form
// expected by the turn prompt.
func (t *Transcript) Render() string {
	lines := make([]string, 0, len(t.messages))
	for _, m := range t.messages {
		speaker := "Assistant"
		if m.Role == RoleUser {
			speaker = "User"
		}
		lines = append(lines, speaker+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
