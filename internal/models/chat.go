package models

// Conversation roles as reported by the host's message store.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatTurn is one message from the host's conversation history. Ephemeral;
// constructed per generation attempt, never persisted.
type ChatTurn struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

// TurnPair is the extracted plain text of the last user→assistant exchange.
type TurnPair struct {
	UserText string
	AIText   string
}
