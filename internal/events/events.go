// Package events carries the lifecycle signals exchanged with the chat host.
// The host adapter publishes them; the engine subscribes.
package events

// Event names published by the host.
const (
	// GenerationEnded fires after each assistant turn and triggers a
	// suggestion generation run.
	GenerationEnded = "generation_ended"
	// ChatChanged fires when the user switches chat or character. Payload
	// is a ChatChangedEvent.
	ChatChanged = "chat_changed"

	// Cleanup signals. Rendered suggestions are torn down on the first
	// occurrence of any of these.
	MessageSent    = "message_sent"
	MessageDeleted = "message_deleted"
	MessageSwiped  = "message_swiped"
)

// ChatChangedEvent identifies the character now in the foreground.
type ChatChangedEvent struct {
	CharacterID   string `json:"characterId"`
	CharacterName string `json:"characterName"`
}
