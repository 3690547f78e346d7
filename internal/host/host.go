// Package host declares the collaborator ports supplied by the embedding
// chat platform. The engine consumes these narrow interfaces; their concrete
// adapters (DOM rendering, message store, slash commands) live outside this
// module.
package host

import (
	"context"

	"replyhint/internal/models"
)

// HistoryProvider exposes the host's conversation history.
type HistoryProvider interface {
	// LastMessageID returns the id of the newest message; 0 means fewer
	// than one exchange exists.
	LastMessageID(ctx context.Context) (int, error)
	// MessagesInRange returns the messages addressed by an inclusive
	// "<lo>-<hi>" range expression, oldest first.
	MessagesInRange(ctx context.Context, rng string) ([]models.ChatTurn, error)
}

// Renderer displays suggestion capsules to the user.
type Renderer interface {
	Render(suggestions []string, mode models.DisplayMode)
	Clear()
}

// Sender dispatches a picked suggestion as if the user had typed it.
// Quoting and escaping of arbitrary model-generated text is the adapter's
// responsibility.
type Sender interface {
	SendText(ctx context.Context, text string) error
}
