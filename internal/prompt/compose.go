// Package prompt fills a preset template with the extracted conversation
// context.
package prompt

import (
	"strings"

	"replyhint/internal/models"
)

// Placeholders recognized in preset templates. Substitution is literal and
// order-independent; a template may repeat a placeholder or omit both.
const (
	PlaceholderUserReply = "{{user_last_reply}}"
	PlaceholderAIReply   = "{{ai_last_reply}}"
)

// Compose substitutes the extracted turn texts into the preset template.
// The result is returned otherwise unchanged; formatting is the template
// author's responsibility.
func Compose(preset models.PromptPreset, pair models.TurnPair) string {
	out := strings.ReplaceAll(preset.Content, PlaceholderUserReply, pair.UserText)
	out = strings.ReplaceAll(out, PlaceholderAIReply, pair.AIText)
	return out
}
