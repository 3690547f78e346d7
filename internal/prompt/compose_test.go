package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"replyhint/internal/models"
)

func TestCompose_SubstitutesBothPlaceholders(t *testing.T) {
	preset := models.PromptPreset{
		Content: "user said: {{user_last_reply}}\nai said: {{ai_last_reply}}",
	}
	got := Compose(preset, models.TurnPair{UserText: "你好", AIText: "你好呀"})
	assert.Equal(t, "user said: 你好\nai said: 你好呀", got)
}

func TestCompose_RepeatedAndReordered(t *testing.T) {
	preset := models.PromptPreset{
		Content: "{{ai_last_reply}} / {{user_last_reply}} / {{user_last_reply}}",
	}
	got := Compose(preset, models.TurnPair{UserText: "u", AIText: "a"})
	assert.Equal(t, "a / u / u", got)
}

func TestCompose_MissingPlaceholdersNotAnError(t *testing.T) {
	preset := models.PromptPreset{Content: "static template"}
	got := Compose(preset, models.TurnPair{UserText: "u", AIText: "a"})
	assert.Equal(t, "static template", got)
}

func TestCompose_NoTrimming(t *testing.T) {
	preset := models.PromptPreset{Content: "  {{user_last_reply}}  "}
	got := Compose(preset, models.TurnPair{UserText: "x", AIText: "y"})
	assert.Equal(t, "  x  ", got)
}
