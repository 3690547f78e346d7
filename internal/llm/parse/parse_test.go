package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestions_OrderedTokens(t *testing.T) {
	got, err := Suggestions("【a】【b】【c】")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestSuggestions_SurroundingNoiseIgnored(t *testing.T) {
	got, err := Suggestions("好的，以下是建议：【拔出我的长剑！】废话【它好像受伤了？】")
	require.NoError(t, err)
	assert.Equal(t, []string{"拔出我的长剑！", "它好像受伤了？"}, got)
}

func TestSuggestions_EmptyInput(t *testing.T) {
	_, err := Suggestions("")
	assert.ErrorIs(t, err, ErrNoSuggestions)
}

func TestSuggestions_NoBrackets(t *testing.T) {
	_, err := Suggestions("no brackets here")
	assert.ErrorIs(t, err, ErrNoSuggestions)
}

func TestSuggestions_WhitespaceOnlyTokenDropped(t *testing.T) {
	got, err := Suggestions("【 】【ok】")
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, got)
}

func TestSuggestions_AllTokensEmpty(t *testing.T) {
	_, err := Suggestions("【】【  】")
	assert.ErrorIs(t, err, ErrNoSuggestions)
}

func TestSuggestions_TokensTrimmed(t *testing.T) {
	got, err := Suggestions("【 继续说 】【问一下】")
	require.NoError(t, err)
	assert.Equal(t, []string{"继续说", "问一下"}, got)
}
