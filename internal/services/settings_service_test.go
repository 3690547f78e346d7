package services_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"replyhint/internal/models"
	"replyhint/internal/services"
	"replyhint/internal/tests/mocks"
)

func newSettings(t *testing.T, store *mocks.KeyValueRepositoryMock) services.SettingsService {
	t.Helper()
	svc := services.NewSettingsService(store, zap.NewNop())
	svc.Load(context.Background())
	return svc
}

func storedSettings(t *testing.T, store *mocks.KeyValueRepositoryMock) models.Settings {
	t.Helper()
	raw, ok := store.Stored(services.SettingsKey)
	require.True(t, ok, "expected a persisted settings document")
	var out models.Settings
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func TestLoad_EmptyStoreInitializesDefaults(t *testing.T) {
	store := &mocks.KeyValueRepositoryMock{}
	svc := newSettings(t, store)

	snap := svc.Snapshot()
	require.NotEmpty(t, snap.Prompts)
	assert.Equal(t, 0, snap.ActivePromptIndex)
	assert.Equal(t, models.DisplayModeWrap, snap.DisplayMode)

	persisted := storedSettings(t, store)
	assert.Equal(t, snap.Prompts, persisted.Prompts)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	store := &mocks.KeyValueRepositoryMock{}
	store.Seed(services.SettingsKey, []byte(`{"apiKey":"sk-live","displayMode":"scroll"}`))
	svc := newSettings(t, store)

	snap := svc.Snapshot()
	assert.Equal(t, "sk-live", snap.APIKey)
	assert.Equal(t, models.DisplayModeScroll, snap.DisplayMode)
	// Absent prompts and bindings fall back to defaults, never emptied.
	require.NotEmpty(t, snap.Prompts)
	assert.NotNil(t, snap.CharacterBindings)
	assert.True(t, snap.ValidPresetIndex(snap.ActivePromptIndex))
}

func TestLoad_ClampsOutOfRangeActiveIndex(t *testing.T) {
	store := &mocks.KeyValueRepositoryMock{}
	store.Seed(services.SettingsKey, []byte(`{"activePromptIndex":7}`))
	svc := newSettings(t, store)

	assert.Equal(t, 0, svc.Snapshot().ActivePromptIndex)
}

func TestLoad_UnreadableDocumentFallsBackInMemory(t *testing.T) {
	store := &mocks.KeyValueRepositoryMock{}
	store.Seed(services.SettingsKey, []byte(`{not json`))
	svc := newSettings(t, store)

	snap := svc.Snapshot()
	require.NotEmpty(t, snap.Prompts)
	// The broken document is left alone; nothing is persisted back.
	assert.Zero(t, store.SetCalls)
}

func TestMutatorsPersist(t *testing.T) {
	ctx := context.Background()
	store := &mocks.KeyValueRepositoryMock{}
	svc := newSettings(t, store)
	before := store.SetCalls

	svc.SetAPIConfig(ctx, "key", "https://example.test/v1", "model-x")
	svc.AddPreset(ctx, "second", "content {{user_last_reply}}")
	require.NoError(t, svc.RenamePreset(ctx, 1, "renamed"))
	require.NoError(t, svc.SetPresetContent(ctx, 1, "updated"))

	assert.Equal(t, before+4, store.SetCalls)
	persisted := storedSettings(t, store)
	assert.Equal(t, "key", persisted.APIKey)
	require.Len(t, persisted.Prompts, 2)
	assert.Equal(t, "renamed", persisted.Prompts[1].Name)
	assert.Equal(t, "updated", persisted.Prompts[1].Content)
}

func TestSetDisplayMode_RejectsUnknownMode(t *testing.T) {
	svc := newSettings(t, &mocks.KeyValueRepositoryMock{})
	err := svc.SetDisplayMode(context.Background(), "sideways")
	assert.ErrorIs(t, err, services.ErrInvalidDisplayMode)
}

func TestDeletePreset_ReindexesBindings(t *testing.T) {
	ctx := context.Background()
	svc := newSettings(t, &mocks.KeyValueRepositoryMock{})
	svc.AddPreset(ctx, "one", "1")
	svc.AddPreset(ctx, "two", "2")
	require.NoError(t, svc.BindCharacter(ctx, "A", 0))
	require.NoError(t, svc.BindCharacter(ctx, "B", 1))
	require.NoError(t, svc.BindCharacter(ctx, "C", 2))

	require.NoError(t, svc.DeletePreset(ctx, 1))

	snap := svc.Snapshot()
	assert.Equal(t, map[string]int{"A": 0, "C": 1}, snap.CharacterBindings)
	_, stillBound := snap.CharacterBindings["B"]
	assert.False(t, stillBound)
	assert.Len(t, snap.Prompts, 2)
}

func TestDeletePreset_LastPresetRejected(t *testing.T) {
	svc := newSettings(t, &mocks.KeyValueRepositoryMock{})
	err := svc.DeletePreset(context.Background(), 0)
	assert.ErrorIs(t, err, services.ErrLastPreset)
	assert.Len(t, svc.Snapshot().Prompts, 1)
}

func TestDeletePreset_ActiveIndexNeverDangles(t *testing.T) {
	ctx := context.Background()
	svc := newSettings(t, &mocks.KeyValueRepositoryMock{})
	svc.AddPreset(ctx, "one", "1")
	require.NoError(t, svc.BindCharacter(ctx, "A", 1))
	require.Equal(t, 1, svc.Snapshot().ActivePromptIndex)

	require.NoError(t, svc.DeletePreset(ctx, 1))

	snap := svc.Snapshot()
	assert.True(t, snap.ValidPresetIndex(snap.ActivePromptIndex))
}

func TestBindCharacter_InvalidIndex(t *testing.T) {
	svc := newSettings(t, &mocks.KeyValueRepositoryMock{})
	err := svc.BindCharacter(context.Background(), "A", 3)
	assert.ErrorIs(t, err, services.ErrInvalidPresetIndex)
}

func TestActivePreset_DefensiveOnEmptyList(t *testing.T) {
	svc := newSettings(t, &mocks.KeyValueRepositoryMock{})
	preset, err := svc.ActivePreset()
	require.NoError(t, err)
	assert.NotEmpty(t, preset.Content)
}

func TestMarkUpdateNoticeSeen_OnceOnly(t *testing.T) {
	ctx := context.Background()
	svc := newSettings(t, &mocks.KeyValueRepositoryMock{})

	assert.True(t, svc.MarkUpdateNoticeSeen(ctx))
	assert.False(t, svc.MarkUpdateNoticeSeen(ctx))
	assert.Equal(t, services.ScriptVersion, svc.Snapshot().LastSeenVersion)
}

func TestSaveFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	store := &mocks.KeyValueRepositoryMock{
		SetFunc: func(context.Context, string, []byte) error {
			return assert.AnError
		},
	}
	svc := services.NewSettingsService(store, zap.NewNop())
	svc.Load(ctx)

	// Mutation still lands in memory even though persistence fails.
	svc.SetAPIConfig(ctx, "k", "u", "m")
	assert.Equal(t, "k", svc.Snapshot().APIKey)
}
