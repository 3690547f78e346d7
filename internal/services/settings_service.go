package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"replyhint/internal/models"
	"replyhint/internal/repositories"
)

// SettingsKey is the namespace key the settings document is stored under.
// Kept identical to the original host-variable key so an existing store
// carries over.
const SettingsKey = "AI指引助手2.0变量"

// ScriptVersion gates the one-time update notice.
const ScriptVersion = "2.1.1"

// SettingsService owns the in-memory settings value and its persistence.
// Constructed once at process start and shared by reference; there is no
// ambient global. Mutators persist after every change; persistence failures
// are logged and otherwise ignored.
type SettingsService interface {
	Load(ctx context.Context)
	Snapshot() models.Settings
	ActivePreset() (models.PromptPreset, error)

	SetAPIConfig(ctx context.Context, apiKey, baseURL, model string)
	SetDisplayMode(ctx context.Context, mode models.DisplayMode) error
	AddPreset(ctx context.Context, name, content string)
	RenamePreset(ctx context.Context, index int, name string) error
	SetPresetContent(ctx context.Context, index int, content string) error
	DeletePreset(ctx context.Context, index int) error
	BindCharacter(ctx context.Context, charID string, index int) error
	MarkUpdateNoticeSeen(ctx context.Context) bool

	// mutate is the package-internal primitive behind every mutator: fn
	// runs under the settings lock and its return value decides whether
	// the document is persisted. Keeps multi-field transitions (binding
	// resolution) atomic without exposing raw settings access.
	mutate(ctx context.Context, fn func(*models.Settings) bool)
}

type settingsService struct {
	mu       sync.RWMutex
	settings models.Settings
	store    repositories.KeyValueRepository
	logger   *zap.Logger
}

func NewSettingsService(store repositories.KeyValueRepository, logger *zap.Logger) SettingsService {
	return &settingsService{
		settings: models.DefaultSettings(),
		store:    store,
		logger:   logger.Named("settings"),
	}
}

// settingsPatch mirrors models.Settings with presence-detectable fields so a
// stored document can be merged over defaults field by field.
type settingsPatch struct {
	APIKey            *string               `json:"apiKey"`
	BaseURL           *string               `json:"baseUrl"`
	Model             *string               `json:"model"`
	ActivePromptIndex *int                  `json:"activePromptIndex"`
	DisplayMode       *models.DisplayMode   `json:"displayMode"`
	CharacterBindings map[string]int        `json:"characterBindings"`
	Prompts           []models.PromptPreset `json:"prompts"`
	LastSeenVersion   *string               `json:"lastSeenScriptVersion"`
}

// Load reads the stored document. A missing document initializes the store
// with defaults; a read or decode failure falls back to defaults in memory
// only. Load never fails the caller.
func (s *settingsService) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = models.DefaultSettings()

	raw, found, err := s.store.Get(ctx, SettingsKey)
	if err != nil {
		s.logger.Error("settings read failed, using defaults", zap.Error(err))
		return
	}
	if !found {
		s.logger.Info("no stored settings, initializing defaults")
		s.persistLocked(ctx)
		return
	}

	var patch settingsPatch
	if err := json.Unmarshal(raw, &patch); err != nil {
		s.logger.Error("settings decode failed, using defaults", zap.Error(err))
		return
	}
	s.applyPatchLocked(patch)
	s.logger.Info("settings loaded",
		zap.Int("presets", len(s.settings.Prompts)),
		zap.Int("bindings", len(s.settings.CharacterBindings)))
}

func (s *settingsService) applyPatchLocked(patch settingsPatch) {
	if patch.APIKey != nil {
		s.settings.APIKey = *patch.APIKey
	}
	if patch.BaseURL != nil {
		s.settings.BaseURL = *patch.BaseURL
	}
	if patch.Model != nil {
		s.settings.Model = *patch.Model
	}
	if patch.DisplayMode != nil && patch.DisplayMode.Valid() {
		s.settings.DisplayMode = *patch.DisplayMode
	}
	if patch.LastSeenVersion != nil {
		s.settings.LastSeenVersion = *patch.LastSeenVersion
	}
	// Prompts and bindings fall back to defaults when absent; a stored
	// document must never silently empty them.
	if len(patch.Prompts) > 0 {
		s.settings.Prompts = patch.Prompts
	}
	if patch.CharacterBindings != nil {
		s.settings.CharacterBindings = patch.CharacterBindings
	}
	if patch.ActivePromptIndex != nil {
		s.settings.ActivePromptIndex = *patch.ActivePromptIndex
	}
	if !s.settings.ValidPresetIndex(s.settings.ActivePromptIndex) {
		s.logger.Warn("stored active preset index out of range, resetting",
			zap.Int("index", s.settings.ActivePromptIndex))
		s.settings.ActivePromptIndex = 0
	}
}

// persistLocked writes the current document. Failures are non-fatal: logged,
// not retried, not surfaced.
func (s *settingsService) persistLocked(ctx context.Context) {
	raw, err := json.Marshal(s.settings)
	if err != nil {
		s.logger.Error("settings encode failed", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, SettingsKey, raw); err != nil {
		s.logger.Error("settings save failed", zap.Error(err))
	}
}

func (s *settingsService) Snapshot() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

func (s *settingsService) ActivePreset() (models.PromptPreset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.settings.ValidPresetIndex(s.settings.ActivePromptIndex) {
		return models.PromptPreset{}, ErrNoActivePreset
	}
	return s.settings.Prompts[s.settings.ActivePromptIndex], nil
}

// mutate applies fn under the lock and persists when fn reports a change.
func (s *settingsService) mutate(ctx context.Context, fn func(*models.Settings) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fn(&s.settings) {
		s.persistLocked(ctx)
	}
}

func (s *settingsService) SetAPIConfig(ctx context.Context, apiKey, baseURL, model string) {
	s.mutate(ctx, func(st *models.Settings) bool {
		st.APIKey = strings.TrimSpace(apiKey)
		st.BaseURL = strings.TrimSpace(baseURL)
		st.Model = strings.TrimSpace(model)
		return true
	})
}

func (s *settingsService) SetDisplayMode(ctx context.Context, mode models.DisplayMode) error {
	if !mode.Valid() {
		return ErrInvalidDisplayMode
	}
	s.mutate(ctx, func(st *models.Settings) bool {
		st.DisplayMode = mode
		return true
	})
	return nil
}

func (s *settingsService) AddPreset(ctx context.Context, name, content string) {
	s.mutate(ctx, func(st *models.Settings) bool {
		st.Prompts = append(st.Prompts, models.PromptPreset{Name: name, Content: content})
		return true
	})
}

func (s *settingsService) RenamePreset(ctx context.Context, index int, name string) error {
	return s.mutatePreset(ctx, index, func(p *models.PromptPreset) {
		p.Name = name
	})
}

func (s *settingsService) SetPresetContent(ctx context.Context, index int, content string) error {
	return s.mutatePreset(ctx, index, func(p *models.PromptPreset) {
		p.Content = content
	})
}

func (s *settingsService) mutatePreset(ctx context.Context, index int, fn func(*models.PromptPreset)) error {
	var err error
	s.mutate(ctx, func(st *models.Settings) bool {
		if !st.ValidPresetIndex(index) {
			err = ErrInvalidPresetIndex
			return false
		}
		fn(&st.Prompts[index])
		return true
	})
	return err
}

// DeletePreset removes the preset at index and reindexes bindings: entries
// bound to it are dropped, entries past it shift down by one. The caller is
// expected to re-resolve the binding for the current character afterwards;
// the active index is clamped meanwhile so it never dangles.
func (s *settingsService) DeletePreset(ctx context.Context, index int) error {
	var err error
	s.mutate(ctx, func(st *models.Settings) bool {
		if len(st.Prompts) <= 1 {
			s.logger.Warn("refusing to delete the last preset")
			err = ErrLastPreset
			return false
		}
		if !st.ValidPresetIndex(index) {
			err = ErrInvalidPresetIndex
			return false
		}
		st.Prompts = append(st.Prompts[:index], st.Prompts[index+1:]...)

		rebound := make(map[string]int, len(st.CharacterBindings))
		for charID, bound := range st.CharacterBindings {
			switch {
			case bound == index:
				// Character becomes unbound.
			case bound > index:
				rebound[charID] = bound - 1
			default:
				rebound[charID] = bound
			}
		}
		st.CharacterBindings = rebound

		if !st.ValidPresetIndex(st.ActivePromptIndex) {
			st.ActivePromptIndex = 0
		}
		s.logger.Info("preset deleted", zap.Int("index", index),
			zap.Int("remaining", len(st.Prompts)))
		return true
	})
	return err
}

// BindCharacter associates a character with a preset and makes that preset
// active. Persists unconditionally.
func (s *settingsService) BindCharacter(ctx context.Context, charID string, index int) error {
	var err error
	s.mutate(ctx, func(st *models.Settings) bool {
		if !st.ValidPresetIndex(index) {
			err = ErrInvalidPresetIndex
			return false
		}
		st.CharacterBindings[charID] = index
		st.ActivePromptIndex = index
		s.logger.Info("character bound",
			zap.String("character", charID),
			zap.String("preset", st.Prompts[index].Name))
		return true
	})
	return err
}

// MarkUpdateNoticeSeen records the current version marker. Returns true when
// the marker actually advanced, i.e. the notice should be shown once.
func (s *settingsService) MarkUpdateNoticeSeen(ctx context.Context) bool {
	changed := false
	s.mutate(ctx, func(st *models.Settings) bool {
		if st.LastSeenVersion == ScriptVersion {
			return false
		}
		st.LastSeenVersion = ScriptVersion
		changed = true
		return true
	})
	return changed
}
