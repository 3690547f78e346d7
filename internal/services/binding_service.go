package services

import (
	"context"

	"go.uber.org/zap"

	"replyhint/internal/models"
)

// Resolution is the outcome of resolving a character's preset binding.
type Resolution struct {
	// PresetIndex is the active preset index after resolution.
	PresetIndex int
	// Bound reports whether a valid binding was applied; false means the
	// character fell back to the default preset.
	Bound bool
	// Changed reports whether the active index actually moved (and was
	// therefore persisted).
	Changed bool
}

// BindingService maps character identity to preset index. Resolution is a
// pure function of (bindings, presets, charID) plus the side effect of
// persisting the active index when it changes.
type BindingService interface {
	// ResolveForCharacter applies the character's binding to the active
	// preset index. A stale binding (index no longer valid) is removed
	// and the character falls back to the default preset. Persists only
	// when the active index changed.
	ResolveForCharacter(ctx context.Context, charID string) Resolution
	// Bind associates charID with presetIndex and makes it active.
	// Persists unconditionally.
	Bind(ctx context.Context, charID string, presetIndex int) error
}

type bindingService struct {
	settings SettingsService
	logger   *zap.Logger
}

func NewBindingService(settings SettingsService, logger *zap.Logger) BindingService {
	return &bindingService{
		settings: settings,
		logger:   logger.Named("binding"),
	}
}

func (b *bindingService) ResolveForCharacter(ctx context.Context, charID string) Resolution {
	var res Resolution
	b.settings.mutate(ctx, func(st *models.Settings) bool {
		target := 0
		if bound, ok := st.CharacterBindings[charID]; ok {
			if st.ValidPresetIndex(bound) {
				target = bound
				res.Bound = true
			} else {
				// Stale entry from a deleted preset; drop it and
				// fall back to the default.
				delete(st.CharacterBindings, charID)
			}
		}
		res.PresetIndex = target
		res.Changed = st.ActivePromptIndex != target
		st.ActivePromptIndex = target
		return res.Changed
	})

	if res.Bound {
		b.logger.Info("applied bound preset",
			zap.String("character", charID),
			zap.Int("preset_index", res.PresetIndex))
	} else {
		b.logger.Info("no valid binding, using default preset",
			zap.String("character", charID))
	}
	return res
}

func (b *bindingService) Bind(ctx context.Context, charID string, presetIndex int) error {
	return b.settings.BindCharacter(ctx, charID, presetIndex)
}
