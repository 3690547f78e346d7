package services

import "errors"

var (
	// ErrContextUnavailable means the history holds no valid
	// user→assistant pair to build a prompt from.
	ErrContextUnavailable = errors.New("conversation context unavailable")
	// ErrEmptyExtractedText means a turn was found but its plain text was
	// empty after markup stripping.
	ErrEmptyExtractedText = errors.New("extracted turn text is empty")
	// ErrNoActivePreset means the active preset index does not address a
	// preset. The settings invariant should prevent this; it is checked
	// on every access regardless.
	ErrNoActivePreset = errors.New("no active prompt preset")
	// ErrLastPreset rejects deleting the only remaining preset.
	ErrLastPreset = errors.New("cannot delete the last preset")
	// ErrInvalidPresetIndex rejects an index outside the preset list.
	ErrInvalidPresetIndex = errors.New("preset index out of range")
	// ErrInvalidDisplayMode rejects an unknown display mode value.
	ErrInvalidDisplayMode = errors.New("unknown display mode")
)
