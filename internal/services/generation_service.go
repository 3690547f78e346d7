package services

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"replyhint/internal/events"
	"replyhint/internal/host"
	"replyhint/internal/llm/client"
	"replyhint/internal/llm/parse"
	"replyhint/internal/prompt"
)

// GenerationService sequences one suggestion run: extract context, compose
// the prompt, call the model, parse the reply, render. Any failure aborts
// the run only; the next trigger is the only retry. Every step logs a
// diagnostic record including the composed prompt and the raw model output —
// the audit trail is part of the contract, not incidental.
type GenerationService interface {
	Generate(ctx context.Context)
}

type generationService struct {
	settings   SettingsService
	contextSvc ContextService
	client     client.SuggestionClient
	renderer   host.Renderer
	bus        events.Bus
	logger     *zap.Logger

	// seq orders overlapping runs. A run whose token is no longer the
	// latest by the time its response arrives is discarded instead of
	// overwriting newer suggestions.
	seq atomic.Uint64
}

func NewGenerationService(
	settings SettingsService,
	contextSvc ContextService,
	suggestionClient client.SuggestionClient,
	renderer host.Renderer,
	bus events.Bus,
	logger *zap.Logger,
) GenerationService {
	return &generationService{
		settings:   settings,
		contextSvc: contextSvc,
		client:     suggestionClient,
		renderer:   renderer,
		bus:        bus,
		logger:     logger.Named("generation"),
	}
}

func (g *generationService) Generate(ctx context.Context) {
	token := g.seq.Add(1)
	log := g.logger.With(zap.String("run_id", uuid.NewString()))
	log.Info("starting suggestion run")

	// Whatever is still on screen belongs to a previous attempt.
	g.renderer.Clear()

	pair, err := g.contextSvc.Extract(ctx)
	if err != nil {
		// No network call is made without a valid context.
		log.Warn("context extraction failed", zap.Error(err))
		return
	}

	preset, err := g.settings.ActivePreset()
	if err != nil {
		log.Error("no active preset", zap.Error(err))
		return
	}
	snap := g.settings.Snapshot()

	promptText := prompt.Compose(preset, pair)
	log.Info("prompt composed",
		zap.String("preset", preset.Name),
		zap.String("prompt", promptText))

	raw, err := g.client.Complete(ctx, client.CompletionRequest{
		BaseURL: snap.BaseURL,
		APIKey:  snap.APIKey,
		Model:   snap.Model,
		Prompt:  promptText,
	})
	if err != nil {
		var reqErr *client.RequestError
		switch {
		case errors.As(err, &reqErr) && reqErr.Status != 0:
			log.Error("completion request rejected",
				zap.Int("status", reqErr.Status),
				zap.String("body", reqErr.Body))
		case errors.Is(err, client.ErrMalformedResponse):
			log.Error("completion response malformed", zap.Error(err))
		default:
			log.Error("completion request failed", zap.Error(err))
		}
		return
	}
	log.Info("model responded", zap.String("raw", raw))

	suggestions, err := parse.Suggestions(raw)
	if err != nil {
		log.Error("model output held no suggestions", zap.Error(err))
		return
	}

	if g.seq.Load() != token {
		log.Info("newer run in flight, discarding result",
			zap.Int("suggestions", len(suggestions)))
		return
	}

	g.renderer.Render(suggestions, snap.DisplayMode)
	g.registerCleanup()
	log.Info("suggestions rendered", zap.Int("count", len(suggestions)))
}

// registerCleanup tears rendered suggestions down on the first follow-up
// host signal. Handles dispose themselves after one delivery.
func (g *generationService) registerCleanup() {
	for _, name := range []string{
		events.MessageSent,
		events.MessageDeleted,
		events.MessageSwiped,
		events.ChatChanged,
	} {
		g.bus.SubscribeOnce(name, func(context.Context, any) {
			g.renderer.Clear()
		})
	}
}
