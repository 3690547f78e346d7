package main

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"replyhint/internal/events"
	"replyhint/internal/host"
	"replyhint/internal/services"
)

// App is the embedding surface of the suggestion engine. It owns the event
// subscriptions that connect host triggers to the pipeline and tracks which
// character is currently in the foreground.
type App struct {
	logger   *zap.Logger
	services *services.Services
	bus      events.Bus
	sender   host.Sender
	dbClose  func() error

	mu          sync.Mutex
	currentChar string
	unsub       []func()
}

func NewApp(svc *services.Services, bus events.Bus, sender host.Sender, logger *zap.Logger) *App {
	return &App{
		logger:   logger.Named("app"),
		services: svc,
		bus:      bus,
		sender:   sender,
	}
}

// Startup loads settings and attaches the trigger handlers. The generation
// handler runs the pipeline on the publishing goroutine; overlapping
// triggers from concurrent publishers run independently and stale results
// are discarded at render time.
func (a *App) Startup(ctx context.Context) {
	a.services.Settings.Load(ctx)

	if a.services.Settings.MarkUpdateNoticeSeen(ctx) {
		a.logger.Info("updated to new version", zap.String("version", services.ScriptVersion))
	}

	a.unsub = append(a.unsub,
		a.bus.Subscribe(events.GenerationEnded, func(ctx context.Context, _ any) {
			a.services.Generation.Generate(ctx)
		}),
		a.bus.Subscribe(events.ChatChanged, func(ctx context.Context, payload any) {
			evt, ok := payload.(events.ChatChangedEvent)
			if !ok {
				return
			}
			a.setCurrentCharacter(ctx, evt.CharacterID)
		}),
	)
	a.logger.Info("engine started")
}

// Shutdown detaches the handlers and closes the database pool.
func (a *App) Shutdown(ctx context.Context) {
	for _, unsub := range a.unsub {
		unsub()
	}
	a.unsub = nil

	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			a.logger.Error("failed to close database", zap.Error(err))
		}
		a.dbClose = nil
	}
	a.logger.Info("engine stopped")
}

func (a *App) setCurrentCharacter(ctx context.Context, charID string) {
	a.mu.Lock()
	a.currentChar = charID
	a.mu.Unlock()
	a.services.Bindings.ResolveForCharacter(ctx, charID)
}

// CurrentCharacter returns the character the engine last resolved for.
func (a *App) CurrentCharacter() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentChar
}

// BindCurrentCharacter pins the foreground character to a preset, the "use
// this preset" action of the settings panel.
func (a *App) BindCurrentCharacter(ctx context.Context, presetIndex int) error {
	charID := a.CurrentCharacter()
	if charID == "" {
		a.logger.Warn("no current character, binding skipped")
		return nil
	}
	return a.services.Bindings.Bind(ctx, charID, presetIndex)
}

// DeletePreset removes a preset and re-resolves the binding for the current
// character, since the reindexing may have shifted or removed the preset the
// active index pointed at.
func (a *App) DeletePreset(ctx context.Context, presetIndex int) error {
	if err := a.services.Settings.DeletePreset(ctx, presetIndex); err != nil {
		return err
	}
	if charID := a.CurrentCharacter(); charID != "" {
		a.services.Bindings.ResolveForCharacter(ctx, charID)
	}
	return nil
}

// SendSuggestion dispatches a picked suggestion through the host's send
// collaborator. Failures are logged, not propagated.
func (a *App) SendSuggestion(ctx context.Context, text string) {
	if err := a.sender.SendText(ctx, text); err != nil {
		a.logger.Error("failed to send suggestion", zap.Error(err))
		return
	}
	a.bus.Publish(ctx, events.MessageSent, nil)
}
