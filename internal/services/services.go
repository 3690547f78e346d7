package services

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"replyhint/internal/events"
	"replyhint/internal/host"
	"replyhint/internal/llm/client"
	"replyhint/internal/repositories"
)

// Services aggregates the engine's domain services backed by the database
// and the injected host ports.
type Services struct {
	Settings   SettingsService
	Bindings   BindingService
	Context    ContextService
	Generation GenerationService
}

// NewServices constructs the service container. The host ports (history,
// renderer, bus) come from the embedding layer; everything else is wired
// here.
func NewServices(
	db *gorm.DB,
	history host.HistoryProvider,
	renderer host.Renderer,
	bus events.Bus,
	logger *zap.Logger,
) *Services {
	kvRepo := repositories.NewKeyValueRepository(db)
	settings := NewSettingsService(kvRepo, logger)
	contextSvc := NewContextService(history, logger)
	suggestionClient := client.NewHTTPClient()

	return &Services{
		Settings:   settings,
		Bindings:   NewBindingService(settings, logger),
		Context:    contextSvc,
		Generation: NewGenerationService(settings, contextSvc, suggestionClient, renderer, bus, logger),
	}
}
