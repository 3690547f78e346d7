package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"replyhint/internal/database"
	"replyhint/internal/events"
	"replyhint/internal/host"
	"replyhint/internal/logging"
	"replyhint/internal/models"
	"replyhint/internal/services"
)

// The console runner drives one generation round end to end: it reads a
// transcript from stdin (lines alternating user/assistant, ending on an
// assistant turn), resolves the character binding and prints the suggestions
// the model produced.
func main() {
	_ = godotenv.Load()

	logger, err := logging.New(os.Getenv("REPLYHINT_DEBUG") == "1")
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init failed:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.Init(database.Config{
		Path:   os.Getenv("REPLYHINT_DB"),
		Logger: logger,
	})
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	bus := events.NewMemoryBus()
	renderer := host.NewConsoleRenderer(os.Stdout)
	sender := host.NewConsoleSender(os.Stdout)
	history := &host.StaticHistory{}

	svc := services.NewServices(db, history, renderer, bus, logger)
	app := NewApp(svc, bus, sender, logger)
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	ctx := context.Background()
	app.Startup(ctx)
	defer app.Shutdown(ctx)

	configureEndpoint(ctx, svc.Settings, logger)

	history.Turns = readTranscript(os.Stdin)
	if len(history.Turns) == 0 {
		fmt.Fprintln(os.Stderr, "usage: pipe a transcript on stdin, one message per line, alternating user/assistant")
		return
	}

	character := os.Getenv("REPLYHINT_CHARACTER")
	if character == "" {
		character = "default"
	}
	bus.Publish(ctx, events.ChatChanged, events.ChatChangedEvent{CharacterID: character})
	bus.Publish(ctx, events.GenerationEnded, nil)
}

// configureEndpoint overrides the persisted API config from the environment
// and falls back to the OS keychain while the stored key is still the
// placeholder.
func configureEndpoint(ctx context.Context, settings services.SettingsService, logger *zap.Logger) {
	snap := settings.Snapshot()

	baseURL := snap.BaseURL
	if v := os.Getenv("REPLYHINT_BASE_URL"); v != "" {
		baseURL = v
	}
	model := snap.Model
	if v := os.Getenv("REPLYHINT_MODEL"); v != "" {
		model = v
	}
	apiKey := snap.APIKey
	if v := os.Getenv("REPLYHINT_API_KEY"); v != "" {
		apiKey = v
	}
	if apiKey == models.DefaultSettings().APIKey {
		if stored, err := services.NewKeyringService().GetAPIKey("default"); err == nil {
			apiKey = stored
			logger.Info("using API key from OS keychain")
		} else {
			logger.Warn("API key is still the placeholder; set REPLYHINT_API_KEY or store one in the keychain")
		}
	}

	if apiKey != snap.APIKey || baseURL != snap.BaseURL || model != snap.Model {
		settings.SetAPIConfig(ctx, apiKey, baseURL, model)
	}
}

func readTranscript(r *os.File) []models.ChatTurn {
	stat, err := r.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return nil
	}

	var turns []models.ChatTurn
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		role := models.RoleUser
		if len(turns)%2 == 1 {
			role = models.RoleAssistant
		}
		turns = append(turns, models.ChatTurn{Role: role, Message: line})
	}
	return turns
}
