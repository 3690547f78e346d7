package services

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"replyhint/internal/host"
	"replyhint/internal/models"
)

// ContextService retrieves and validates the last user→assistant exchange
// from the host's conversation history.
type ContextService interface {
	Extract(ctx context.Context) (models.TurnPair, error)
}

type contextService struct {
	history host.HistoryProvider
	logger  *zap.Logger
}

func NewContextService(history host.HistoryProvider, logger *zap.Logger) ContextService {
	return &contextService{
		history: history,
		logger:  logger.Named("context"),
	}
}

// Extract returns the plain text of the two most recent turns. Stale or
// out-of-order history is rejected rather than reinterpreted.
func (c *contextService) Extract(ctx context.Context) (models.TurnPair, error) {
	lastID, err := c.history.LastMessageID(ctx)
	if err != nil {
		return models.TurnPair{}, fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}
	if lastID < 1 {
		c.logger.Warn("fewer than two messages in history, skipping")
		return models.TurnPair{}, ErrContextUnavailable
	}

	rng := fmt.Sprintf("%d-%d", lastID-1, lastID)
	turns, err := c.history.MessagesInRange(ctx, rng)
	if err != nil {
		return models.TurnPair{}, fmt.Errorf("%w: %v", ErrContextUnavailable, err)
	}
	if len(turns) < 2 {
		c.logger.Warn("range query returned too few messages",
			zap.String("range", rng), zap.Int("count", len(turns)))
		return models.TurnPair{}, ErrContextUnavailable
	}

	userTurn, aiTurn := turns[0], turns[1]
	if userTurn.Role != models.RoleUser || aiTurn.Role != models.RoleAssistant {
		c.logger.Warn("last two messages are not a user→assistant pair",
			zap.String("first_role", userTurn.Role),
			zap.String("second_role", aiTurn.Role))
		return models.TurnPair{}, ErrContextUnavailable
	}

	pair := models.TurnPair{
		UserText: ExtractPlainText(userTurn.Message),
		AIText:   ExtractPlainText(aiTurn.Message),
	}
	if pair.UserText == "" || pair.AIText == "" {
		c.logger.Warn("extracted turn text is empty, skipping")
		return models.TurnPair{}, ErrEmptyExtractedText
	}
	return pair, nil
}

var (
	brPattern  = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagPattern = regexp.MustCompile(`<[^>]*>`)
)

// ExtractPlainText normalizes <br> line breaks, strips the remaining markup,
// resolves HTML entities and trims the result.
func ExtractPlainText(message string) string {
	text := brPattern.ReplaceAllString(message, "\n")
	text = tagPattern.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	return strings.TrimSpace(text)
}
