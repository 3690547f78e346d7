package mocks

import (
	"context"
	"sync"

	"replyhint/internal/models"
)

// HistoryProviderMock fakes the host's conversation history.
type HistoryProviderMock struct {
	LastMessageIDFunc   func(ctx context.Context) (int, error)
	MessagesInRangeFunc func(ctx context.Context, rng string) ([]models.ChatTurn, error)
}

func (m *HistoryProviderMock) LastMessageID(ctx context.Context) (int, error) {
	if m.LastMessageIDFunc != nil {
		return m.LastMessageIDFunc(ctx)
	}
	return 0, nil
}

func (m *HistoryProviderMock) MessagesInRange(ctx context.Context, rng string) ([]models.ChatTurn, error) {
	if m.MessagesInRangeFunc != nil {
		return m.MessagesInRangeFunc(ctx, rng)
	}
	return nil, nil
}

// RendererMock records every render and clear call.
type RendererMock struct {
	mu       sync.Mutex
	Rendered [][]string
	Modes    []models.DisplayMode
	Clears   int
}

func (m *RendererMock) Render(suggestions []string, mode models.DisplayMode) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rendered = append(m.Rendered, suggestions)
	m.Modes = append(m.Modes, mode)
}

func (m *RendererMock) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
}

// RenderCount returns how many times Render was invoked.
func (m *RendererMock) RenderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Rendered)
}

// SenderMock records dispatched texts.
type SenderMock struct {
	SendTextFunc func(ctx context.Context, text string) error

	mu   sync.Mutex
	Sent []string
}

func (m *SenderMock) SendText(ctx context.Context, text string) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, text)
	m.mu.Unlock()
	if m.SendTextFunc != nil {
		return m.SendTextFunc(ctx, text)
	}
	return nil
}
