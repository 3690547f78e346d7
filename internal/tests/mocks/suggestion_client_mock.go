package mocks

import (
	"context"

	"replyhint/internal/llm/client"
)

// SuggestionClientMock fakes the chat-completion endpoint.
type SuggestionClientMock struct {
	CompleteFunc func(ctx context.Context, req client.CompletionRequest) (string, error)

	// Requests records every call in order.
	Requests []client.CompletionRequest
}

func (m *SuggestionClientMock) Complete(ctx context.Context, req client.CompletionRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "", nil
}
