// Package client issues the chat-completion request for a composed prompt.
// One POST per invocation; no retries. Recovery is the next trigger.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

// ErrMalformedResponse means the endpoint answered 2xx but the body did not
// carry a first choice with string message content.
var ErrMalformedResponse = errors.New("completion response missing choices[0].message.content")

// RequestError is returned for transport failures and non-success HTTP
// statuses. Status is 0 when the request never reached the server. Body is
// kept for diagnostics only and is never parsed for suggestions.
type RequestError struct {
	Status int
	Body   string
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion request: %v", e.Err)
	}
	return fmt.Sprintf("completion request: status %d: %s", e.Status, e.Body)
}

func (e *RequestError) Unwrap() error { return e.Err }

// CompletionRequest carries everything needed for one suggestion call. The
// endpoint fields come from the active settings at trigger time.
type CompletionRequest struct {
	BaseURL string
	APIKey  string
	Model   string
	Prompt  string
}

// SuggestionClient is the chat-completion port of the generation pipeline.
type SuggestionClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// HTTPClient talks to an OpenAI-compatible /chat/completions endpoint.
type HTTPClient struct {
	httpClient *http.Client
}

type Option func(*HTTPClient)

func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) {
		if c != nil {
			h.httpClient = c
		}
	}
}

func NewHTTPClient(opts ...Option) *HTTPClient {
	h := &HTTPClient{
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// samplingTemperature matches what the suggestion prompts were tuned
// against.
const samplingTemperature = 0.8

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Some models leak their reasoning as <think>...</think> markup; it is never
// part of the suggestion contract.
var thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Complete sends the composed prompt and returns the raw content of the
// first choice, reasoning markup stripped and whitespace trimmed.
func (h *HTTPClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	payload := chatRequest{
		Model:       req.Model,
		Messages:    []chatMessage{{Role: "user", Content: req.Prompt}},
		Temperature: samplingTemperature,
	}
	rawBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(req.BaseURL, "/") + "/chat/completions"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(rawBody))
	if err != nil {
		return "", &RequestError{Err: err}
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+req.APIKey)

	response, err := h.httpClient.Do(request)
	if err != nil {
		return "", &RequestError{Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		limited := io.LimitReader(response.Body, 4096)
		body, _ := io.ReadAll(limited)
		return "", &RequestError{
			Status: response.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	var decoded chatResponse
	if err := json.NewDecoder(response.Body).Decode(&decoded); err != nil {
		return "", ErrMalformedResponse
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == nil {
		return "", ErrMalformedResponse
	}

	content := thinkPattern.ReplaceAllString(*decoded.Choices[0].Message.Content, "")
	return strings.TrimSpace(content), nil
}
