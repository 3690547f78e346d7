package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completionRequest(baseURL string) CompletionRequest {
	return CompletionRequest{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Model:   "test-model",
		Prompt:  "composed prompt",
	}
}

func successBody(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(body)
}

func TestComplete_RequestShape(t *testing.T) {
	var captured struct {
		method, path, auth, contentType string
		payload                         chatRequest
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.method = r.Method
		captured.path = r.URL.Path
		captured.auth = r.Header.Get("Authorization")
		captured.contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured.payload))
		w.Write([]byte(successBody("【ok】")))
	}))
	defer server.Close()

	got, err := NewHTTPClient().Complete(context.Background(), completionRequest(server.URL))
	require.NoError(t, err)
	assert.Equal(t, "【ok】", got)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "/chat/completions", captured.path)
	assert.Equal(t, "Bearer test-key", captured.auth)
	assert.Equal(t, "application/json", captured.contentType)
	assert.Equal(t, "test-model", captured.payload.Model)
	require.Len(t, captured.payload.Messages, 1)
	assert.Equal(t, "user", captured.payload.Messages[0].Role)
	assert.Equal(t, "composed prompt", captured.payload.Messages[0].Content)
	assert.Equal(t, 0.8, captured.payload.Temperature)
}

func TestComplete_TrailingSlashBaseURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		w.Write([]byte(successBody("【ok】")))
	}))
	defer server.Close()

	_, err := NewHTTPClient().Complete(context.Background(), completionRequest(server.URL+"/v1/"))
	require.NoError(t, err)
}

func TestComplete_StripsThinkSegmentsAndTrims(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(successBody("  <think>reasoning\nacross lines</think>【继续说】<think>more</think>【问一下】 ")))
	}))
	defer server.Close()

	got, err := NewHTTPClient().Complete(context.Background(), completionRequest(server.URL))
	require.NoError(t, err)
	assert.Equal(t, "【继续说】【问一下】", got)
}

func TestComplete_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Invalid API key"))
	}))
	defer server.Close()

	_, err := NewHTTPClient().Complete(context.Background(), completionRequest(server.URL))
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusInternalServerError, reqErr.Status)
	assert.Equal(t, "Invalid API key", reqErr.Body)
}

func TestComplete_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	_, err := NewHTTPClient().Complete(context.Background(), completionRequest(server.URL))
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Zero(t, reqErr.Status)
	assert.Error(t, reqErr.Err)
}

func TestComplete_MalformedBody(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"not json", "oops"},
		{"no choices", `{"choices":[]}`},
		{"content missing", `{"choices":[{"message":{}}]}`},
		{"content not a string", `{"choices":[{"message":{"content":42}}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			_, err := NewHTTPClient().Complete(context.Background(), completionRequest(server.URL))
			assert.True(t, errors.Is(err, ErrMalformedResponse))
		})
	}
}
