package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-assistant-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamServer(t *testing.T, lines []string, capture *ollamaChatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.Header().Set("Content-Type", "application/x-ndjson")
		for _, line := range lines {
			fmt.Fprintln(w, line)
		}
	}))
}

func TestChatStreamForwardsDeltasInOrder(t *testing.T) {
	var captured ollamaChatRequest
	srv := streamServer(t, []string{
		`{"message":{"role":"assistant","content":"Hel"},"done":false}`,
		`{"message":{"role":"assistant","content":"lo"},"done":false}`,
		`{"message":{"role":"assistant","content":""},"done":true}`,
	}, &captured)
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")

	var got []string
	err := provider.ChatStream(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
	}, func(delta string) error {
		got = append(got, delta)
		return nil
	}, llm.WithTemperature(0.2))

	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, got)
	assert.True(t, captured.Stream)
	assert.Equal(t, "llama3", captured.Model)
	assert.InDelta(t, 0.2, captured.Options.Temperature, 1e-9)
}

func TestChatStreamStopsOnHandlerError(t *testing.T) {
	srv := streamServer(t, []string{
		`{"message":{"role":"assistant","content":"one"},"done":false}`,
		`{"message":{"role":"assistant","content":"two"},"done":false}`,
	}, nil)
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")

	calls := 0
	err := provider.ChatStream(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
	}, func(delta string) error {
		calls++
		return errors.New("consumer gone")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestChatStreamSurfacesInBandEngineError(t *testing.T) {
	srv := streamServer(t, []string{
		`{"error":"model not found"}`,
	}, nil)
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")

	err := provider.ChatStream(context.Background(), []llm.Message{
		{Role: "user", Content: "hi"},
	}, func(delta string) error { return nil })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
}

func TestChatMapsLegacyModelRole(t *testing.T) {
	var captured ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(ollamaChatResponse{
			Message: ollamaMessage{Role: "assistant", Content: "ok"},
			Done:    true,
		})
	}))
	defer srv.Close()

	provider := NewOllamaProvider(srv.URL, "llama3")

	out, err := provider.Chat(context.Background(), []llm.Message{
		{Role: "model", Content: "earlier answer"},
		{Role: "user", Content: "hi"},
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "assistant", captured.Messages[0].Role)
}
