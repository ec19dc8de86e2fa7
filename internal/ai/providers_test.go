package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		var req ollamaChatReq
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3:latest", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, 256, req.Options.NumPredict)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "hello", req.Messages[0].Content)
		}

		_ = json.NewEncoder(w).Encode(ollamaChatResp{Message: Message{Role: "assistant", Content: "hi!"}})
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "")
	out, err := Generate(context.Background(), p, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi!", out)
}

func TestOllamaProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewOllamaProvider(srv.URL, "m").Chat(context.Background(), nil)
	assert.EqualError(t, err, "ollama: status 500")
}

func TestOpenRouterProvider_Chat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		assert.Equal(t, "car-advisor", r.Header.Get("X-Title"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"sure"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenRouterProvider(srv.URL+"/", "key", "openrouter/auto", "", "car-advisor")
	out, err := Generate(context.Background(), p, "q")
	require.NoError(t, err)
	assert.Equal(t, "sure", out)
}

func TestOpenRouterProvider_RequiresKey(t *testing.T) {
	p := NewOpenRouterProvider("", "", "m", "", "")
	_, err := p.Chat(context.Background(), nil)
	assert.EqualError(t, err, "openrouter: api key is required")
}

func TestOpenRouterProvider_SurfacesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	_, err := NewOpenRouterProvider(srv.URL, "k", "m", "", "").Chat(context.Background(), nil)
	assert.EqualError(t, err, "openrouter: rate limited")
}

func TestGeminiProvider_RequiresKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), " ", "")
	assert.Error(t, err)
}
