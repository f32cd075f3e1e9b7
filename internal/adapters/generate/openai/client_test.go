package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hansollab/cafemate/internal/domain"
)

func completionResponse(content string) string {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(body)
}

func TestGenerate(t *testing.T) {
	var gotRequest chatRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(body, &gotRequest))

		_, _ = w.Write([]byte(completionResponse("1. first post\n\n2. second post\nthird post")))
	}))
	defer server.Close()

	client := NewClient("sk-test", WithBaseURL(server.URL))
	posts, err := client.Generate(context.Background(), "system prompt", "write about the market", 3)
	require.NoError(t, err)

	assert.Equal(t, []string{"first post", "second post", "third post"}, posts)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	require.Len(t, gotRequest.Messages, 2)
	assert.Equal(t, "system", gotRequest.Messages[0].Role)
	assert.Equal(t, "system prompt", gotRequest.Messages[0].Content)
	assert.Contains(t, gotRequest.Messages[1].Content, "write about the market")
	assert.Contains(t, gotRequest.Messages[1].Content, "Generate 3 posts.")
}

func TestGenerateCapsAtCount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionResponse("one\ntwo\nthree\nfour")))
	}))
	defer server.Close()

	client := NewClient("sk-test", WithBaseURL(server.URL))
	posts, err := client.Generate(context.Background(), "s", "u", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, posts)
}

func TestGenerateEmptyCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(completionResponse("\n\n")))
	}))
	defer server.Close()

	client := NewClient("sk-test", WithBaseURL(server.URL))
	_, err := client.Generate(context.Background(), "s", "u", 1)
	assert.ErrorIs(t, err, domain.ErrNoContent)
}

func TestGenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewClient("sk-test", WithBaseURL(server.URL))
	_, err := client.Generate(context.Background(), "s", "u", 1)
	require.Error(t, err)
	assert.ErrorContains(t, err, "status 429")
}

func TestSplitPosts(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitPosts("1. a\n2. b", 5))
	assert.Empty(t, splitPosts("", 3))
	assert.Equal(t, []string{"plain"}, splitPosts("plain", 1))
}
