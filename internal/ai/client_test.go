package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/odyssey-backend/internal/logger"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/apperror"
	"github.com/ignatzorin/odyssey-backend/internal/pkg/retry"
)

func chatResponse(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, policy retry.Policy) *Client {
	t.Helper()
	logger.Silence()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Options{
		APIKey:        "test-key",
		BaseURL:       srv.URL + "/",
		MessageModel:  "gpt-3.5-turbo",
		Temperature:   5,
		ImageModel:    "dall-e-2",
		ImageSize:     "512x512",
		MessagePolicy: policy,
		ImagePolicy:   policy,
	})
}

func TestGenerateMoodMessage_TrimsQuotes(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse(`"I feel calm like a quiet lake."`))
	}, retry.Policy{Timeout: time.Second})

	got, err := client.GenerateMoodMessage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "I feel calm like a quiet lake.", got.Content)
	assert.Equal(t, MoodMessagePrompt, got.Prompt)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.EqualValues(t, 50, body["max_tokens"])
	assert.EqualValues(t, 2, body["temperature"])
}

func TestGenerateMoodMessage_RetriesRejectedOutput(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		content := "As an AI I have no mood."
		if calls.Add(1) > 1 {
			content = "I am cheerful today."
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatResponse(content))
	}, retry.Policy{Timeout: time.Second, Retries: 2})

	got, err := client.GenerateMoodMessage(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "I am cheerful today.", got.Content)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateMoodMessage_Timeout(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, retry.Policy{Timeout: 50 * time.Millisecond, Retries: 1})

	_, err := client.GenerateMoodMessage(context.Background())

	require.Error(t, err)
	assert.True(t, apperror.IsUpstreamTimeout(err))
	assert.Equal(t, int32(2), calls.Load())
}

func TestGenerateMoodImage(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"created": 1700000000,
			"data":    []map[string]any{{"url": "https://images.test/1.png"}},
		})
	}, retry.Policy{Timeout: time.Second})

	got, err := client.GenerateMoodImage(context.Background(), "happy")

	require.NoError(t, err)
	assert.Equal(t, "https://images.test/1.png", got.URL)
	assert.Equal(t, "512x512", got.Size)
	assert.Equal(t, MoodImagePromptPrefix+"happy", body["prompt"])
	assert.Equal(t, "url", body["response_format"])
}

func TestGenerateMoodImage_UpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}, retry.Policy{Timeout: time.Second})

	_, err := client.GenerateMoodImage(context.Background(), "sad")

	require.Error(t, err)
	assert.Equal(t, apperror.ErrCodeUpstream, apperror.CodeOf(err))
}

func TestCleanMoodMessage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "plain", raw: "I feel great.", want: "I feel great."},
		{name: "quoted", raw: "  'I feel great.'  ", want: "I feel great."},
		{name: "mentions computer", raw: "I am a computer program.", wantErr: true},
		{name: "only quotes", raw: `""`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cleanMoodMessage(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
