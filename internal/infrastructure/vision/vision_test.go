package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/grocerylens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testImage = domain.EncodedImage{MediaType: "image/png", Base64: "iVBORw0KGgo="}

const testPrompt = "Extract grocery items from this image."

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		wantType interface{}
		wantErr  bool
	}{
		{provider: ProviderAnthropic, wantType: &ClaudeClient{}},
		{provider: ProviderOpenAI, wantType: &OpenAIClient{}},
		{provider: "gemini", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			model, err := New(Options{Provider: tt.provider, APIKey: "k", Model: "m", MaxTokens: 1024})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, model)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, model)
		})
	}
}

func TestClaudeClient_DescribeImage(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body struct {
			Model     string `json:"model"`
			MaxTokens int    `json:"max_tokens"`
			Messages  []struct {
				Role    string `json:"role"`
				Content []struct {
					Type   string `json:"type"`
					Text   string `json:"text"`
					Source struct {
						Type      string `json:"type"`
						MediaType string `json:"media_type"`
						Data      string `json:"data"`
					} `json:"source"`
				} `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-3-5-sonnet-20241022", body.Model)
		assert.Equal(t, 1024, body.MaxTokens)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)
		require.Len(t, body.Messages[0].Content, 2)
		assert.Equal(t, "text", body.Messages[0].Content[0].Type)
		assert.Equal(t, testPrompt, body.Messages[0].Content[0].Text)
		assert.Equal(t, "image", body.Messages[0].Content[1].Type)
		assert.Equal(t, "base64", body.Messages[0].Content[1].Source.Type)
		assert.Equal(t, "image/png", body.Messages[0].Content[1].Source.MediaType)
		assert.Equal(t, testImage.Base64, body.Messages[0].Content[1].Source.Data)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "msg_01",
			"type": "message",
			"role": "assistant",
			"model": "claude-3-5-sonnet-20241022",
			"content": [
				{"type": "text", "text": "{\"grocery_list\": "},
				{"type": "text", "text": "[]}"}
			],
			"stop_reason": "end_turn",
			"stop_sequence": null,
			"usage": {"input_tokens": 12, "output_tokens": 7}
		}`))
	}))
	defer server.Close()

	client := NewClaudeClient(Options{
		APIKey:    "test-key",
		Model:     "claude-3-5-sonnet-20241022",
		MaxTokens: 1024,
		BaseURL:   server.URL + "/",
	})

	text, err := client.DescribeImage(context.Background(), testPrompt, testImage)

	require.NoError(t, err)
	assert.Equal(t, `{"grocery_list": []}`, text)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClaudeClient_APIError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	client := NewClaudeClient(Options{APIKey: "bad", Model: "m", MaxTokens: 16, BaseURL: server.URL + "/"})

	text, err := client.DescribeImage(context.Background(), testPrompt, testImage)

	assert.Empty(t, text)
	assert.ErrorIs(t, err, domain.ErrVisionAPIFailure)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClaudeClient_NoTextContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"msg_02","type":"message","role":"assistant","model":"m","content":[],
			"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":0}}`))
	}))
	defer server.Close()

	client := NewClaudeClient(Options{APIKey: "k", Model: "m", MaxTokens: 16, BaseURL: server.URL + "/"})

	_, err := client.DescribeImage(context.Background(), testPrompt, testImage)
	assert.ErrorIs(t, err, domain.ErrVisionAPIFailure)
}

func TestOpenAIClient_DescribeImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content []struct {
					Type     string `json:"type"`
					Text     string `json:"text"`
					ImageURL struct {
						URL string `json:"url"`
					} `json:"image_url"`
				} `json:"content"`
			} `json:"messages"`
			MaxCompletionTokens int `json:"max_completion_tokens"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o", body.Model)
		assert.Equal(t, 512, body.MaxCompletionTokens)
		require.Len(t, body.Messages, 1)
		require.Len(t, body.Messages[0].Content, 2)
		assert.Equal(t, testPrompt, body.Messages[0].Content[0].Text)
		assert.Equal(t, "image_url", body.Messages[0].Content[1].Type)
		assert.Equal(t, "data:image/png;base64,"+testImage.Base64, body.Messages[0].Content[1].ImageURL.URL)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "{\"grocery_list\": []}"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(Options{APIKey: "test-key", Model: "gpt-4o", MaxTokens: 512, BaseURL: server.URL + "/"})

	text, err := client.DescribeImage(context.Background(), testPrompt, testImage)

	require.NoError(t, err)
	assert.Equal(t, `{"grocery_list": []}`, text)
}

func TestOpenAIClient_APIError(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(Options{APIKey: "k", Model: "gpt-4o", BaseURL: server.URL + "/"})

	_, err := client.DescribeImage(context.Background(), testPrompt, testImage)

	assert.ErrorIs(t, err, domain.ErrVisionAPIFailure)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
