// ABOUTME: Tests for the OpenAI client against a fake OpenAI-compatible server
// ABOUTME: Exercises completions, extraction parsing, retries and transcription uploads
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	openai "github.com/sashabaranov/go-openai"
)

func chatResponse(content string) string {
	resp := map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1,
		"model":   DefaultChatModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
	b, _ := json.Marshal(resp)
	return string(b)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClientWithConfig(&ClientConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1",
		MaxRetries: 2,
		RetryDelay: time.Millisecond,
		Now:        func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)
	return c
}

func TestNewOpenAIClientWithConfig_RequiresKeyOrBaseURL(t *testing.T) {
	_, err := NewOpenAIClientWithConfig(&ClientConfig{})
	assert.Error(t, err)

	c, err := NewOpenAIClientWithConfig(&ClientConfig{BaseURL: "http://localhost:11434/v1"})
	require.NoError(t, err)
	assert.Equal(t, DefaultChatModel, c.chatModel)
	assert.Equal(t, DefaultTranscriptionModel, c.transcriptionModel)
}

func TestComplete(t *testing.T) {
	var got openai.ChatCompletionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse("  Hello there. "))
	})

	reply, err := c.Complete(context.Background(), "be brief", "hi")
	require.NoError(t, err)
	assert.Equal(t, "Hello there.", reply)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, "be brief", got.Messages[0].Content)
	assert.Equal(t, "hi", got.Messages[1].Content)
}

func TestComplete_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, `{"error":{"message":"overloaded"}}`, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse("finally"))
	})

	reply, err := c.Complete(context.Background(), "", "hi")
	require.NoError(t, err)
	assert.Equal(t, "finally", reply)
	assert.Equal(t, int32(3), calls.Load())
}

func TestComplete_GivesUp(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse(""))
	})

	_, err := c.Complete(context.Background(), "", "hi")
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, int32(3), calls.Load())
}

func TestExtractStructuredMetadata(t *testing.T) {
	var got openai.ChatCompletionRequest
	body := `{"event":{"title":"Dentist","start_time":"2026-10-20 09:00","category":"health"},"location":"Main St Clinic","reminder":{"is_reminder":true}}`
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse("```json\n"+body+"\n```"))
	})

	ext, err := c.ExtractStructuredMetadata(context.Background(), "dentist tomorrow at 9 at Main St Clinic")
	require.NoError(t, err)

	event, important := ext.ImportantEvent()
	require.True(t, important)
	assert.Equal(t, "Dentist", event.Title)
	assert.Equal(t, "Main St Clinic", event.LocationName)
	require.NotNil(t, ext.Reminder)

	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, got.ResponseFormat.Type)
	assert.Contains(t, got.Messages[0].Content, "Current Date: 2026-10-19 09:00 (Monday)")
}

func TestExtractStructuredMetadata_MalformedJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, chatResponse("I think the event is tomorrow"))
	})

	_, err := c.ExtractStructuredMetadata(context.Background(), "whatever")
	assert.Error(t, err)
}

func TestTranscribe(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, string(DefaultTranscriptionModel), r.FormValue("model"))

		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer func() { _ = f.Close() }()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "voice.webm", hdr.Filename)
		assert.Equal(t, "RIFFfake", string(data))

		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprint(w, `{"text":" mindmate what's on today "}`)
	})

	text, err := c.Transcribe(context.Background(), strings.NewReader("RIFFfake"), "voice.webm")
	require.NoError(t, err)
	assert.Equal(t, "mindmate what's on today", text)
	assert.Equal(t, int32(2), calls.Load(), "the upload is replayed on retry")
}

func TestTranscribe_EmptyUpload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("server should not be called")
	})

	_, err := c.Transcribe(context.Background(), strings.NewReader(""), "voice.webm")
	assert.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
