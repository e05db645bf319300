// ABOUTME: OpenAI-compatible client for replies, structured extraction and transcription
// ABOUTME: Works against api.openai.com or any compatible endpoint (e.g. a local Ollama) via BaseURL
package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/mindmate/internal/models"
	"github.com/harper/mindmate/internal/util"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
	// DefaultTranscriptionModel is the default speech-to-text model
	DefaultTranscriptionModel = openai.Whisper1
)

// ErrEmptyResponse is returned when the model answers with no choices or no text
var ErrEmptyResponse = errors.New("empty model response")

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey             string
	BaseURL            string
	ChatModel          string
	TranscriptionModel string
	MaxRetries         int
	RetryDelay         time.Duration
	Timeout            time.Duration
	Now                func() time.Time
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	return &ClientConfig{
		APIKey:             apiKey,
		ChatModel:          DefaultChatModel,
		TranscriptionModel: DefaultTranscriptionModel,
		MaxRetries:         3,
		RetryDelay:         time.Second * 2,
		Timeout:            30 * time.Second,
	}
}

// OpenAIClient wraps the OpenAI API client with retry logic
type OpenAIClient struct {
	client             *openai.Client
	chatModel          string
	transcriptionModel string
	maxRetries         int
	retryDelay         time.Duration
	timeout            time.Duration
	now                func() time.Time
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration.
// An API key is required unless a custom BaseURL points at a keyless local server.
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" && config.BaseURL == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}

	c := &OpenAIClient{
		client:             openai.NewClientWithConfig(oc),
		chatModel:          config.ChatModel,
		transcriptionModel: config.TranscriptionModel,
		maxRetries:         config.MaxRetries,
		retryDelay:         config.RetryDelay,
		timeout:            config.Timeout,
		now:                config.Now,
	}
	if c.chatModel == "" {
		c.chatModel = DefaultChatModel
	}
	if c.transcriptionModel == "" {
		c.transcriptionModel = DefaultTranscriptionModel
	}
	if c.timeout <= 0 {
		c.timeout = 30 * time.Second
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c, nil
}

// Complete sends one system+user exchange and returns the assistant text
func (c *OpenAIClient) Complete(ctx context.Context, system, user string) (string, error) {
	content, err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) (string, error) {
		return c.chat(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: user},
			},
			Temperature: 0.7,
		})
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	return content, nil
}

const extractionPrompt = `You extract structured data from one thing a user said.
Current Date: %s

Return ONLY a JSON object of this shape, omitting any part that is not present:
{
  "event": {"title": "...", "start_time": "YYYY-MM-DD HH:MM", "category": "work|personal|health|social|study"},
  "location": "...",
  "reminder": {"is_reminder": true, "recurrence": "daily|weekly|none", "priority": "Low|Medium|High"},
  "memory": {"type": "fact|preference|relationship", "content": "...", "confidence": 0.0}
}
Resolve relative dates ("tomorrow", "next friday") against the current date.`

// ExtractStructuredMetadata asks the model for an event, location, reminder and memory in text.
// Output that is valid JSON but oddly shaped is tolerated; unreadable JSON is retried.
func (c *OpenAIClient) ExtractStructuredMetadata(ctx context.Context, text string) (models.Extraction, error) {
	system := fmt.Sprintf(extractionPrompt, c.now().Format("2006-01-02 15:04 (Monday)"))

	ext, err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) (models.Extraction, error) {
		content, err := c.chat(ctx, openai.ChatCompletionRequest{
			Model: c.chatModel,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: text},
			},
			Temperature: 0.1,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			return models.Extraction{}, err
		}
		return models.ParseExtraction([]byte(stripCodeFence(content)))
	})
	if err != nil {
		return models.Extraction{}, fmt.Errorf("metadata extraction: %w", err)
	}
	return ext, nil
}

// Transcribe converts recorded speech to text. filename carries the audio format by extension.
func (c *OpenAIClient) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(audio)
	if err != nil {
		return "", fmt.Errorf("reading audio: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("reading audio: empty upload")
	}

	text, err := util.Retry(ctx, c.maxRetries, c.retryDelay, func(ctx context.Context) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    c.transcriptionModel,
			FilePath: filename,
			Reader:   bytes.NewReader(data),
		})
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(resp.Text), nil
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	return text, nil
}

// chat performs a single completion attempt
func (c *OpenAIClient) chat(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", ErrEmptyResponse)
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}

// stripCodeFence removes a ```json fence some local models wrap around JSON
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
