package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openAIClient talks to any OpenAI-compatible chat endpoint. Ollama
// exposes one under /v1, so this covers local models too.
type openAIClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAIClient(baseURL, apiKey, model string, timeout time.Duration) ChatClient {
	opts := []option.RequestOption{}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/v1"))
	}
	if apiKey == "" {
		// Ollama ignores the key but the client requires one.
		apiKey = "ollama"
	}
	opts = append(opts, option.WithAPIKey(apiKey))

	return &openAIClient{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
	}
}

func (c *openAIClient) Model() string {
	return c.model
}

func (c *openAIClient) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Messages:    make([]openai.ChatCompletionMessageParamUnion, 0, len(messages)),
		Model:       c.model,
		Temperature: openai.Float(temperature),
	}
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			params.Messages = append(params.Messages, openai.SystemMessage(m.Content))
		default:
			params.Messages = append(params.Messages, openai.UserMessage(m.Content))
		}
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
