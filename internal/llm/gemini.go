package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

type geminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(apiKey, model string, timeout time.Duration) (ChatClient, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &geminiClient{
		client:  client,
		model:   model,
		timeout: timeout,
	}, nil
}

func (c *geminiClient) Model() string {
	return c.model
}

func (c *geminiClient) Complete(ctx context.Context, messages []Message, temperature float64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Gemini takes a single prompt; the system message becomes the
	// leading instruction block.
	var parts []string
	for _, m := range messages {
		parts = append(parts, m.Content)
	}
	prompt := strings.Join(parts, "\n\n")

	temp := float32(temperature)
	config := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 4096,
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
