package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/nadzzz/newsvox/internal/config"
)

// OpenAI translates text with the Chat Completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a translator from config.
func NewOpenAI(cfg config.OpenAITransConfig) *OpenAI {
	return newOpenAI(openai.NewClient(cfg.APIKey), cfg.Model)
}

func newOpenAI(client *openai.Client, model string) *OpenAI {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAI{client: client, model: model}
}

// Translate translates text into the language identified by target.
func (o *OpenAI) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}

	req := openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: fmt.Sprintf("Translate the user's news text into the language with ISO-639-1 code %q. Respond with only the translation, nothing else.", target),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.2,
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai translate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai translate: no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
