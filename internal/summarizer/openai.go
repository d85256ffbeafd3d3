package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIGenerator calls OpenAI's Chat Completions API.
type OpenAIGenerator struct {
	client openai.Client
}

// NewOpenAIGenerator builds a new generator instance.
func NewOpenAIGenerator(apiKey string) (*OpenAIGenerator, error) {
	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
	}, nil
}

// Generate runs one chat completion and returns its text.
func (g *OpenAIGenerator) Generate(
	ctx context.Context,
	model string,
	messages []Message,
) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("messages are empty")
	}

	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, message := range messages {
		switch message.Role {
		case RoleSystem:
			params = append(params, openai.SystemMessage(message.Content))
		case RoleUser:
			params = append(params, openai.UserMessage(message.Content))
		default:
			return "", fmt.Errorf("unsupported message role %q", message.Role)
		}
	}

	resp, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: params,
	})
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("response has no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("output text is missing")
	}

	return text, nil
}
