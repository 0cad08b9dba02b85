package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/openai/openai-go/v3"
	openaioption "github.com/openai/openai-go/v3/option"
)

// GeminiOpenAIBaseURL is Google's OpenAI-compatible endpoint for Gemini.
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

var errEmptyResponse = errors.New("provider returned no content")

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	BaseURL string
	Model   string
}

// Complete implements Provider.
func (p OpenAIProvider) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if p.BaseURL != "" {
		opts = append(opts, openaioption.WithBaseURL(p.BaseURL))
	}
	client := openai.NewClient(opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// AnthropicProvider uses the Anthropic Messages API.
type AnthropicProvider struct {
	Model     string
	MaxTokens int64
}

// Complete implements Provider.
func (p AnthropicProvider) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	client := anthropic.NewClient(
		anthropicoption.WithAPIKey(apiKey),
		anthropicoption.WithMaxRetries(0),
	)
	maxTokens := p.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	msg, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.Model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errEmptyResponse
	}
	return b.String(), nil
}

// NewProvider selects a provider by name. "gemini" (the default) is the
// OpenAI provider pointed at Google's compatible endpoint.
func NewProvider(name, model, baseURL string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "gemini":
		if baseURL == "" {
			baseURL = GeminiOpenAIBaseURL
		}
		if model == "" {
			model = "gemini-1.5-pro"
		}
		return OpenAIProvider{BaseURL: baseURL, Model: model}, nil
	case "openai":
		if model == "" {
			model = "gpt-4o-mini"
		}
		return OpenAIProvider{BaseURL: baseURL, Model: model}, nil
	case "anthropic":
		if model == "" {
			model = "claude-sonnet-4-5"
		}
		return AnthropicProvider{Model: model}, nil
	default:
		return nil, fmt.Errorf("assistant: unknown provider %q", name)
	}
}
