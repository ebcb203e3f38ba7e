// Package summarizer produces short AI-generated digests of memo content via
// an OpenAI-compatible chat-completion API.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNotConfigured is returned when no provider credential is configured.
// The rest of the application keeps working; only summarization is affected.
var ErrNotConfigured = errors.New("summarizer: not configured")

const (
	defaultModel     = "gpt-4o-mini"
	defaultMaxTokens = 256

	systemPrompt = "You summarize personal memos. Reply with the summary only, no preamble."
	instruction  = "Summarize the following memo in two or three sentences, in the same language as the memo:"
)

// Summarizer produces a short summary of free text.
type Summarizer interface {
	Summarize(ctx context.Context, content string) (string, error)
}

// New returns an OpenAI-backed summarizer, or a disabled stub when apiKey is
// empty. baseURL overrides the provider endpoint (useful for compatible
// providers and tests); model and maxTokens fall back to defaults when zero.
func New(apiKey, baseURL, model string, maxTokens int) Summarizer {
	if apiKey == "" {
		return disabled{}
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = defaultModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &OpenAI{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// OpenAI calls a hosted chat-completion API. One request per Summarize call;
// no retry, no rate limiting. Failures propagate to the caller.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// Summarize sends the fixed instruction plus content and returns the
// provider's text response verbatim.
func (o *OpenAI) Summarize(ctx context.Context, content string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		MaxTokens:   o.maxTokens,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: instruction + "\n\n" + content},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summarizer: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("summarizer: provider returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

type disabled struct{}

func (disabled) Summarize(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
