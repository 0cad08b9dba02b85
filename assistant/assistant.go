// Package assistant generates blog post drafts through an external
// text-generation provider. It keeps no state between calls.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotConfigured is returned when no provider API key is set.
	ErrNotConfigured = errors.New("assistant: API key not configured")
	// ErrEmptyTopic is returned when the topic is blank.
	ErrEmptyTopic = errors.New("assistant: topic is required")
)

// ProviderError wraps a failure reported by the provider while generating
// one part of the draft.
type ProviderError struct {
	Part string
	Err  error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Part, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Provider completes a single prompt.
type Provider interface {
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}

// Draft is the generated title, excerpt and markdown body.
type Draft struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`
}

// Assistant issues the three generation calls that make up a Draft.
type Assistant struct {
	provider Provider
	timeout  time.Duration
}

// New returns an Assistant. A zero timeout disables the per-call deadline.
func New(p Provider, timeout time.Duration) *Assistant {
	return &Assistant{provider: p, timeout: timeout}
}

const contentPrompt = `
Write a comprehensive, well-structured blog post about: %s

Requirements:
- Use proper markdown formatting with headings (##, ###)
- Include practical examples and actionable tips
- Make it informative and engaging
- Aim for 800-1500 words
- Use bullet points and numbered lists where appropriate
- Include a conclusion section
- Write in a professional but accessible tone

Return only the markdown content, no additional text or formatting.
`

// Draft generates a title, an excerpt and a body for topic. If any call
// fails the whole draft is discarded.
func (a *Assistant) Draft(ctx context.Context, apiKey, topic string) (Draft, error) {
	if strings.TrimSpace(apiKey) == "" {
		return Draft{}, ErrNotConfigured
	}
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Draft{}, ErrEmptyTopic
	}

	title, err := a.complete(ctx, apiKey, "title",
		fmt.Sprintf("Create an engaging, SEO-friendly blog post title about: %s. Return only the title, nothing else.", topic))
	if err != nil {
		return Draft{}, err
	}
	excerpt, err := a.complete(ctx, apiKey, "excerpt",
		fmt.Sprintf("Write a compelling 2-3 sentence excerpt/summary for a blog post about: %s. Make it engaging and informative. Return only the excerpt, nothing else.", topic))
	if err != nil {
		return Draft{}, err
	}
	content, err := a.complete(ctx, apiKey, "content", fmt.Sprintf(contentPrompt, topic))
	if err != nil {
		return Draft{}, err
	}

	return Draft{
		Title:   stripQuotes(title),
		Excerpt: stripQuotes(excerpt),
		Content: strings.TrimSpace(content),
	}, nil
}

func (a *Assistant) complete(ctx context.Context, apiKey, part, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	out, err := a.provider.Complete(ctx, apiKey, prompt)
	if err != nil {
		return "", &ProviderError{Part: part, Err: err}
	}
	return out, nil
}

func stripQuotes(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}
