package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedProvider struct {
	replies []string
	failAt  int // 1-based call index that fails, 0 for never
	calls   int
	keys    []string
}

func (p *scriptedProvider) Complete(ctx context.Context, apiKey, prompt string) (string, error) {
	p.calls++
	p.keys = append(p.keys, apiKey)
	if p.calls == p.failAt {
		return "", errors.New("quota exceeded")
	}
	return p.replies[p.calls-1], nil
}

func TestDraftSuccess(t *testing.T) {
	p := &scriptedProvider{replies: []string{`  "Go Concurrency Patterns"  `, `"A short tour."`, "\n## Intro\n\nBody\n"}}
	a := New(p, time.Second)

	d, err := a.Draft(context.Background(), "key-123", "  go concurrency ")
	require.NoError(t, err)
	assert.Equal(t, "Go Concurrency Patterns", d.Title)
	assert.Equal(t, "A short tour.", d.Excerpt)
	assert.Equal(t, "## Intro\n\nBody", d.Content)
	assert.Equal(t, 3, p.calls)
	assert.Equal(t, []string{"key-123", "key-123", "key-123"}, p.keys)
}

func TestDraftRequiresKey(t *testing.T) {
	p := &scriptedProvider{}
	_, err := New(p, 0).Draft(context.Background(), " ", "topic")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Zero(t, p.calls)
}

func TestDraftRequiresTopic(t *testing.T) {
	p := &scriptedProvider{}
	_, err := New(p, 0).Draft(context.Background(), "key", "   ")
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.Zero(t, p.calls)
}

func TestDraftDiscardsPartialResults(t *testing.T) {
	p := &scriptedProvider{replies: []string{"Title", "Excerpt", "Body"}, failAt: 3}
	d, err := New(p, 0).Draft(context.Background(), "key", "topic")
	require.Error(t, err)
	assert.Equal(t, Draft{}, d)

	var perr *ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "content", perr.Part)
	assert.True(t, strings.Contains(err.Error(), "quota exceeded"))
}

type slowProvider struct{}

func (slowProvider) Complete(ctx context.Context, _, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestDraftTimeout(t *testing.T) {
	_, err := New(slowProvider{}, 20*time.Millisecond).Draft(context.Background(), "key", "topic")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider("", "", "")
	require.NoError(t, err)
	assert.Equal(t, OpenAIProvider{BaseURL: GeminiOpenAIBaseURL, Model: "gemini-1.5-pro"}, p)

	p, err = NewProvider("openai", "gpt-4o", "")
	require.NoError(t, err)
	assert.Equal(t, OpenAIProvider{Model: "gpt-4o"}, p)

	p, err = NewProvider("anthropic", "", "")
	require.NoError(t, err)
	assert.IsType(t, AnthropicProvider{}, p)

	_, err = NewProvider("nope", "", "")
	assert.Error(t, err)
}
