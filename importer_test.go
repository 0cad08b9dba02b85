package modernblog

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportMarkdownFrontMatter(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	doc := `---
title: Going Further With Go
excerpt: Notes from a year of Go.
category: Programming Notes
tags:
  - go
  - notes
published: false
---

# Going further

Body text.
`
	p, err := s.ImportMarkdown(ctx, strings.NewReader(doc), "further.md", true)
	require.NoError(t, err)

	assert.Equal(t, "Going Further With Go", p.Title)
	assert.Equal(t, "going-further-with-go", p.Slug)
	assert.Equal(t, "Notes from a year of Go.", p.Excerpt)
	assert.False(t, p.Published, "front matter overrides the publish flag")
	assert.True(t, strings.HasPrefix(p.Content, "# Going further"))
	assert.Equal(t, "go, notes", p.TagNames())
	require.NotNil(t, p.Category)
	assert.Equal(t, "programming-notes", p.Category.Slug)

	again, err := s.ImportMarkdown(ctx, strings.NewReader(doc), "further.md", true)
	require.NoError(t, err)
	assert.Equal(t, "going-further-with-go-1", again.Slug)
	assert.Equal(t, p.Category.ID, again.Category.ID, "existing category is reused")
}

func TestImportMarkdownWithoutFrontMatter(t *testing.T) {
	s := setupTestStore(t)

	p, err := s.ImportMarkdown(context.Background(), strings.NewReader("Just a body."), "posts/quick-note.md", true)
	require.NoError(t, err)
	assert.Equal(t, "quick-note", p.Title)
	assert.Equal(t, "quick-note", p.Slug)
	assert.True(t, p.Published)
	assert.Nil(t, p.Category)
	assert.Empty(t, p.Tags)
}

func TestImportMarkdownStringTags(t *testing.T) {
	s := setupTestStore(t)

	doc := "---\ntitle: Tagged\ntags: \"alpha, beta\"\nslug: custom\n---\nbody\n"
	p, err := s.ImportMarkdown(context.Background(), strings.NewReader(doc), "x.md", false)
	require.NoError(t, err)
	assert.Equal(t, "custom", p.Slug)
	assert.Equal(t, "alpha, beta", p.TagNames())
	assert.False(t, p.Published)
}

func TestImportMarkdownEmptyBody(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.ImportMarkdown(context.Background(), strings.NewReader("---\ntitle: Empty\n---\n"), "empty.md", true)
	assert.ErrorIs(t, err, ErrValidation)
}
