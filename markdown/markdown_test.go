package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestRenderHeadingsAndEmphasis(t *testing.T) {
	got := string(Render("# Welcome\n\nSome **bold** and *italic* text."))
	for _, want := range []string{`<h1 id="welcome">Welcome</h1>`, "<strong>bold</strong>", "<em>italic</em>"} {
		if !strings.Contains(got, want) {
			t.Errorf("Render output missing %q:\n%s", want, got)
		}
	}
}

func TestRenderFencedCode(t *testing.T) {
	got := string(Render("```go\nfmt.Println(\"<hi>\")\n```"))
	if !strings.Contains(got, `<pre><code class="language-go">`) {
		t.Errorf("expected language class on code block, got %s", got)
	}
	if !strings.Contains(got, "&lt;hi&gt;") {
		t.Errorf("code content should be escaped, got %s", got)
	}
}

func TestRenderTables(t *testing.T) {
	got := string(Render("| a | b |\n|---|---|\n| 1 | 2 |"))
	if !strings.Contains(got, "<table>") || !strings.Contains(got, "<td>1</td>") {
		t.Errorf("expected GFM table, got %s", got)
	}
}

func TestRenderKeepsRawHTML(t *testing.T) {
	got := string(Render("<form method=\"POST\"><input name=\"name\"></form>"))
	if !strings.Contains(got, `<form method="POST">`) {
		t.Errorf("raw HTML should pass through, got %s", got)
	}
}

func TestComponentMatchesRender(t *testing.T) {
	src := "## Title\n\n- one\n- two"
	var buf bytes.Buffer
	if err := Component(src).Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if buf.String() != string(Render(src)) {
		t.Errorf("Component = %q, Render = %q", buf.String(), Render(src))
	}
}

func TestExcerpt(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"# Heading\n\nPlain **text** with a [link](https://example.com).", 0, "Heading Plain text with a link."},
		{"one two three four", 9, "one two…"},
		{"short", 10, "short"},
		{"```\ncode\n```\nafter", 0, "after"},
		{"- item one\n- item two", 0, "item one item two"},
	}
	for _, tt := range tests {
		if got := Excerpt(tt.input, tt.n); got != tt.want {
			t.Errorf("Excerpt(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}
