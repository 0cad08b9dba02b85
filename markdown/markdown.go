// Package markdown renders post and page bodies to HTML, either as a
// templ.Component or as template.HTML for html/template themes.
package markdown

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// engine is safe for concurrent use once built.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
		extension.TaskList,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		// Bodies are written by admins; the seeded contact page embeds a form.
		html.WithUnsafe(),
	),
)

var (
	reTags       = regexp.MustCompile(`<[^>]*>`)
	reFence      = regexp.MustCompile("(?s)```.*?```")
	reImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	reLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	reLinePrefix = regexp.MustCompile(`(?m)^\s{0,3}(#{1,6}\s+|>\s?|[-*+]\s+|\d+\.\s+)`)
	reEmphasis   = regexp.MustCompile("[*_`~]+")
	reSpace      = regexp.MustCompile(`\s+`)
)

// ToHTML converts md to HTML bytes.
func ToHTML(md string) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(md), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Render returns md as trusted HTML. Conversion errors render nothing.
func Render(md string) template.HTML {
	out, err := ToHTML(md)
	if err != nil {
		return ""
	}
	return template.HTML(out)
}

// Component returns a templ.Component that renders md as HTML.
func Component(md string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return engine.Convert([]byte(md), w)
	})
}

// Excerpt strips markdown syntax from md and cuts the text to at most n
// runes on a word boundary, appending an ellipsis when it truncates.
func Excerpt(md string, n int) string {
	text := reFence.ReplaceAllString(md, " ")
	text = reImage.ReplaceAllString(text, "$1")
	text = reLink.ReplaceAllString(text, "$1")
	text = reTags.ReplaceAllString(text, " ")
	text = reLinePrefix.ReplaceAllString(text, "")
	text = reEmphasis.ReplaceAllString(text, "")
	text = strings.TrimSpace(reSpace.ReplaceAllString(text, " "))
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " .,;:") + "…"
}
