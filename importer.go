package modernblog

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/adrg/frontmatter"
)

// importMeta is the front matter accepted by ImportMarkdown. Tags may be a
// list or a comma-separated string.
type importMeta struct {
	Title      string `yaml:"title" toml:"title" json:"title"`
	Slug       string `yaml:"slug" toml:"slug" json:"slug"`
	Excerpt    string `yaml:"excerpt" toml:"excerpt" json:"excerpt"`
	Category   string `yaml:"category" toml:"category" json:"category"`
	Tags       any    `yaml:"tags" toml:"tags" json:"tags"`
	Published  *bool  `yaml:"published" toml:"published" json:"published"`
	CoverImage string `yaml:"cover_image" toml:"cover_image" json:"cover_image"`
}

func (m importMeta) tagList() string {
	switch v := m.Tags.(type) {
	case string:
		return v
	case []any:
		names := make([]string, 0, len(v))
		for _, t := range v {
			names = append(names, fmt.Sprint(t))
		}
		return strings.Join(names, ",")
	case []string:
		return strings.Join(v, ",")
	default:
		return ""
	}
}

// ImportMarkdown creates a post from a Markdown document with optional front
// matter. name is used as the title when the front matter has none, and
// publish applies when the front matter does not say.
func (s *Store) ImportMarkdown(ctx context.Context, r io.Reader, name string, publish bool) (Post, error) {
	var meta importMeta
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return Post{}, fmt.Errorf("import %s: front matter: %w", name, err)
	}
	in := PostInput{
		Title:      strings.TrimSpace(meta.Title),
		Slug:       meta.Slug,
		Content:    strings.TrimSpace(string(body)),
		Excerpt:    meta.Excerpt,
		CoverImage: meta.CoverImage,
		Tags:       meta.tagList(),
		Published:  publish,
	}
	if in.Title == "" {
		in.Title = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	if meta.Published != nil {
		in.Published = *meta.Published
	}
	if strings.TrimSpace(meta.Category) != "" {
		cat, err := s.findOrCreateCategory(ctx, meta.Category)
		if err != nil {
			return Post{}, fmt.Errorf("import %s: %w", name, err)
		}
		in.CategoryID = cat.ID
	}
	p, err := s.CreatePost(ctx, in)
	if err != nil {
		return Post{}, fmt.Errorf("import %s: %w", name, err)
	}
	return p, nil
}
