package modernblog

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// BuildURL joins a base URL with path segments.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join("/", u.Path, path.Join(pathSegments...))
	if len(pathSegments) == 0 && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty removes empty/whitespace-only strings from a slice and trims
// the rest.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseTagNames splits a comma-separated tag list, trimming entries and
// dropping empty and repeated names. Order of first appearance is kept.
func ParseTagNames(raw string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, name := range FilterEmpty(strings.Split(raw, ",")) {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// JoinTags joins tag names with ", ".
func JoinTags(tags []Tag) string {
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.Name
	}
	return strings.Join(names, ", ")
}

// parseIDList parses "3,1,2" into ids. Blank entries are skipped.
func parseIDList(raw string) ([]int64, error) {
	parts := FilterEmpty(strings.Split(raw, ","))
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id < 1 {
			return nil, invalid("ids", "must be a comma-separated list of ids")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PageNumber parses a ?page= value. Anything unparsable is page 1.
func PageNumber(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema.
func WebsiteJsonLD(cfg Config, st SiteSettings) string {
	data := map[string]interface{}{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     st.SiteName,
		"url":      BuildURL(cfg.Site.URL),
		"potentialAction": map[string]string{
			"@type":       "SearchAction",
			"target":      BuildURL(cfg.Site.URL, "search") + "?q={search_term_string}",
			"query-input": "required name=search_term_string",
		},
	}
	if cfg.Site.Description != "" {
		data["description"] = cfg.Site.Description
	}
	if cfg.Site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Site.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema.
func BlogPostingJsonLD(post Post, cfg Config, st SiteSettings) string {
	postURL := BuildURL(cfg.Site.URL, "post", post.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      post.Title,
		"description":   post.Excerpt,
		"datePublished": post.CreatedAt.Format(time.RFC3339),
		"dateModified":  post.UpdatedAt.Format(time.RFC3339),
		"url":           postURL,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   postURL,
		},
		"publisher": map[string]string{
			"@type": "Organization",
			"name":  st.SiteName,
		},
	}
	if cfg.Site.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Site.Author,
		}
	}
	if post.CoverImage != "" {
		data["image"] = BuildURL(cfg.Site.URL, post.CoverURL())
	}
	if post.Category != nil {
		data["articleSection"] = post.Category.Name
	}
	if len(post.Tags) > 0 {
		data["keywords"] = JoinTags(post.Tags)
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
