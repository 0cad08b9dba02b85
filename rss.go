package modernblog

import (
	"encoding/xml"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/modernblog/markdown"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	Categories  []string `xml:"category,omitempty"`
	PubDate     string   `xml:"pubDate"`
	GUID        string   `xml:"guid"`
}

func (a *App) renderRSS(c echo.Context, st SiteSettings, posts []Post) error {
	base := a.Config.Site.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		desc := p.Excerpt
		if desc == "" {
			desc = markdown.Excerpt(p.Content, 300)
		}
		var cats []string
		if p.Category != nil {
			cats = append(cats, p.Category.Name)
		}
		postURL := BuildURL(base, "post", p.Slug)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: desc,
			Categories:  cats,
			PubDate:     p.CreatedAt.UTC().Format(time.RFC1123Z),
			GUID:        postURL,
		})
	}
	return writeXML(c, "application/rss+xml; charset=utf-8", rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       st.SiteName,
			Link:        BuildURL(base),
			Description: a.Config.Site.Description,
			Items:       items,
		},
	})
}
