package modernblog

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

const sitemapDate = "2006-01-02"

func (a *App) renderSitemap(c echo.Context, posts []Post, pages []Page, cats []Category) error {
	base := a.Config.Site.URL
	urls := make([]sitemapURL, 0, len(posts)+len(pages)+len(cats)+2)
	urls = append(urls, sitemapURL{Loc: BuildURL(base), ChangeFreq: "daily", Priority: "1.0"})
	for _, p := range posts {
		urls = append(urls, sitemapURL{
			Loc:        BuildURL(base, "post", p.Slug),
			LastMod:    p.UpdatedAt.UTC().Format(sitemapDate),
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}
	for _, p := range pages {
		urls = append(urls, sitemapURL{
			Loc:        BuildURL(base, "page", p.Slug),
			LastMod:    p.UpdatedAt.UTC().Format(sitemapDate),
			ChangeFreq: "monthly",
			Priority:   "0.6",
		})
	}
	for _, cat := range cats {
		urls = append(urls, sitemapURL{
			Loc:        BuildURL(base, "category", cat.Slug),
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}
	urls = append(urls, sitemapURL{Loc: BuildURL(base, "categories"), ChangeFreq: "weekly", Priority: "0.5"})

	return writeXML(c, "application/xml; charset=utf-8", sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	})
}

func writeXML(c echo.Context, contentType string, v any) error {
	c.Response().Header().Set(echo.HeaderContentType, contentType)
	c.Response().WriteHeader(http.StatusOK)
	if _, err := c.Response().Write([]byte(xml.Header)); err != nil {
		return err
	}
	return xml.NewEncoder(c.Response()).Encode(v)
}
