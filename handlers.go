package modernblog

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/modernblog/markdown"
)

// siteSettings loads the settings once per request.
func (a *App) siteSettings(c echo.Context) (SiteSettings, error) {
	if st, ok := c.Get(ctxSettings).(SiteSettings); ok {
		return st, nil
	}
	st, err := a.Store.LoadSiteSettings(c.Request().Context())
	if err != nil {
		return SiteSettings{}, err
	}
	c.Set(ctxSettings, st)
	return st, nil
}

// chrome gathers the navigation and settings every public page shows.
func (a *App) chrome(c echo.Context, meta PageMeta) (Chrome, error) {
	ctx := c.Request().Context()
	st, err := a.siteSettings(c)
	if err != nil {
		return Chrome{}, err
	}
	cats, err := a.Store.ListCategories(ctx)
	if err != nil {
		return Chrome{}, err
	}
	pages, err := a.Store.ListPublishedPages(ctx)
	if err != nil {
		return Chrome{}, err
	}
	menu, err := a.Store.ActiveMenuItems(ctx)
	if err != nil {
		return Chrome{}, err
	}
	if meta.Title == "" {
		meta.Title = st.SiteName
	} else {
		meta.Title += " | " + st.SiteName
	}
	if meta.Description == "" {
		meta.Description = a.Config.Site.Description
	}
	if meta.OGType == "" {
		meta.OGType = "website"
	}
	if meta.URL == "" {
		meta.URL = BuildURL(a.Config.Site.URL, c.Request().URL.Path)
	}
	return Chrome{
		Settings:   st,
		Categories: cats,
		Pages:      pages,
		Menu:       menu,
		Flashes:    popFlashes(c),
		CSRF:       CsrfToken(c),
		Meta:       meta,
		SiteURL:    a.Config.Site.URL,
		Year:       time.Now().Year(),
	}, nil
}

// notFoundOr converts ErrNotFound into a 404 and passes other errors on.
func notFoundOr(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.ErrNotFound
	}
	return err
}

func (a *App) renderListing(c echo.Context, v ListingView, meta PageMeta) error {
	ch, err := a.chrome(c, meta)
	if err != nil {
		return err
	}
	v.Chrome = ch
	return Render(c, a.Views.Listing(v))
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Store.ListPublishedPosts(c.Request().Context(), PageNumber(c.QueryParam("page")))
	if err != nil {
		return err
	}
	st, err := a.siteSettings(c)
	if err != nil {
		return err
	}
	return a.renderListing(c, ListingView{
		Kind:    ListingHome,
		Heading: "Latest Posts",
		Posts:   posts,
		Path:    "/",
	}, PageMeta{URL: BuildURL(a.Config.Site.URL), JSONLD: WebsiteJsonLD(a.Config, st)})
}

func (a *App) handleCategory(c echo.Context) error {
	ctx := c.Request().Context()
	cat, err := a.Store.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		return notFoundOr(err)
	}
	posts, err := a.Store.ListPublishedPostsByCategory(ctx, cat.ID, PageNumber(c.QueryParam("page")))
	if err != nil {
		return err
	}
	return a.renderListing(c, ListingView{
		Kind:     ListingCategory,
		Heading:  cat.Name,
		Category: &cat,
		Posts:    posts,
		Path:     cat.Link(),
	}, PageMeta{Title: cat.Name, Description: fmt.Sprintf("Posts in %s", cat.Name)})
}

func (a *App) handleTag(c echo.Context) error {
	ctx := c.Request().Context()
	tag, err := a.Store.GetTagBySlug(ctx, c.Param("slug"))
	if err != nil {
		return notFoundOr(err)
	}
	posts, err := a.Store.ListPublishedPostsByTag(ctx, tag.ID, PageNumber(c.QueryParam("page")))
	if err != nil {
		return err
	}
	return a.renderListing(c, ListingView{
		Kind:    ListingTag,
		Heading: "#" + tag.Name,
		Tag:     &tag,
		Posts:   posts,
		Path:    tag.Link(),
	}, PageMeta{Title: "#" + tag.Name, Description: fmt.Sprintf("Posts tagged %s", tag.Name)})
}

func (a *App) handleSearch(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	posts, err := a.Store.SearchPublishedPosts(c.Request().Context(), q, PageNumber(c.QueryParam("page")))
	if err != nil {
		return err
	}
	heading := "Search"
	if q != "" {
		heading = fmt.Sprintf("Search results for %q", q)
	}
	return a.renderListing(c, ListingView{
		Kind:    ListingSearch,
		Heading: heading,
		Query:   q,
		Posts:   posts,
		Path:    "/search",
	}, PageMeta{Title: heading})
}

func (a *App) handleCategories(c echo.Context) error {
	tags, err := a.Store.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	ch, err := a.chrome(c, PageMeta{Title: "Categories"})
	if err != nil {
		return err
	}
	return Render(c, a.Views.Categories(CategoriesView{Chrome: ch, Tags: tags}))
}

func (a *App) handlePost(c echo.Context) error {
	post, err := a.Store.GetPublishedPostBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return notFoundOr(err)
	}
	return a.renderPost(c, http.StatusOK, post, CommentInput{}, nil)
}

func (a *App) renderPost(c echo.Context, code int, post Post, form CommentInput, errs map[string]string) error {
	ctx := c.Request().Context()
	comments, err := a.Store.ApprovedComments(ctx, post.ID)
	if err != nil {
		return err
	}
	recent, err := a.Store.RecentPosts(ctx, 5)
	if err != nil {
		return err
	}
	st, err := a.siteSettings(c)
	if err != nil {
		return err
	}
	desc := post.Excerpt
	if desc == "" {
		desc = markdown.Excerpt(post.Content, 160)
	}
	ch, err := a.chrome(c, PageMeta{
		Title:       post.Title,
		Description: desc,
		URL:         BuildURL(a.Config.Site.URL, "post", post.Slug),
		OGType:      "article",
		JSONLD:      BlogPostingJsonLD(post, a.Config, st),
	})
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.Post(PostView{
		Chrome:   ch,
		Post:     post,
		Comments: comments,
		Recent:   recent,
		Form:     form,
		Errors:   errs,
	}))
}

func (a *App) handleComment(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Store.GetPublishedPostBySlug(ctx, c.Param("slug"))
	if err != nil {
		return notFoundOr(err)
	}
	in := CommentInput{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Content: c.FormValue("content"),
	}
	if _, err := a.Store.CreateComment(ctx, post.ID, in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderPost(c, http.StatusUnprocessableEntity, post, in, errs)
		}
		return err
	}
	addFlash(c, FlashSuccess, "Comment submitted! It will appear after admin approval.")
	return c.Redirect(http.StatusSeeOther, post.Link())
}

func (a *App) handlePage(c echo.Context) error {
	page, err := a.Store.GetPublishedPageBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return notFoundOr(err)
	}
	return a.renderPage(c, http.StatusOK, page, ContactInput{}, nil)
}

func (a *App) renderPage(c echo.Context, code int, page Page, form ContactInput, errs map[string]string) error {
	ch, err := a.chrome(c, PageMeta{Title: page.Title, Description: markdown.Excerpt(page.Content, 160)})
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.Page(PageView{
		Chrome:    ch,
		Page:      page,
		IsContact: page.Slug == a.Config.Content.ContactPageSlug,
		Form:      form,
		Errors:    errs,
	}))
}

func (a *App) handleContact(c echo.Context) error {
	ctx := c.Request().Context()
	page, err := a.Store.GetPublishedPageBySlug(ctx, c.Param("slug"))
	if err != nil {
		return notFoundOr(err)
	}
	if page.Slug != a.Config.Content.ContactPageSlug {
		return echo.ErrMethodNotAllowed
	}
	in := ContactInput{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Subject: c.FormValue("subject"),
		Message: c.FormValue("message"),
	}
	if _, err := a.Store.CreateContact(ctx, in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderPage(c, http.StatusUnprocessableEntity, page, in, errs)
		}
		return err
	}
	addFlash(c, FlashSuccess, "Message sent successfully! We will get back to you soon.")
	return c.Redirect(http.StatusSeeOther, page.Link())
}

func (a *App) handleRobots(c echo.Context) error {
	body := strings.Join([]string{
		"User-agent: *",
		"Allow: /",
		"Disallow: /admin/",
		"",
		"Sitemap: " + BuildURL(a.Config.Site.URL, "sitemap.xml"),
		"",
	}, "\n")
	return c.String(http.StatusOK, body)
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	posts, err := a.Store.ListAllPosts(ctx)
	if err != nil {
		return err
	}
	pages, err := a.Store.ListPublishedPages(ctx)
	if err != nil {
		return err
	}
	cats, err := a.Store.ListCategories(ctx)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, publishedOnly(posts), pages, cats)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Store.RecentPosts(c.Request().Context(), a.Config.Content.FeedSize)
	if err != nil {
		return err
	}
	st, err := a.siteSettings(c)
	if err != nil {
		return err
	}
	return a.renderRSS(c, st, posts)
}

func publishedOnly(posts []Post) []Post {
	out := posts[:0:0]
	for _, p := range posts {
		if p.Published {
			out = append(out, p)
		}
	}
	return out
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound && a.Views.NotFound != nil {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error",
			zap.Error(err),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path))
		if a.Views.ServerError != nil {
			_ = RenderStatus(c, code, a.Views.ServerError())
			return
		}
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
