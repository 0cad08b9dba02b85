package modernblog

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func pageForm(c echo.Context) PageInput {
	return PageInput{
		Title:     strings.TrimSpace(c.FormValue("title")),
		Slug:      strings.TrimSpace(c.FormValue("slug")),
		Content:   c.FormValue("content"),
		Published: checked(c, "published"),
	}
}

func (a *App) handleAdminPages(c echo.Context) error {
	pages, err := a.Store.ListPages(c.Request().Context())
	if err != nil {
		return err
	}
	ch, err := a.adminChrome(c, "pages")
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminPages(PageListView{AdminChrome: ch, Pages: pages}))
}

func (a *App) renderPageForm(c echo.Context, code int, page *Page, form PageInput, errs map[string]string) error {
	ch, err := a.adminChrome(c, "pages")
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminPageForm(PageFormView{
		AdminChrome: ch,
		Page:        page,
		Form:        form,
		Errors:      errs,
	}))
}

func (a *App) handlePageNew(c echo.Context) error {
	return a.renderPageForm(c, http.StatusOK, nil, PageInput{Published: true}, nil)
}

func (a *App) handlePageCreate(c echo.Context) error {
	in := pageForm(c)
	if _, err := a.Store.CreatePage(c.Request().Context(), in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderPageForm(c, http.StatusUnprocessableEntity, nil, in, errs)
		}
		return failed(c, "/admin/pages", err)
	}
	return done(c, "/admin/pages", "Page created successfully!")
}

func (a *App) handlePageEdit(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	page, err := a.Store.GetPage(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err)
	}
	form := PageInput{Title: page.Title, Slug: page.Slug, Content: page.Content, Published: page.Published}
	return a.renderPageForm(c, http.StatusOK, &page, form, nil)
}

func (a *App) handlePageUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := idParam(c)
	if err != nil {
		return err
	}
	page, err := a.Store.GetPage(ctx, id)
	if err != nil {
		return notFoundOr(err)
	}
	in := pageForm(c)
	if _, err := a.Store.UpdatePage(ctx, id, in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderPageForm(c, http.StatusUnprocessableEntity, &page, in, errs)
		}
		return failed(c, "/admin/pages", err)
	}
	return done(c, "/admin/pages", "Page updated successfully!")
}

func (a *App) handlePageDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeletePage(c.Request().Context(), id); err != nil {
		return failed(c, "/admin/pages", err)
	}
	return done(c, "/admin/pages", "Page deleted successfully!")
}
