package modernblog

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func categoryForm(c echo.Context) CategoryInput {
	return CategoryInput{
		Name: strings.TrimSpace(c.FormValue("name")),
		Slug: strings.TrimSpace(c.FormValue("slug")),
	}
}

func (a *App) renderCategories(c echo.Context, code int, form CategoryInput, errs map[string]string) error {
	ctx := c.Request().Context()
	cats, err := a.Store.ListCategories(ctx)
	if err != nil {
		return err
	}
	tags, err := a.Store.ListTags(ctx)
	if err != nil {
		return err
	}
	ch, err := a.adminChrome(c, "categories")
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminCategories(CategoriesAdminView{
		AdminChrome: ch,
		Categories:  cats,
		Tags:        tags,
		Form:        form,
		Errors:      errs,
	}))
}

func (a *App) handleAdminCategories(c echo.Context) error {
	return a.renderCategories(c, http.StatusOK, CategoryInput{}, nil)
}

func (a *App) handleCategoryCreate(c echo.Context) error {
	in := categoryForm(c)
	if _, err := a.Store.CreateCategory(c.Request().Context(), in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderCategories(c, http.StatusUnprocessableEntity, in, errs)
		}
		return failed(c, "/admin/categories", err)
	}
	return done(c, "/admin/categories", "Category created successfully!")
}

func (a *App) renderCategoryForm(c echo.Context, code int, cat Category, form CategoryInput, errs map[string]string) error {
	ch, err := a.adminChrome(c, "categories")
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminCategoryForm(CategoryFormView{
		AdminChrome: ch,
		Category:    cat,
		Form:        form,
		Errors:      errs,
	}))
}

func (a *App) handleCategoryEdit(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	cat, err := a.Store.GetCategory(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err)
	}
	return a.renderCategoryForm(c, http.StatusOK, cat, CategoryInput{Name: cat.Name, Slug: cat.Slug}, nil)
}

func (a *App) handleCategoryUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := idParam(c)
	if err != nil {
		return err
	}
	cat, err := a.Store.GetCategory(ctx, id)
	if err != nil {
		return notFoundOr(err)
	}
	in := categoryForm(c)
	if _, err := a.Store.UpdateCategory(ctx, id, in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderCategoryForm(c, http.StatusUnprocessableEntity, cat, in, errs)
		}
		return failed(c, "/admin/categories", err)
	}
	return done(c, "/admin/categories", "Category updated successfully!")
}

func (a *App) handleCategoryDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteCategory(c.Request().Context(), id); err != nil {
		return failed(c, "/admin/categories", err)
	}
	return done(c, "/admin/categories", "Category deleted successfully!")
}

func (a *App) handleTagDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteTag(c.Request().Context(), id); err != nil {
		return failed(c, "/admin/categories", err)
	}
	return done(c, "/admin/categories", "Tag deleted successfully!")
}
