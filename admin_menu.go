package modernblog

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func menuForm(c echo.Context) MenuItemInput {
	order, _ := strconv.Atoi(strings.TrimSpace(c.FormValue("order")))
	return MenuItemInput{
		Title:  strings.TrimSpace(c.FormValue("title")),
		URL:    strings.TrimSpace(c.FormValue("url")),
		Order:  order,
		Active: checked(c, "active"),
	}
}

func (a *App) handleAdminMenu(c echo.Context) error {
	items, err := a.Store.ListMenuItems(c.Request().Context())
	if err != nil {
		return err
	}
	ch, err := a.adminChrome(c, "menu")
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminMenu(MenuListView{AdminChrome: ch, Items: items}))
}

func (a *App) renderMenuForm(c echo.Context, code int, item *MenuItem, form MenuItemInput, errs map[string]string) error {
	ch, err := a.adminChrome(c, "menu")
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminMenuForm(MenuFormView{
		AdminChrome: ch,
		Item:        item,
		Form:        form,
		Errors:      errs,
	}))
}

func (a *App) handleMenuNew(c echo.Context) error {
	return a.renderMenuForm(c, http.StatusOK, nil, MenuItemInput{Active: true}, nil)
}

func (a *App) handleMenuCreate(c echo.Context) error {
	in := menuForm(c)
	if _, err := a.Store.CreateMenuItem(c.Request().Context(), in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderMenuForm(c, http.StatusUnprocessableEntity, nil, in, errs)
		}
		return failed(c, "/admin/menu", err)
	}
	return done(c, "/admin/menu", "Menu item created successfully!")
}

func (a *App) handleMenuEdit(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	item, err := a.Store.GetMenuItem(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err)
	}
	form := MenuItemInput{Title: item.Title, URL: item.URL, Order: item.Order, Active: item.Active}
	return a.renderMenuForm(c, http.StatusOK, &item, form, nil)
}

func (a *App) handleMenuUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := idParam(c)
	if err != nil {
		return err
	}
	item, err := a.Store.GetMenuItem(ctx, id)
	if err != nil {
		return notFoundOr(err)
	}
	in := menuForm(c)
	if _, err := a.Store.UpdateMenuItem(ctx, id, in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderMenuForm(c, http.StatusUnprocessableEntity, &item, in, errs)
		}
		return failed(c, "/admin/menu", err)
	}
	return done(c, "/admin/menu", "Menu item updated successfully!")
}

func (a *App) handleMenuDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteMenuItem(c.Request().Context(), id); err != nil {
		return failed(c, "/admin/menu", err)
	}
	return done(c, "/admin/menu", "Menu item deleted successfully!")
}

// handleMenuReorder takes ids=3,1,2 and numbers the items in that order.
func (a *App) handleMenuReorder(c echo.Context) error {
	ids, err := parseIDList(c.FormValue("ids"))
	if err != nil {
		return failed(c, "/admin/menu", err)
	}
	if err := a.Store.ReorderMenuItems(c.Request().Context(), ids); err != nil {
		// An unknown id in the list is a bad request here, not a missing page.
		if isNotFound(err) {
			return failed(c, "/admin/menu", invalid("ids", "contains an unknown menu item"))
		}
		return failed(c, "/admin/menu", err)
	}
	return done(c, "/admin/menu", "Menu order saved!")
}
