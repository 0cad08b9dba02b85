package modernblog

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

func userForm(c echo.Context) UserInput {
	return UserInput{
		Username: strings.TrimSpace(c.FormValue("username")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: c.FormValue("password"),
		IsAdmin:  checked(c, "is_admin"),
	}
}

func (a *App) handleAdminUsers(c echo.Context) error {
	users, err := a.Store.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	ch, err := a.adminChrome(c, "users")
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminUsers(UserListView{AdminChrome: ch, Users: users}))
}

func (a *App) renderUserForm(c echo.Context, code int, edited *User, form UserInput, errs map[string]string) error {
	ch, err := a.adminChrome(c, "users")
	if err != nil {
		return err
	}
	form.Password = ""
	return RenderStatus(c, code, a.Views.AdminUserForm(UserFormView{
		AdminChrome: ch,
		Edited:      edited,
		Form:        form,
		Errors:      errs,
	}))
}

func (a *App) handleUserNew(c echo.Context) error {
	return a.renderUserForm(c, http.StatusOK, nil, UserInput{IsAdmin: true}, nil)
}

func (a *App) handleUserCreate(c echo.Context) error {
	in := userForm(c)
	if _, err := a.Store.CreateUser(c.Request().Context(), in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderUserForm(c, http.StatusUnprocessableEntity, nil, in, errs)
		}
		return failed(c, "/admin/users", err)
	}
	return done(c, "/admin/users", "User created successfully!")
}

func (a *App) handleUserEdit(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	u, err := a.Store.GetUser(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err)
	}
	return a.renderUserForm(c, http.StatusOK, &u, UserInput{Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin}, nil)
}

func (a *App) handleUserUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := idParam(c)
	if err != nil {
		return err
	}
	u, err := a.Store.GetUser(ctx, id)
	if err != nil {
		return notFoundOr(err)
	}
	in := userForm(c)
	me, _ := CurrentUser(c)
	if _, err := a.Store.UpdateUser(ctx, id, me.ID, in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderUserForm(c, http.StatusUnprocessableEntity, &u, in, errs)
		}
		return failed(c, "/admin/users", err)
	}
	return done(c, "/admin/users", "User updated successfully!")
}

func (a *App) handleUserDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	me, _ := CurrentUser(c)
	if err := a.Store.DeleteUser(c.Request().Context(), id, me.ID); err != nil {
		return failed(c, "/admin/users", err)
	}
	return done(c, "/admin/users", "User deleted successfully!")
}
