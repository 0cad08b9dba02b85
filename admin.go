package modernblog

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// adminChrome builds the frame shared by every back-office page.
func (a *App) adminChrome(c echo.Context, section string) (AdminChrome, error) {
	ctx := c.Request().Context()
	u, _ := CurrentUser(c)
	st, err := a.siteSettings(c)
	if err != nil {
		return AdminChrome{}, err
	}
	stats, err := a.Store.Stats(ctx)
	if err != nil {
		return AdminChrome{}, err
	}
	return AdminChrome{
		User:            u,
		SiteName:        st.SiteName,
		PendingComments: stats.PendingComments,
		UnreadContacts:  stats.UnreadContacts,
		Flashes:         popFlashes(c),
		CSRF:            CsrfToken(c),
		Section:         section,
	}, nil
}

// idParam parses the :id route parameter. Anything that is not a positive
// integer is a 404.
func idParam(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// done flashes msg and sends the browser back to a list.
func done(c echo.Context, to, msg string) error {
	addFlash(c, FlashSuccess, msg)
	return c.Redirect(http.StatusSeeOther, to)
}

// failed flashes the problem with a mutation and redirects. Validation,
// conflict and self-delete/demote errors become a message; anything else is
// returned to the error handler.
func failed(c echo.Context, to string, err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.ErrNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict), errors.Is(err, ErrSelfDelete), errors.Is(err, ErrSelfDemote):
		addFlash(c, FlashError, flashText(err))
		return c.Redirect(http.StatusSeeOther, to)
	}
	return err
}

func flashText(err error) string {
	switch {
	case errors.Is(err, ErrSelfDelete):
		return "You cannot delete your own account."
	case errors.Is(err, ErrSelfDemote):
		return "You cannot remove your own admin rights."
	case errors.Is(err, ErrConflict):
		return "That name or slug is already in use."
	}
	if ve, ok := asValidation(err); ok {
		return ve.Error()
	}
	return err.Error()
}

func checked(c echo.Context, name string) bool {
	return c.FormValue(name) != ""
}

func (a *App) handleLoginForm(c echo.Context) error {
	if id := sessionUserID(c); id != 0 {
		if u, err := a.Store.GetUser(c.Request().Context(), id); err == nil && u.IsAdmin {
			return c.Redirect(http.StatusSeeOther, "/admin/")
		}
	}
	return a.renderLogin(c, http.StatusOK, "")
}

func (a *App) renderLogin(c echo.Context, code int, username string) error {
	st, err := a.siteSettings(c)
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminLogin(LoginView{
		SiteName: st.SiteName,
		Username: username,
		Flashes:  popFlashes(c),
		CSRF:     CsrfToken(c),
	}))
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	username := strings.TrimSpace(c.FormValue("username"))
	u, err := a.Store.Authenticate(c.Request().Context(), username, c.FormValue("password"))
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			return err
		}
		a.loginLimiter.Record(ip)
		a.Logger.Warn("failed login", zap.String("username", username), zap.String("ip", ip))
		addFlash(c, FlashError, "Invalid credentials")
		return c.Redirect(http.StatusSeeOther, "/admin/login")
	}
	if err := setAdminSession(c, u.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/login")
}

func (a *App) handleDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	stats, err := a.Store.Stats(ctx)
	if err != nil {
		return err
	}
	recent, err := a.Store.recentAny(ctx, 5)
	if err != nil {
		return err
	}
	ch, err := a.adminChrome(c, "dashboard")
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(DashboardView{AdminChrome: ch, Stats: stats, Recent: recent}))
}

func (a *App) handleProfile(c echo.Context) error {
	return a.renderProfile(c, http.StatusOK, nil)
}

func (a *App) renderProfile(c echo.Context, code int, errs map[string]string) error {
	ch, err := a.adminChrome(c, "profile")
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminProfile(ProfileView{AdminChrome: ch, Errors: errs}))
}

func (a *App) handleProfileUpdate(c echo.Context) error {
	u, _ := CurrentUser(c)
	err := a.Store.ChangePassword(c.Request().Context(), u.ID, c.FormValue("current_password"), c.FormValue("new_password"))
	switch {
	case err == nil:
		return done(c, "/admin/profile", "Password changed successfully!")
	case errors.Is(err, ErrInvalidCredentials):
		addFlash(c, FlashError, "Current password is incorrect")
		return c.Redirect(http.StatusSeeOther, "/admin/profile")
	}
	if errs := fieldErrors(err); errs != nil {
		return a.renderProfile(c, http.StatusUnprocessableEntity, errs)
	}
	return err
}
