package modernblog

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/modernblog/assistant"
)

func (a *App) renderSettings(c echo.Context, code int, st SiteSettings, errs map[string]string) error {
	ch, err := a.adminChrome(c, "settings")
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminSettings(SettingsView{AdminChrome: ch, Settings: st, Errors: errs}))
}

func (a *App) handleSettings(c echo.Context) error {
	st, err := a.siteSettings(c)
	if err != nil {
		return err
	}
	return a.renderSettings(c, http.StatusOK, st, nil)
}

func (a *App) handleSettingsUpdate(c echo.Context) error {
	current, err := a.siteSettings(c)
	if err != nil {
		return err
	}
	st := SiteSettings{
		SiteName:     strings.TrimSpace(c.FormValue("site_name")),
		TrackingCode: c.FormValue("tracking_code"),
		AdsHeader:    c.FormValue("ads_header"),
		AdsContent:   c.FormValue("ads_content"),
		AdsSidebar:   c.FormValue("ads_sidebar"),
		AdsFooter:    c.FormValue("ads_footer"),
		AIAPIKey:     strings.TrimSpace(c.FormValue("ai_api_key")),
	}
	logo, err := saveUpload(c, "logo", func(r io.Reader, filename string) (string, error) {
		return a.Media.SaveAs(r, filename, "logo", LogoExtensions)
	})
	if err != nil {
		if errs := fieldErrors(err); errs != nil {
			st.Logo = current.Logo
			return a.renderSettings(c, http.StatusUnprocessableEntity, st, errs)
		}
		return err
	}
	st.Logo = logo
	if err := a.Store.SaveSiteSettings(c.Request().Context(), st); err != nil {
		return err
	}
	return done(c, "/admin/settings", "Settings saved successfully!")
}

// handleUpload stores an image for use inside post content.
func (a *App) handleUpload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil || fh.Filename == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no file uploaded"})
	}
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()
	name, err := a.Media.Save(src, fh.Filename, ImageExtensions)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFile) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "file type not allowed"})
		}
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"url": "/uploads/" + name})
}

type generateRequest struct {
	Topic string `json:"topic" form:"topic"`
}

// handleGenerate drafts a post about the requested topic with the
// configured AI provider and the API key from site settings.
func (a *App) handleGenerate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	st, err := a.siteSettings(c)
	if err != nil {
		return err
	}
	draft, err := a.Assistant.Draft(c.Request().Context(), st.AIAPIKey, req.Topic)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, draft)
	case errors.Is(err, assistant.ErrNotConfigured):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "AI API key is not configured"})
	case errors.Is(err, assistant.ErrEmptyTopic):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "topic is required"})
	}
	var pe *assistant.ProviderError
	if errors.As(err, &pe) {
		a.Logger.Warn("draft generation failed", zap.String("part", pe.Part), zap.Error(pe.Err))
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to generate draft: " + pe.Err.Error()})
	}
	return err
}
