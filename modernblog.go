// Package modernblog is a single-tenant blogging platform built with Go,
// Echo and templ. It serves public pages for posts, categories, tags, pages
// and search, and an admin back office with comment moderation, a contact
// inbox, users, menu, settings, uploads and AI-assisted drafts.
//
// Sites provide templates via the ViewFuncs struct; the views package holds
// the default theme. modernblog handles the handler logic, middleware and
// database operations.
package modernblog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/modernblog/assistant"
)

// App is the central application. It wires together the store, media
// store, assistant, handlers, middleware and site-provided templates.
type App struct {
	Config    Config
	Echo      *echo.Echo
	Store     *Store
	Media     *MediaStore
	Views     ViewFuncs
	Logger    *zap.Logger
	Assistant *assistant.Assistant

	provider     assistant.Provider
	loginLimiter *LoginLimiter
	customRoutes []func(*App)
	ownStore     bool
	ready        bool
}

// New creates an App with the given configuration and view functions.
func New(cfg Config, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}
	a.Echo.HideBanner = true
	a.Echo.HidePort = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the store, provisions the admin account and registers
// middleware and routes. Start calls it; tests call it directly and use
// Echo as an http.Handler.
func (a *App) Init(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if a.Logger == nil {
		l, err := NewLogger(a.Config.Log)
		if err != nil {
			return fmt.Errorf("modernblog: init logger: %w", err)
		}
		a.Logger = l
	}

	if a.Store == nil {
		store, err := NewStore(a.Config.Database.Path)
		if err != nil {
			return fmt.Errorf("modernblog: init store: %w", err)
		}
		a.Store = store
		a.ownStore = true
	}
	a.Store.SetPageSize(a.Config.Content.PageSize)

	created, err := a.Store.EnsureAdmin(ctx, a.Config.Admin)
	if err != nil {
		return fmt.Errorf("modernblog: %w", err)
	}
	if created {
		a.Logger.Info("created admin user", zap.String("username", a.Config.Admin.Username))
	}

	if a.provider == nil {
		p, err := assistant.NewProvider(a.Config.AI.Provider, a.Config.AI.Model, a.Config.AI.BaseURL)
		if err != nil {
			return fmt.Errorf("modernblog: %w", err)
		}
		a.provider = p
	}
	a.Assistant = assistant.New(a.provider, a.Config.AI.Timeout)
	a.Media = NewMediaStore(a.Config.Uploads.Dir, a.Config.Uploads.MaxWidth)
	a.loginLimiter = NewLoginLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start initializes the app and serves HTTP until Shutdown is called.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	a.Logger.Info("listening", zap.String("addr", a.Config.Server.Addr))
	if err := a.Echo.Start(a.Config.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/uploads", a.Config.Uploads.Dir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	e.GET("/", a.handleHome)
	e.GET("/post/:slug", a.handlePost)
	e.POST("/post/:slug", a.handleComment)
	e.GET("/category/:slug", a.handleCategory)
	e.GET("/tag/:slug", a.handleTag)
	e.GET("/search", a.handleSearch)
	e.GET("/page/:slug", a.handlePage)
	e.POST("/page/:slug", a.handleContact)
	e.GET("/categories", a.handleCategories)

	e.GET("/admin/login", a.handleLoginForm)
	e.POST("/admin/login", a.handleLogin)
	e.POST("/admin/logout", a.handleLogout)

	g := e.Group("/admin", a.requireAdmin)
	g.GET("", a.handleDashboard)
	g.GET("/", a.handleDashboard)

	g.GET("/posts", a.handleAdminPosts)
	g.GET("/posts/new", a.handlePostNew)
	g.POST("/posts/new", a.handlePostCreate)
	g.GET("/posts/:id/edit", a.handlePostEdit)
	g.POST("/posts/:id/edit", a.handlePostUpdate)
	g.POST("/posts/:id/delete", a.handlePostDelete)

	g.GET("/categories", a.handleAdminCategories)
	g.POST("/categories/new", a.handleCategoryCreate)
	g.GET("/categories/:id/edit", a.handleCategoryEdit)
	g.POST("/categories/:id/edit", a.handleCategoryUpdate)
	g.POST("/categories/:id/delete", a.handleCategoryDelete)
	g.POST("/tags/:id/delete", a.handleTagDelete)

	g.GET("/comments", a.handleAdminComments)
	g.POST("/comments/:id/approve", a.handleCommentApprove)
	g.POST("/comments/:id/delete", a.handleCommentDelete)

	g.GET("/pages", a.handleAdminPages)
	g.GET("/pages/new", a.handlePageNew)
	g.POST("/pages/new", a.handlePageCreate)
	g.GET("/pages/:id/edit", a.handlePageEdit)
	g.POST("/pages/:id/edit", a.handlePageUpdate)
	g.POST("/pages/:id/delete", a.handlePageDelete)

	g.GET("/contacts", a.handleAdminContacts)
	g.POST("/contacts/:id/read", a.handleContactRead)
	g.POST("/contacts/:id/delete", a.handleContactDelete)

	g.GET("/users", a.handleAdminUsers)
	g.GET("/users/new", a.handleUserNew)
	g.POST("/users/new", a.handleUserCreate)
	g.GET("/users/:id/edit", a.handleUserEdit)
	g.POST("/users/:id/edit", a.handleUserUpdate)
	g.POST("/users/:id/delete", a.handleUserDelete)

	g.GET("/profile", a.handleProfile)
	g.POST("/profile", a.handleProfileUpdate)

	g.GET("/menu", a.handleAdminMenu)
	g.GET("/menu/new", a.handleMenuNew)
	g.POST("/menu/new", a.handleMenuCreate)
	g.GET("/menu/:id/edit", a.handleMenuEdit)
	g.POST("/menu/:id/edit", a.handleMenuUpdate)
	g.POST("/menu/:id/delete", a.handleMenuDelete)
	g.POST("/menu/reorder", a.handleMenuReorder)

	g.GET("/settings", a.handleSettings)
	g.POST("/settings", a.handleSettingsUpdate)
	g.POST("/upload", a.handleUpload)
	g.POST("/generate-blog", a.handleGenerate)
}

// Close releases the store (when the app opened it) and the login limiter.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.Store != nil && a.ownStore {
		return a.Store.Close()
	}
	return nil
}
