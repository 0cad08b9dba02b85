package modernblog

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/eringen/modernblog/assistant"
)

// Config holds the static configuration of a modernblog site. Values that can
// change at runtime (site name, snippets, AI key) live in the settings table.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Site     SiteConfig     `mapstructure:"site"`
	Database DatabaseConfig `mapstructure:"database"`
	Uploads  UploadsConfig  `mapstructure:"uploads"`
	Admin    AdminSeed      `mapstructure:"admin"`
	AI       AIConfig       `mapstructure:"ai"`
	Content  ContentConfig  `mapstructure:"content"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig controls the HTTP listener, cookies and shutdown.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	SessionSecret   string        `mapstructure:"session_secret"`
	CookieSecure    bool          `mapstructure:"cookie_secure"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SiteConfig describes the public identity used in feeds, sitemaps and JSON-LD.
type SiteConfig struct {
	URL         string `mapstructure:"url"`
	Description string `mapstructure:"description"`
	Author      string `mapstructure:"author"`
}

// DatabaseConfig locates the SQLite file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// UploadsConfig sets where uploads go and how large they may be.
type UploadsConfig struct {
	Dir      string `mapstructure:"dir"`
	MaxBytes int64  `mapstructure:"max_bytes"`
	MaxWidth int    `mapstructure:"max_width"`
}

// AdminSeed is the account EnsureAdmin creates when no admin exists.
type AdminSeed struct {
	Username string `mapstructure:"username"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// AIConfig selects the draft provider. The API key is a site setting.
type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Model    string        `mapstructure:"model"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ContentConfig tunes listings, the feed and the contact page.
type ContentConfig struct {
	PageSize        int    `mapstructure:"page_size"`
	ContactPageSlug string `mapstructure:"contact_page_slug"`
	FeedSize        int    `mapstructure:"feed_size"`
}

// LogConfig is passed to NewLogger.
type LogConfig struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

// LoadConfig reads configuration from path (optional) and MODERNBLOG_*
// environment variables, e.g. MODERNBLOG_SERVER_SESSION_SECRET.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MODERNBLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.session_secret", "")
	v.SetDefault("server.cookie_secure", false)
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("site.url", "http://localhost:3000")
	v.SetDefault("site.description", "")
	v.SetDefault("site.author", "")
	v.SetDefault("database.path", "data/blog.db")
	v.SetDefault("uploads.dir", "data/uploads")
	v.SetDefault("uploads.max_bytes", 16<<20)
	v.SetDefault("uploads.max_width", 1600)
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.email", "admin@example.com")
	v.SetDefault("admin.password", "")
	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.model", "")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("ai.timeout", "60s")
	v.SetDefault("content.page_size", 6)
	v.SetDefault("content.contact_page_slug", "contact")
	v.SetDefault("content.feed_size", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "console")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.setDefaults()
	return cfg, nil
}

// Validate reports configuration that would make the server unsafe to run.
func (c Config) Validate() error {
	if c.Server.SessionSecret == "" {
		return errors.New("modernblog: server.session_secret is required")
	}
	return nil
}

// setDefaults fills zero values so programmatically built configs work too.
func (c *Config) setDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Site.URL == "" {
		c.Site.URL = "http://localhost:3000"
	}
	c.Site.URL = strings.TrimRight(c.Site.URL, "/")
	if c.Database.Path == "" {
		c.Database.Path = "data/blog.db"
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "data/uploads"
	}
	if c.Uploads.MaxBytes <= 0 {
		c.Uploads.MaxBytes = 16 << 20
	}
	if c.Uploads.MaxWidth <= 0 {
		c.Uploads.MaxWidth = 1600
	}
	if c.Admin.Username == "" {
		c.Admin.Username = "admin"
	}
	if c.Admin.Email == "" {
		c.Admin.Email = "admin@example.com"
	}
	if c.AI.Timeout == 0 {
		c.AI.Timeout = 60 * time.Second
	}
	if c.Content.PageSize <= 0 {
		c.Content.PageSize = 6
	}
	if c.Content.ContactPageSlug == "" {
		c.Content.ContactPageSlug = "contact"
	}
	if c.Content.FeedSize <= 0 {
		c.Content.FeedSize = 20
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Encoding == "" {
		c.Log.Encoding = "console"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback runs after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithLogger replaces the logger built from Config.Log.
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithProvider replaces the AI provider selected by Config.AI.
func WithProvider(p assistant.Provider) Option {
	return func(a *App) {
		a.provider = p
	}
}

// WithStore reuses an already opened store instead of opening Config.Database.Path.
func WithStore(s *Store) Option {
	return func(a *App) {
		a.Store = s
	}
}
