package modernblog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "http://localhost:3000", cfg.Site.URL)
	assert.Equal(t, "data/blog.db", cfg.Database.Path)
	assert.Equal(t, 6, cfg.Content.PageSize)
	assert.Equal(t, "contact", cfg.Content.ContactPageSlug)
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout)
	assert.Error(t, cfg.Validate(), "session secret has no default")
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("MODERNBLOG_SERVER_SESSION_SECRET", "s3cret")
	t.Setenv("MODERNBLOG_SITE_URL", "https://blog.example.com/")
	t.Setenv("MODERNBLOG_CONTENT_PAGE_SIZE", "12")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Server.SessionSecret)
	assert.Equal(t, "https://blog.example.com", cfg.Site.URL)
	assert.Equal(t, 12, cfg.Content.PageSize)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modernblog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":8080"
  session_secret: from-file
site:
  author: Ann
ai:
  provider: anthropic
  timeout: 5s
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "from-file", cfg.Server.SessionSecret)
	assert.Equal(t, "Ann", cfg.Site.Author)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, 5*time.Second, cfg.AI.Timeout)
	assert.Equal(t, "data/uploads", cfg.Uploads.Dir)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestSetDefaultsOnZeroConfig(t *testing.T) {
	var cfg Config
	cfg.Site.URL = "https://example.com///"
	cfg.setDefaults()
	assert.Equal(t, "https://example.com", cfg.Site.URL)
	assert.Equal(t, 20, cfg.Content.FeedSize)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.Equal(t, int64(16<<20), cfg.Uploads.MaxBytes)
}
