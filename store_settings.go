package modernblog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Setting keys.
const (
	SettingSiteName     = "site_name"
	SettingLogo         = "logo"
	SettingTrackingCode = "tracking_code"
	SettingAdsHeader    = "ads_header"
	SettingAdsContent   = "ads_content"
	SettingAdsSidebar   = "ads_sidebar"
	SettingAdsFooter    = "ads_footer"
	SettingAIAPIKey     = "ai_api_key"
)

// DefaultSiteName is used until an admin sets one.
const DefaultSiteName = "ModernBlog"

// SiteSettings is the runtime-editable site configuration. Snippet fields
// hold trusted HTML entered by an admin.
type SiteSettings struct {
	SiteName     string
	Logo         string // filename under the upload dir
	TrackingCode string
	AdsHeader    string
	AdsContent   string
	AdsSidebar   string
	AdsFooter    string
	AIAPIKey     string
}

// LogoURL returns the public path of the logo, or "" when unset.
func (st SiteSettings) LogoURL() string {
	if st.Logo == "" {
		return ""
	}
	return "/uploads/" + st.Logo
}

func (st SiteSettings) values() map[string]string {
	return map[string]string{
		SettingSiteName:     st.SiteName,
		SettingLogo:         st.Logo,
		SettingTrackingCode: st.TrackingCode,
		SettingAdsHeader:    st.AdsHeader,
		SettingAdsContent:   st.AdsContent,
		SettingAdsSidebar:   st.AdsSidebar,
		SettingAdsFooter:    st.AdsFooter,
		SettingAIAPIKey:     st.AIAPIKey,
	}
}

// GetSetting returns the stored value of key, or def when it was never set.
func (s *Store) GetSetting(ctx context.Context, key, def string) (string, error) {
	var v string
	err := s.db.GetContext(ctx, &v, `SELECT value FROM settings WHERE "key" = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", storeErr("get setting", err)
	}
	return v, nil
}

const upsertSetting = `INSERT INTO settings ("key", value) VALUES (?, ?)
	ON CONFLICT("key") DO UPDATE SET value = excluded.value`

// SetSetting creates or replaces a setting.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, upsertSetting, key, value)
	return storeErr("set setting", err)
}

type settingRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// LoadSiteSettings reads every setting in one query and fills defaults.
func (s *Store) LoadSiteSettings(ctx context.Context) (SiteSettings, error) {
	var rows []settingRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT "key", value FROM settings`); err != nil {
		return SiteSettings{}, storeErr("load settings", err)
	}
	st := SiteSettings{SiteName: DefaultSiteName}
	known := map[string]*string{
		SettingSiteName:     &st.SiteName,
		SettingLogo:         &st.Logo,
		SettingTrackingCode: &st.TrackingCode,
		SettingAdsHeader:    &st.AdsHeader,
		SettingAdsContent:   &st.AdsContent,
		SettingAdsSidebar:   &st.AdsSidebar,
		SettingAdsFooter:    &st.AdsFooter,
		SettingAIAPIKey:     &st.AIAPIKey,
	}
	for _, r := range rows {
		if dst, ok := known[r.Key]; ok {
			*dst = r.Value
		}
	}
	if st.SiteName == "" {
		st.SiteName = DefaultSiteName
	}
	return st, nil
}

// SaveSiteSettings upserts all fields in one transaction. An empty Logo
// leaves the stored logo untouched.
func (s *Store) SaveSiteSettings(ctx context.Context, st SiteSettings) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for key, value := range st.values() {
			if key == SettingLogo && value == "" {
				continue
			}
			if _, err := tx.ExecContext(ctx, upsertSetting, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr("save settings", err)
}

// seedSettings inserts defaults without overwriting existing values.
func (s *Store) seedSettings(ctx context.Context, defaults map[string]string) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for key, value := range defaults {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO settings ("key", value) VALUES (?, ?)`, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr("seed settings", err)
}

// Stats returns the dashboard counters.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.GetContext(ctx, &st, `SELECT
		(SELECT COUNT(*) FROM posts) AS posts,
		(SELECT COUNT(*) FROM posts WHERE published = 1) AS published,
		(SELECT COUNT(*) FROM categories) AS categories,
		(SELECT COUNT(*) FROM tags) AS tags,
		(SELECT COUNT(*) FROM comments WHERE approved = 0) AS pending_comments,
		(SELECT COUNT(*) FROM contacts WHERE is_read = 0) AS unread_contacts`)
	return st, storeErr("stats", err)
}
