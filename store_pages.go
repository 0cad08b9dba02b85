package modernblog

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/eringen/modernblog/slug"
)

// PageInput is the editable part of a Page.
type PageInput struct {
	Title     string `form:"title" validate:"notblank,max=200"`
	Slug      string `form:"slug" validate:"max=200"`
	Content   string `form:"content" validate:"notblank"`
	Published bool   `form:"published"`
}

type pageRow struct {
	ID        int64  `db:"id"`
	Title     string `db:"title"`
	Slug      string `db:"slug"`
	Content   string `db:"content"`
	Published bool   `db:"published"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

func (r pageRow) toPage() Page {
	return Page{
		ID:        r.ID,
		Title:     r.Title,
		Slug:      r.Slug,
		Content:   r.Content,
		Published: r.Published,
		CreatedAt: parseTime(r.CreatedAt),
		UpdatedAt: parseTime(r.UpdatedAt),
	}
}

const pageSelect = `SELECT id, title, slug, content, published, created_at, updated_at FROM pages`

// CreatePage stores a standalone page with a unique slug.
func (s *Store) CreatePage(ctx context.Context, in PageInput) (Page, error) {
	if err := validateInput(in); err != nil {
		return Page{}, err
	}
	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		sl, err := slug.Make(ctx, in.Slug, in.Title, slugExists(tx, "pages", 0))
		if err != nil {
			return err
		}
		now := s.timestamp()
		res, err := tx.ExecContext(ctx, `INSERT INTO pages (title, slug, content, published, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			strings.TrimSpace(in.Title), sl, in.Content, in.Published, now, now)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return Page{}, storeErr("create page", err)
	}
	return s.GetPage(ctx, id)
}

// UpdatePage replaces the editable fields of page id.
func (s *Store) UpdatePage(ctx context.Context, id int64, in PageInput) (Page, error) {
	if err := validateInput(in); err != nil {
		return Page{}, err
	}
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var cur pageRow
		if err := tx.GetContext(ctx, &cur, pageSelect+` WHERE id = ?`, id); err != nil {
			return err
		}
		title := strings.TrimSpace(in.Title)
		sl, err := reslug(ctx, cur.Slug, cur.Title, in.Slug, title, slugExists(tx, "pages", id))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE pages SET title = ?, slug = ?, content = ?, published = ?, updated_at = ? WHERE id = ?`,
			title, sl, in.Content, in.Published, s.timestamp(), id)
		return err
	})
	if err != nil {
		return Page{}, storeErr("update page", err)
	}
	return s.GetPage(ctx, id)
}

// DeletePage removes a page.
func (s *Store) DeletePage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
	if err == nil {
		err = requireAffected(res)
	}
	return storeErr("delete page", err)
}

// GetPage returns a page by id regardless of published status.
func (s *Store) GetPage(ctx context.Context, id int64) (Page, error) {
	var row pageRow
	if err := s.db.GetContext(ctx, &row, pageSelect+` WHERE id = ?`, id); err != nil {
		return Page{}, storeErr("get page", err)
	}
	return row.toPage(), nil
}

// GetPublishedPageBySlug returns a published page.
func (s *Store) GetPublishedPageBySlug(ctx context.Context, sl string) (Page, error) {
	var row pageRow
	if err := s.db.GetContext(ctx, &row, pageSelect+` WHERE slug = ? AND published = 1`, sl); err != nil {
		return Page{}, storeErr("get page by slug", err)
	}
	return row.toPage(), nil
}

// ListPages returns all pages, newest first.
func (s *Store) ListPages(ctx context.Context) ([]Page, error) {
	return s.selectPages(ctx, "list pages", pageSelect+` ORDER BY created_at DESC, id DESC`)
}

// ListPublishedPages returns the published pages by title, for navigation
// and the sitemap.
func (s *Store) ListPublishedPages(ctx context.Context) ([]Page, error) {
	return s.selectPages(ctx, "list published pages", pageSelect+` WHERE published = 1 ORDER BY title, id`)
}

func (s *Store) selectPages(ctx context.Context, op, query string) ([]Page, error) {
	var rows []pageRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, storeErr(op, err)
	}
	out := make([]Page, len(rows))
	for i, r := range rows {
		out[i] = r.toPage()
	}
	return out, nil
}
