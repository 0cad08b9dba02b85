package modernblog

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/eringen/modernblog/slug"
)

// CategoryInput is the editable part of a Category.
type CategoryInput struct {
	Name string `form:"name" validate:"notblank,max=100"`
	Slug string `form:"slug" validate:"max=100"`
}

type categoryRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Slug      string `db:"slug"`
	CreatedAt string `db:"created_at"`
	PostCount int    `db:"post_count"`
}

func (r categoryRow) toCategory() Category {
	return Category{ID: r.ID, Name: r.Name, Slug: r.Slug, CreatedAt: parseTime(r.CreatedAt), PostCount: r.PostCount}
}

// CreateCategory stores a category. Names must be unique.
func (s *Store) CreateCategory(ctx context.Context, in CategoryInput) (Category, error) {
	if err := validateInput(in); err != nil {
		return Category{}, err
	}
	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		sl, err := slug.Make(ctx, in.Slug, in.Name, slugExists(tx, "categories", 0))
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `INSERT INTO categories (name, slug, created_at) VALUES (?, ?, ?)`,
			strings.TrimSpace(in.Name), sl, s.timestamp())
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return Category{}, storeErr("create category", err)
	}
	return s.GetCategory(ctx, id)
}

// UpdateCategory renames a category, following the same slug rule as posts.
func (s *Store) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (Category, error) {
	if err := validateInput(in); err != nil {
		return Category{}, err
	}
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var cur categoryRow
		if err := tx.GetContext(ctx, &cur, `SELECT id, name, slug, created_at FROM categories WHERE id = ?`, id); err != nil {
			return err
		}
		name := strings.TrimSpace(in.Name)
		sl, err := reslug(ctx, cur.Slug, cur.Name, in.Slug, name, slugExists(tx, "categories", id))
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `UPDATE categories SET name = ?, slug = ? WHERE id = ?`, name, sl, id)
		return err
	})
	if err != nil {
		return Category{}, storeErr("update category", err)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory removes a category. Its posts become uncategorized.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET category_id = NULL WHERE category_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	return storeErr("delete category", err)
}

const categorySelect = `SELECT c.id, c.name, c.slug, c.created_at,
	(SELECT COUNT(*) FROM posts p WHERE p.category_id = c.id AND p.published = 1) AS post_count
FROM categories c`

// GetCategory returns a category by id.
func (s *Store) GetCategory(ctx context.Context, id int64) (Category, error) {
	var row categoryRow
	if err := s.db.GetContext(ctx, &row, categorySelect+` WHERE c.id = ?`, id); err != nil {
		return Category{}, storeErr("get category", err)
	}
	return row.toCategory(), nil
}

// GetCategoryBySlug returns a category by slug.
func (s *Store) GetCategoryBySlug(ctx context.Context, sl string) (Category, error) {
	var row categoryRow
	if err := s.db.GetContext(ctx, &row, categorySelect+` WHERE c.slug = ?`, sl); err != nil {
		return Category{}, storeErr("get category by slug", err)
	}
	return row.toCategory(), nil
}

// ListCategories returns all categories by name with published post counts.
func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	var rows []categoryRow
	if err := s.db.SelectContext(ctx, &rows, categorySelect+` ORDER BY c.name`); err != nil {
		return nil, storeErr("list categories", err)
	}
	out := make([]Category, len(rows))
	for i, r := range rows {
		out[i] = r.toCategory()
	}
	return out, nil
}

// findOrCreateCategory is used by the importer to resolve a category by name.
func (s *Store) findOrCreateCategory(ctx context.Context, name string) (Category, error) {
	name = strings.TrimSpace(name)
	var row categoryRow
	err := s.db.GetContext(ctx, &row, categorySelect+` WHERE c.name = ?`, name)
	if err == nil {
		return row.toCategory(), nil
	}
	if mapped := storeErr("find category", err); !isNotFound(mapped) {
		return Category{}, mapped
	}
	return s.CreateCategory(ctx, CategoryInput{Name: name})
}

type tagRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Slug      string `db:"slug"`
	PostCount int    `db:"post_count"`
}

func (r tagRow) toTag() Tag {
	return Tag{ID: r.ID, Name: r.Name, Slug: r.Slug, PostCount: r.PostCount}
}

const tagSelect = `SELECT t.id, t.name, t.slug,
	(SELECT COUNT(*) FROM post_tags pt JOIN posts p ON p.id = pt.post_id
	 WHERE pt.tag_id = t.id AND p.published = 1) AS post_count
FROM tags t`

// GetTagBySlug returns a tag by slug.
func (s *Store) GetTagBySlug(ctx context.Context, sl string) (Tag, error) {
	var row tagRow
	if err := s.db.GetContext(ctx, &row, tagSelect+` WHERE t.slug = ?`, sl); err != nil {
		return Tag{}, storeErr("get tag by slug", err)
	}
	return row.toTag(), nil
}

// ListTags returns all tags by name with published post counts.
func (s *Store) ListTags(ctx context.Context) ([]Tag, error) {
	var rows []tagRow
	if err := s.db.SelectContext(ctx, &rows, tagSelect+` ORDER BY t.name`); err != nil {
		return nil, storeErr("list tags", err)
	}
	out := make([]Tag, len(rows))
	for i, r := range rows {
		out[i] = r.toTag()
	}
	return out, nil
}

// DeleteTag removes a tag and its links. Posts are kept.
func (s *Store) DeleteTag(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE tag_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	return storeErr("delete tag", err)
}

// SetPostTags replaces the tag set of a post from a comma-separated list,
// creating any missing tags.
func (s *Store) SetPostTags(ctx context.Context, postID int64, raw string) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts WHERE id = ?`, postID); err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}
		return setPostTags(ctx, tx, postID, raw)
	})
	return storeErr("set post tags", err)
}

func setPostTags(ctx context.Context, tx *sqlx.Tx, postID int64, raw string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, postID); err != nil {
		return err
	}
	for _, name := range ParseTagNames(raw) {
		id, err := ensureTag(ctx, tx, name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO post_tags (post_id, tag_id) VALUES (?, ?)`, postID, id); err != nil {
			return err
		}
	}
	return nil
}

func ensureTag(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	var ids []int64
	if err := tx.SelectContext(ctx, &ids, `SELECT id FROM tags WHERE name = ?`, name); err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		return ids[0], nil
	}
	sl, err := slug.Unique(ctx, slug.Normalize(name), slugExists(tx, "tags", 0))
	if err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO tags (name, slug) VALUES (?, ?)`, name, sl)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
