package modernblog

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/eringen/modernblog/slug"
)

// PostInput is the editable part of a Post.
type PostInput struct {
	Title      string `form:"title" validate:"notblank,max=200"`
	Slug       string `form:"slug" validate:"max=200"`
	Content    string `form:"content" validate:"notblank"`
	Excerpt    string `form:"excerpt" validate:"max=1000"`
	CoverImage string `form:"-"` // filename under the upload dir; empty keeps the current one on update
	CategoryID int64  `form:"category_id" validate:"min=0"`
	Tags       string `form:"tags"` // comma separated
	Published  bool   `form:"published"`
}

type postRow struct {
	ID           int64          `db:"id"`
	Title        string         `db:"title"`
	Slug         string         `db:"slug"`
	Content      string         `db:"content"`
	Excerpt      string         `db:"excerpt"`
	CoverImage   string         `db:"cover_image"`
	CreatedAt    string         `db:"created_at"`
	UpdatedAt    string         `db:"updated_at"`
	Published    bool           `db:"published"`
	CategoryID   sql.NullInt64  `db:"category_id"`
	CategoryName sql.NullString `db:"category_name"`
	CategorySlug sql.NullString `db:"category_slug"`
}

func (r postRow) toPost() Post {
	p := Post{
		ID:         r.ID,
		Title:      r.Title,
		Slug:       r.Slug,
		Content:    r.Content,
		Excerpt:    r.Excerpt,
		CoverImage: r.CoverImage,
		CreatedAt:  parseTime(r.CreatedAt),
		UpdatedAt:  parseTime(r.UpdatedAt),
		Published:  r.Published,
	}
	if r.CategoryID.Valid {
		p.CategoryID = r.CategoryID.Int64
		p.Category = &Category{ID: r.CategoryID.Int64, Name: r.CategoryName.String, Slug: r.CategorySlug.String}
	}
	return p
}

const postSelect = `SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.cover_image,
	p.created_at, p.updated_at, p.published, p.category_id,
	c.name AS category_name, c.slug AS category_slug
FROM posts p LEFT JOIN categories c ON c.id = p.category_id`

const newestFirst = ` ORDER BY p.created_at DESC, p.id DESC`

func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id > 0}
}

// CreatePost stores a new post with a unique slug derived from in.Slug or
// in.Title, and attaches its tags.
func (s *Store) CreatePost(ctx context.Context, in PostInput) (Post, error) {
	if err := validateInput(in); err != nil {
		return Post{}, err
	}
	var id int64
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := checkCategory(ctx, tx, in.CategoryID); err != nil {
			return err
		}
		sl, err := slug.Make(ctx, in.Slug, in.Title, slugExists(tx, "posts", 0))
		if err != nil {
			return err
		}
		now := s.timestamp()
		res, err := tx.ExecContext(ctx, `INSERT INTO posts (title, slug, content, excerpt, cover_image, created_at, updated_at, published, category_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			strings.TrimSpace(in.Title), sl, in.Content, strings.TrimSpace(in.Excerpt), in.CoverImage, now, now, in.Published, nullableID(in.CategoryID))
		if err != nil {
			return err
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		return setPostTags(ctx, tx, id, in.Tags)
	})
	if err != nil {
		return Post{}, storeErr("create post", err)
	}
	return s.GetPost(ctx, id)
}

// UpdatePost replaces the editable fields of post id. The slug is derived
// again only when the title changed or a different explicit slug was given.
func (s *Store) UpdatePost(ctx context.Context, id int64, in PostInput) (Post, error) {
	if err := validateInput(in); err != nil {
		return Post{}, err
	}
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		var cur postRow
		if err := tx.GetContext(ctx, &cur, `SELECT id, title, slug, cover_image FROM posts WHERE id = ?`, id); err != nil {
			return err
		}
		if err := checkCategory(ctx, tx, in.CategoryID); err != nil {
			return err
		}
		title := strings.TrimSpace(in.Title)
		sl, err := reslug(ctx, cur.Slug, cur.Title, in.Slug, title, slugExists(tx, "posts", id))
		if err != nil {
			return err
		}
		cover := cur.CoverImage
		if in.CoverImage != "" {
			cover = in.CoverImage
		}
		if _, err := tx.ExecContext(ctx, `UPDATE posts SET title = ?, slug = ?, content = ?, excerpt = ?, cover_image = ?,
			updated_at = ?, published = ?, category_id = ? WHERE id = ?`,
			title, sl, in.Content, strings.TrimSpace(in.Excerpt), cover, s.timestamp(), in.Published, nullableID(in.CategoryID), id); err != nil {
			return err
		}
		return setPostTags(ctx, tx, id, in.Tags)
	})
	if err != nil {
		return Post{}, storeErr("update post", err)
	}
	return s.GetPost(ctx, id)
}

// reslug decides the slug of an edited entity.
func reslug(ctx context.Context, curSlug, curTitle, override, title string, exists slug.ExistsFunc) (string, error) {
	if strings.TrimSpace(override) != "" {
		want := slug.Normalize(override)
		if want == curSlug {
			return curSlug, nil
		}
		return slug.Unique(ctx, want, exists)
	}
	if title != curTitle {
		return slug.Unique(ctx, slug.Normalize(title), exists)
	}
	return curSlug, nil
}

func checkCategory(ctx context.Context, q executor, id int64) error {
	if id <= 0 {
		return nil
	}
	var n int
	if err := q.GetContext(ctx, &n, `SELECT COUNT(*) FROM categories WHERE id = ?`, id); err != nil {
		return err
	}
	if n == 0 {
		return invalid("category_id", "does not exist")
	}
	return nil
}

// DeletePost removes a post together with its comments and tag links.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ?`, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, id); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
	return storeErr("delete post", err)
}

// GetPost returns a post by id regardless of published status (for admin).
func (s *Store) GetPost(ctx context.Context, id int64) (Post, error) {
	return s.getPost(ctx, "get post", postSelect+` WHERE p.id = ?`, id)
}

// GetPublishedPostBySlug returns a published post. Drafts are reported as
// ErrNotFound, same as unknown slugs.
func (s *Store) GetPublishedPostBySlug(ctx context.Context, sl string) (Post, error) {
	return s.getPost(ctx, "get post by slug", postSelect+` WHERE p.slug = ? AND p.published = 1`, sl)
}

func (s *Store) getPost(ctx context.Context, op, query string, arg any) (Post, error) {
	var row postRow
	if err := s.db.GetContext(ctx, &row, query, arg); err != nil {
		return Post{}, storeErr(op, err)
	}
	posts := []Post{row.toPost()}
	if err := s.attachTags(ctx, posts); err != nil {
		return Post{}, storeErr(op, err)
	}
	return posts[0], nil
}

// ListAllPosts returns every post, drafts included, newest first.
func (s *Store) ListAllPosts(ctx context.Context) ([]Post, error) {
	return s.selectPosts(ctx, "list posts", postSelect+newestFirst)
}

// RecentPosts returns the n newest published posts.
func (s *Store) RecentPosts(ctx context.Context, n int) ([]Post, error) {
	return s.selectPosts(ctx, "recent posts", postSelect+` WHERE p.published = 1`+newestFirst+` LIMIT ?`, n)
}

// recentAny returns the n newest posts, drafts included (dashboard).
func (s *Store) recentAny(ctx context.Context, n int) ([]Post, error) {
	return s.selectPosts(ctx, "recent posts", postSelect+newestFirst+` LIMIT ?`, n)
}

func (s *Store) selectPosts(ctx context.Context, op, query string, args ...any) ([]Post, error) {
	var rows []postRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storeErr(op, err)
	}
	posts := make([]Post, len(rows))
	for i, r := range rows {
		posts[i] = r.toPost()
	}
	if err := s.attachTags(ctx, posts); err != nil {
		return nil, storeErr(op, err)
	}
	return posts, nil
}

// ListPublishedPosts returns one page of published posts.
func (s *Store) ListPublishedPosts(ctx context.Context, page int) (Paginated[Post], error) {
	return s.pagePosts(ctx, "list published posts", "", nil, page)
}

// ListPublishedPostsByCategory returns one page of published posts in a category.
func (s *Store) ListPublishedPostsByCategory(ctx context.Context, categoryID int64, page int) (Paginated[Post], error) {
	return s.pagePosts(ctx, "list posts by category", ` AND p.category_id = ?`, []any{categoryID}, page)
}

// ListPublishedPostsByTag returns one page of published posts carrying a tag.
func (s *Store) ListPublishedPostsByTag(ctx context.Context, tagID int64, page int) (Paginated[Post], error) {
	return s.pagePosts(ctx, "list posts by tag",
		` AND EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ?)`, []any{tagID}, page)
}

// SearchPublishedPosts matches q case-insensitively against title, content
// and excerpt. A blank query matches nothing.
func (s *Store) SearchPublishedPosts(ctx context.Context, q string, page int) (Paginated[Post], error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return Paginated[Post]{Items: []Post{}, Page: normalizePage(page), PerPage: s.pageSize}, nil
	}
	pattern := "%" + escapeLike(foldText(q)) + "%"
	return s.pagePosts(ctx, "search posts",
		` AND (`+foldFunc+`(p.title) LIKE ? ESCAPE '\' OR `+foldFunc+`(p.content) LIKE ? ESCAPE '\' OR `+foldFunc+`(p.excerpt) LIKE ? ESCAPE '\')`,
		[]any{pattern, pattern, pattern}, page)
}

func (s *Store) pagePosts(ctx context.Context, op, filter string, args []any, page int) (Paginated[Post], error) {
	page = normalizePage(page)
	out := Paginated[Post]{Items: []Post{}, Page: page, PerPage: s.pageSize}

	where := ` WHERE p.published = 1` + filter
	if err := s.db.GetContext(ctx, &out.Total, `SELECT COUNT(*) FROM posts p`+where, args...); err != nil {
		return out, storeErr(op, err)
	}
	offset := (page - 1) * s.pageSize
	if offset >= out.Total {
		return out, nil
	}
	items, err := s.selectPosts(ctx, op, postSelect+where+newestFirst+` LIMIT ? OFFSET ?`,
		append(append([]any{}, args...), s.pageSize, offset)...)
	if err != nil {
		return out, err
	}
	out.Items = items
	return out, nil
}

type postTagRow struct {
	PostID int64  `db:"post_id"`
	ID     int64  `db:"id"`
	Name   string `db:"name"`
	Slug   string `db:"slug"`
}

// attachTags loads the tags of all posts with one query.
func (s *Store) attachTags(ctx context.Context, posts []Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]int64, len(posts))
	index := make(map[int64]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		index[p.ID] = i
		posts[i].Tags = []Tag{}
	}
	query, args, err := sqlx.In(`SELECT pt.post_id, t.id, t.name, t.slug FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id WHERE pt.post_id IN (?) ORDER BY t.name`, ids)
	if err != nil {
		return err
	}
	var rows []postTagRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return err
	}
	for _, r := range rows {
		i := index[r.PostID]
		posts[i].Tags = append(posts[i].Tags, Tag{ID: r.ID, Name: r.Name, Slug: r.Slug})
	}
	return nil
}

// PostTags returns the tags of a post ordered by name.
func (s *Store) PostTags(ctx context.Context, postID int64) ([]Tag, error) {
	tags := []Tag{}
	err := s.db.SelectContext(ctx, &tags, `SELECT t.id AS id, t.name AS name, t.slug AS slug FROM tags t
		JOIN post_tags pt ON pt.tag_id = t.id WHERE pt.post_id = ? ORDER BY t.name`, postID)
	return tags, storeErr("post tags", err)
}
