package modernblog

import (
	"context"
	"strings"
)

// CommentInput is a reader-submitted comment.
type CommentInput struct {
	Name    string `form:"name" validate:"notblank,max=100"`
	Email   string `form:"email" validate:"notblank,email,max=120"`
	Content string `form:"content" validate:"notblank"`
}

type commentRow struct {
	ID        int64  `db:"id"`
	PostID    int64  `db:"post_id"`
	PostTitle string `db:"post_title"`
	PostSlug  string `db:"post_slug"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Content   string `db:"content"`
	CreatedAt string `db:"created_at"`
	Approved  bool   `db:"approved"`
}

func (r commentRow) toComment() Comment {
	return Comment{
		ID:        r.ID,
		PostID:    r.PostID,
		PostTitle: r.PostTitle,
		PostSlug:  r.PostSlug,
		Name:      r.Name,
		Email:     r.Email,
		Content:   r.Content,
		CreatedAt: parseTime(r.CreatedAt),
		Approved:  r.Approved,
	}
}

const commentSelect = `SELECT cm.id, cm.post_id, p.title AS post_title, p.slug AS post_slug,
	cm.name, cm.email, cm.content, cm.created_at, cm.approved
FROM comments cm JOIN posts p ON p.id = cm.post_id`

// CreateComment stores an unapproved comment on a published post.
func (s *Store) CreateComment(ctx context.Context, postID int64, in CommentInput) (Comment, error) {
	if err := validateInput(in); err != nil {
		return Comment{}, err
	}
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts WHERE id = ? AND published = 1`, postID); err != nil {
		return Comment{}, storeErr("create comment", err)
	}
	if n == 0 {
		return Comment{}, storeErr("create comment", ErrNotFound)
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO comments (post_id, name, email, content, created_at, approved) VALUES (?, ?, ?, ?, ?, 0)`,
		postID, strings.TrimSpace(in.Name), strings.TrimSpace(in.Email), strings.TrimSpace(in.Content), s.timestamp())
	if err != nil {
		return Comment{}, storeErr("create comment", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Comment{}, storeErr("create comment", err)
	}
	return s.getComment(ctx, id)
}

func (s *Store) getComment(ctx context.Context, id int64) (Comment, error) {
	var row commentRow
	if err := s.db.GetContext(ctx, &row, commentSelect+` WHERE cm.id = ?`, id); err != nil {
		return Comment{}, storeErr("get comment", err)
	}
	return row.toComment(), nil
}

// ApproveComment makes a comment visible on its post.
func (s *Store) ApproveComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE comments SET approved = 1 WHERE id = ?`, id)
	if err == nil {
		err = requireAffected(res)
	}
	return storeErr("approve comment", err)
}

// DeleteComment removes a comment.
func (s *Store) DeleteComment(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err == nil {
		err = requireAffected(res)
	}
	return storeErr("delete comment", err)
}

// ListComments returns every comment, newest first, for moderation.
func (s *Store) ListComments(ctx context.Context) ([]Comment, error) {
	return s.selectComments(ctx, "list comments", commentSelect+` ORDER BY cm.created_at DESC, cm.id DESC`)
}

// ApprovedComments returns the visible comments of a post, oldest first.
func (s *Store) ApprovedComments(ctx context.Context, postID int64) ([]Comment, error) {
	return s.selectComments(ctx, "approved comments",
		commentSelect+` WHERE cm.post_id = ? AND cm.approved = 1 ORDER BY cm.created_at, cm.id`, postID)
}

func (s *Store) selectComments(ctx context.Context, op, query string, args ...any) ([]Comment, error) {
	var rows []commentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, storeErr(op, err)
	}
	out := make([]Comment, len(rows))
	for i, r := range rows {
		out[i] = r.toComment()
	}
	return out, nil
}
