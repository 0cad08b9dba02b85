package modernblog

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func postForm(c echo.Context) PostInput {
	in := PostInput{
		Title:     strings.TrimSpace(c.FormValue("title")),
		Slug:      strings.TrimSpace(c.FormValue("slug")),
		Content:   c.FormValue("content"),
		Excerpt:   strings.TrimSpace(c.FormValue("excerpt")),
		Tags:      c.FormValue("tags"),
		Published: checked(c, "published"),
	}
	if raw := strings.TrimSpace(c.FormValue("category_id")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			id = -1
		}
		in.CategoryID = id
	}
	return in
}

// saveUpload stores the optional multipart file under field. It returns an
// empty name when nothing was uploaded.
func saveUpload(c echo.Context, field string, save func(r io.Reader, filename string) (string, error)) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", err
	}
	if fh.Filename == "" || fh.Size == 0 {
		return "", nil
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	name, err := save(src, fh.Filename)
	if errors.Is(err, ErrUnsupportedFile) {
		return "", invalid(field, "unsupported file type")
	}
	return name, err
}

func (a *App) handleAdminPosts(c echo.Context) error {
	posts, err := a.Store.ListAllPosts(c.Request().Context())
	if err != nil {
		return err
	}
	ch, err := a.adminChrome(c, "posts")
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminPosts(PostListView{AdminChrome: ch, Posts: posts}))
}

func (a *App) renderPostForm(c echo.Context, code int, post *Post, form PostInput, errs map[string]string) error {
	cats, err := a.Store.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	ch, err := a.adminChrome(c, "posts")
	if err != nil {
		return err
	}
	return RenderStatus(c, code, a.Views.AdminPostForm(PostFormView{
		AdminChrome: ch,
		Post:        post,
		Form:        form,
		Categories:  cats,
		Errors:      errs,
	}))
}

func (a *App) handlePostNew(c echo.Context) error {
	return a.renderPostForm(c, http.StatusOK, nil, PostInput{Published: true}, nil)
}

func (a *App) handlePostCreate(c echo.Context) error {
	in := postForm(c)
	if err := validateInput(in); err != nil {
		return a.renderPostForm(c, http.StatusUnprocessableEntity, nil, in, fieldErrors(err))
	}
	cover, err := saveUpload(c, "cover_image", a.Media.SaveCover)
	if err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderPostForm(c, http.StatusUnprocessableEntity, nil, in, errs)
		}
		return err
	}
	in.CoverImage = cover
	if _, err := a.Store.CreatePost(c.Request().Context(), in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderPostForm(c, http.StatusUnprocessableEntity, nil, in, errs)
		}
		return failed(c, "/admin/posts", err)
	}
	return done(c, "/admin/posts", "Post created successfully!")
}

func (a *App) handlePostEdit(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	post, err := a.Store.GetPost(c.Request().Context(), id)
	if err != nil {
		return notFoundOr(err)
	}
	form := PostInput{
		Title:      post.Title,
		Slug:       post.Slug,
		Content:    post.Content,
		Excerpt:    post.Excerpt,
		CoverImage: post.CoverImage,
		CategoryID: post.CategoryID,
		Tags:       post.TagNames(),
		Published:  post.Published,
	}
	return a.renderPostForm(c, http.StatusOK, &post, form, nil)
}

func (a *App) handlePostUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := idParam(c)
	if err != nil {
		return err
	}
	post, err := a.Store.GetPost(ctx, id)
	if err != nil {
		return notFoundOr(err)
	}
	in := postForm(c)
	if err := validateInput(in); err != nil {
		return a.renderPostForm(c, http.StatusUnprocessableEntity, &post, in, fieldErrors(err))
	}
	cover, err := saveUpload(c, "cover_image", a.Media.SaveCover)
	if err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderPostForm(c, http.StatusUnprocessableEntity, &post, in, errs)
		}
		return err
	}
	in.CoverImage = cover
	if _, err := a.Store.UpdatePost(ctx, id, in); err != nil {
		if errs := fieldErrors(err); errs != nil {
			return a.renderPostForm(c, http.StatusUnprocessableEntity, &post, in, errs)
		}
		return failed(c, "/admin/posts", err)
	}
	return done(c, "/admin/posts", "Post updated successfully!")
}

func (a *App) handlePostDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeletePost(c.Request().Context(), id); err != nil {
		return failed(c, "/admin/posts", err)
	}
	return done(c, "/admin/posts", "Post deleted successfully!")
}
