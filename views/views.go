// Package views is the default theme. Pages are html/template files
// embedded in the binary and exposed as templ components through
// modernblog.ViewFuncs.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/eringen/modernblog"
	"github.com/eringen/modernblog/markdown"
)

//go:embed templates
var templateFS embed.FS

var funcs = template.FuncMap{
	"markdown": markdown.Render,
	"raw":      func(s string) template.HTML { return template.HTML(s) },
	"jsonld":   func(s string) template.JS { return template.JS(s) },
	"date":     formatDate,
	"datetime": formatDateTime,
	"excerpt":  postExcerpt,
	"hasForm":  hasForm,
	"menuIDs":  menuIDs,
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("January 2, 2006")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04")
}

// postExcerpt prefers the written excerpt over a preview of the body.
func postExcerpt(p modernblog.Post) string {
	if p.Excerpt != "" {
		return p.Excerpt
	}
	return markdown.Excerpt(p.Content, 200)
}

func hasForm(content string) bool {
	return strings.Contains(strings.ToLower(content), "<form")
}

func menuIDs(items []modernblog.MenuItem) string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = strconv.FormatInt(it.ID, 10)
	}
	return strings.Join(ids, ",")
}

func parse(files ...string) *template.Template {
	patterns := append([]string{"templates/partials.html"}, files...)
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, patterns...))
}

func component(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, name, data)
	})
}

func view[T any](t *template.Template, name string) func(T) templ.Component {
	return func(v T) templ.Component { return component(t, name, v) }
}

func public[T any](page string) func(T) templ.Component {
	return view[T](parse("templates/layout/public.html", "templates/public/"+page+".html"), "public")
}

func admin[T any](page string) func(T) templ.Component {
	return view[T](parse("templates/layout/admin.html", "templates/admin/"+page+".html"), "admin")
}

type status struct {
	Title   string
	Message string
}

// New parses the theme. It panics if a template is malformed.
func New() modernblog.ViewFuncs {
	statusTmpl := parse("templates/public/status.html")
	return modernblog.ViewFuncs{
		Listing:    public[modernblog.ListingView]("listing"),
		Post:       public[modernblog.PostView]("post"),
		Page:       public[modernblog.PageView]("page"),
		Categories: public[modernblog.CategoriesView]("categories"),

		NotFound: func() templ.Component {
			return component(statusTmpl, "status", status{"Page not found", "The page you are looking for does not exist."})
		},
		ServerError: func() templ.Component {
			return component(statusTmpl, "status", status{"Something went wrong", "An unexpected error occurred. Please try again later."})
		},

		AdminLogin:        view[modernblog.LoginView](parse("templates/admin/login.html"), "login"),
		AdminDashboard:    admin[modernblog.DashboardView]("dashboard"),
		AdminPosts:        admin[modernblog.PostListView]("posts"),
		AdminPostForm:     admin[modernblog.PostFormView]("post_form"),
		AdminCategories:   admin[modernblog.CategoriesAdminView]("categories"),
		AdminCategoryForm: admin[modernblog.CategoryFormView]("category_form"),
		AdminComments:     admin[modernblog.CommentsView]("comments"),
		AdminPages:        admin[modernblog.PageListView]("pages"),
		AdminPageForm:     admin[modernblog.PageFormView]("page_form"),
		AdminContacts:     admin[modernblog.ContactsView]("contacts"),
		AdminUsers:        admin[modernblog.UserListView]("users"),
		AdminUserForm:     admin[modernblog.UserFormView]("user_form"),
		AdminProfile:      admin[modernblog.ProfileView]("profile"),
		AdminMenu:         admin[modernblog.MenuListView]("menu"),
		AdminMenuForm:     admin[modernblog.MenuFormView]("menu_form"),
		AdminSettings:     admin[modernblog.SettingsView]("settings"),
	}
}
