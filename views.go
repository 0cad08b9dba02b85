package modernblog

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"
)

// ViewFuncs holds the templ components the app calls when rendering pages.
// The views package provides a default theme; sites can supply their own.
type ViewFuncs struct {
	Listing    func(v ListingView) templ.Component
	Post       func(v PostView) templ.Component
	Page       func(v PageView) templ.Component
	Categories func(v CategoriesView) templ.Component

	NotFound    func() templ.Component
	ServerError func() templ.Component

	AdminLogin        func(v LoginView) templ.Component
	AdminDashboard    func(v DashboardView) templ.Component
	AdminPosts        func(v PostListView) templ.Component
	AdminPostForm     func(v PostFormView) templ.Component
	AdminCategories   func(v CategoriesAdminView) templ.Component
	AdminCategoryForm func(v CategoryFormView) templ.Component
	AdminComments     func(v CommentsView) templ.Component
	AdminPages        func(v PageListView) templ.Component
	AdminPageForm     func(v PageFormView) templ.Component
	AdminContacts     func(v ContactsView) templ.Component
	AdminUsers        func(v UserListView) templ.Component
	AdminUserForm     func(v UserFormView) templ.Component
	AdminProfile      func(v ProfileView) templ.Component
	AdminMenu         func(v MenuListView) templ.Component
	AdminMenuForm     func(v MenuFormView) templ.Component
	AdminSettings     func(v SettingsView) templ.Component
}

// Chrome is what every public page needs around its content.
type Chrome struct {
	Settings   SiteSettings
	Categories []Category
	Pages      []Page
	Menu       []MenuItem
	Flashes    []Flash
	CSRF       string
	Meta       PageMeta
	SiteURL    string
	Year       int
}

// Listing kinds.
const (
	ListingHome     = "home"
	ListingCategory = "category"
	ListingTag      = "tag"
	ListingSearch   = "search"
)

// ListingView is a paginated list of published posts.
type ListingView struct {
	Chrome
	Kind     string
	Heading  string
	Category *Category
	Tag      *Tag
	Query    string
	Posts    Paginated[Post]
	Path     string // listing path without the page parameter
}

// PageURL links to page n of the same listing.
func (v ListingView) PageURL(n int) string {
	q := url.Values{}
	if v.Kind == ListingSearch {
		q.Set("q", v.Query)
	}
	if n > 1 {
		q.Set("page", strconv.Itoa(n))
	}
	if len(q) == 0 {
		return v.Path
	}
	return v.Path + "?" + q.Encode()
}

// PostView is the post detail page with its approved comments.
type PostView struct {
	Chrome
	Post     Post
	Comments []Comment
	Recent   []Post
	Form     CommentInput
	Errors   map[string]string
}

// PageView is a standalone page. Contact pages accept messages.
type PageView struct {
	Chrome
	Page      Page
	IsContact bool
	Form      ContactInput
	Errors    map[string]string
}

// CategoriesView indexes all categories and tags.
type CategoriesView struct {
	Chrome
	Tags []Tag
}

// AdminChrome is what every back-office page needs around its content.
type AdminChrome struct {
	User            User
	SiteName        string
	PendingComments int
	UnreadContacts  int
	Flashes         []Flash
	CSRF            string
	Section         string
}

type LoginView struct {
	SiteName string
	Username string
	Flashes  []Flash
	CSRF     string
}

type DashboardView struct {
	AdminChrome
	Stats  Stats
	Recent []Post
}

type PostListView struct {
	AdminChrome
	Posts []Post
}

// PostFormView renders the post editor. Post is nil when creating.
type PostFormView struct {
	AdminChrome
	Post       *Post
	Form       PostInput
	Categories []Category
	Errors     map[string]string
}

type CategoriesAdminView struct {
	AdminChrome
	Categories []Category
	Tags       []Tag
	Form       CategoryInput
	Errors     map[string]string
}

type CategoryFormView struct {
	AdminChrome
	Category Category
	Form     CategoryInput
	Errors   map[string]string
}

type CommentsView struct {
	AdminChrome
	Comments []Comment
}

type PageListView struct {
	AdminChrome
	Pages []Page
}

// PageFormView renders the page editor. Page is nil when creating.
type PageFormView struct {
	AdminChrome
	Page   *Page
	Form   PageInput
	Errors map[string]string
}

type ContactsView struct {
	AdminChrome
	Contacts []Contact
}

type UserListView struct {
	AdminChrome
	Users []User
}

// UserFormView renders the user editor. Edited is nil when creating.
type UserFormView struct {
	AdminChrome
	Edited *User
	Form   UserInput
	Errors map[string]string
}

type ProfileView struct {
	AdminChrome
	Errors map[string]string
}

type MenuListView struct {
	AdminChrome
	Items []MenuItem
}

// MenuFormView renders the menu item editor. Item is nil when creating.
type MenuFormView struct {
	AdminChrome
	Item   *MenuItem
	Form   MenuItemInput
	Errors map[string]string
}

type SettingsView struct {
	AdminChrome
	Settings SiteSettings
	Errors   map[string]string
}

// fieldErrors extracts per-field messages for redisplaying a form.
func fieldErrors(err error) map[string]string {
	if ve, ok := asValidation(err); ok {
		return ve.Fields
	}
	return nil
}
