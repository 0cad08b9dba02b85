package modernblog

import "time"

// Post is a markdown article. Only published posts are visible publicly.
type Post struct {
	ID         int64
	Title      string
	Slug       string
	Content    string
	Excerpt    string
	CoverImage string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Published  bool
	CategoryID int64     // 0 when uncategorized
	Category   *Category // nil when uncategorized
	Tags       []Tag
}

// Link returns the public path of the post.
func (p Post) Link() string { return "/post/" + p.Slug }

// TagNames joins tag names with ", " for form fields.
func (p Post) TagNames() string {
	return JoinTags(p.Tags)
}

// CoverURL returns the public path of the cover image, or "" when unset.
func (p Post) CoverURL() string {
	if p.CoverImage == "" {
		return ""
	}
	return "/uploads/" + p.CoverImage
}

// Category groups posts. Deleting one leaves its posts uncategorized.
type Category struct {
	ID        int64
	Name      string
	Slug      string
	CreatedAt time.Time
	PostCount int // published posts, filled by ListCategories
}

// Link returns the public path of the category.
func (c Category) Link() string { return "/category/" + c.Slug }

// Tag is created lazily the first time a post references its name.
type Tag struct {
	ID        int64
	Name      string
	Slug      string
	PostCount int // published posts, filled by ListTags
}

// Link returns the public path of the tag.
func (t Tag) Link() string { return "/tag/" + t.Slug }

// Comment belongs to a post and stays hidden until approved.
type Comment struct {
	ID        int64
	PostID    int64
	PostTitle string
	PostSlug  string
	Name      string
	Email     string
	Content   string
	CreatedAt time.Time
	Approved  bool
}

// Page is a standalone markdown document.
type Page struct {
	ID        int64
	Title     string
	Slug      string
	Content   string
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Link returns the public path of the page.
func (p Page) Link() string { return "/page/" + p.Slug }

// Contact is an inbound message from the contact page. Admin-only.
type Contact struct {
	ID        int64
	Name      string
	Email     string
	Subject   string
	Message   string
	CreatedAt time.Time
	Read      bool
}

// User is a back-office account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}

// MenuItem is a navigation link shown when active.
type MenuItem struct {
	ID        int64
	Title     string
	URL       string
	Order     int
	Active    bool
	CreatedAt time.Time
}

// Stats are the dashboard counters.
type Stats struct {
	Posts           int `db:"posts"`
	Published       int `db:"published"`
	Categories      int `db:"categories"`
	Tags            int `db:"tags"`
	PendingComments int `db:"pending_comments"`
	UnreadContacts  int `db:"unread_contacts"`
}

// Paginated is one page of a newest-first listing.
type Paginated[T any] struct {
	Items   []T
	Page    int
	PerPage int
	Total   int
}

// TotalPages returns the number of pages, at least 1.
func (p Paginated[T]) TotalPages() int {
	if p.PerPage <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

func (p Paginated[T]) HasPrev() bool { return p.Page > 1 }
func (p Paginated[T]) HasNext() bool { return p.Page < p.TotalPages() }
func (p Paginated[T]) PrevPage() int { return p.Page - 1 }
func (p Paginated[T]) NextPage() int { return p.Page + 1 }

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}
