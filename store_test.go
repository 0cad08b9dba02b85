package modernblog

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "data", "blog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	// Every call advances the clock by a second so ordering is deterministic.
	clock := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func mustPost(t *testing.T, s *Store, in PostInput) Post {
	t.Helper()
	if in.Content == "" {
		in.Content = "Body of " + in.Title
	}
	p, err := s.CreatePost(context.Background(), in)
	require.NoError(t, err)
	return p
}

func TestNewStoreMigratesTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.db")
	s, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewStore(path)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, DefaultPageSize, s.PageSize())
}

func TestCreatePostSlugCollision(t *testing.T) {
	s := setupTestStore(t)

	first := mustPost(t, s, PostInput{Title: "Hello World", Published: true})
	second := mustPost(t, s, PostInput{Title: "Hello, World!", Published: true})
	third := mustPost(t, s, PostInput{Title: "Something", Slug: "Hello World"})

	assert.Equal(t, "hello-world", first.Slug)
	assert.Equal(t, "hello-world-1", second.Slug)
	assert.Equal(t, "hello-world-2", third.Slug)
}

func TestUpdatePostSlugRules(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := mustPost(t, s, PostInput{Title: "Original", Published: true})
	mustPost(t, s, PostInput{Title: "Taken"})

	same, err := s.UpdatePost(ctx, p.ID, PostInput{Title: "Original", Content: "new body", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "original", same.Slug)
	assert.Equal(t, "new body", same.Content)
	assert.True(t, same.UpdatedAt.After(p.UpdatedAt))
	assert.Equal(t, p.CreatedAt, same.CreatedAt)

	renamed, err := s.UpdatePost(ctx, p.ID, PostInput{Title: "Taken", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "taken-1", renamed.Slug)

	explicit, err := s.UpdatePost(ctx, p.ID, PostInput{Title: "Taken", Slug: "custom path", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "custom-path", explicit.Slug)

	_, err = s.UpdatePost(ctx, 999, PostInput{Title: "Nope", Content: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdatePostKeepsCoverWhenEmpty(t *testing.T) {
	s := setupTestStore(t)
	p := mustPost(t, s, PostInput{Title: "Cover", CoverImage: "a.png"})

	got, err := s.UpdatePost(context.Background(), p.ID, PostInput{Title: "Cover", Content: "x"})
	require.NoError(t, err)
	assert.Equal(t, "a.png", got.CoverImage)
	assert.Equal(t, "/uploads/a.png", got.CoverURL())
}

func TestCreatePostValidation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.CreatePost(ctx, PostInput{Content: "body"})
	require.ErrorIs(t, err, ErrValidation)
	ve, ok := asValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "title")

	_, err = s.CreatePost(ctx, PostInput{Title: "T", Content: "body", CategoryID: 42})
	require.ErrorIs(t, err, ErrValidation)
	ve, _ = asValidation(err)
	assert.Contains(t, ve.Fields, "category_id")
}

func TestPublishedFilter(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustPost(t, s, PostInput{Title: "Public", Published: true})
	draft := mustPost(t, s, PostInput{Title: "Secret draft"})

	page, err := s.ListPublishedPosts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "public", page.Items[0].Slug)

	_, err = s.GetPublishedPostBySlug(ctx, draft.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetPost(ctx, draft.ID)
	require.NoError(t, err)
	assert.False(t, got.Published)

	all, err := s.ListAllPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	res, err := s.SearchPublishedPosts(ctx, "secret", 1)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
}

func TestListingOrderAndPagination(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	s.SetPageSize(2)

	for _, title := range []string{"One", "Two", "Three", "Four", "Five"} {
		mustPost(t, s, PostInput{Title: title, Published: true})
	}

	first, err := s.ListPublishedPosts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Total)
	assert.Equal(t, 3, first.TotalPages())
	require.Len(t, first.Items, 2)
	assert.Equal(t, "five", first.Items[0].Slug)
	assert.Equal(t, "four", first.Items[1].Slug)
	assert.False(t, first.HasPrev())
	assert.True(t, first.HasNext())

	last, err := s.ListPublishedPosts(ctx, 3)
	require.NoError(t, err)
	require.Len(t, last.Items, 1)
	assert.Equal(t, "one", last.Items[0].Slug)
	assert.False(t, last.HasNext())

	beyond, err := s.ListPublishedPosts(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 5, beyond.Total)

	zero, err := s.ListPublishedPosts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, zero.Page)

	recent, err := s.RecentPosts(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "five", recent[0].Slug)
}

func TestPostTagsReplacedAndDeduplicated(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := mustPost(t, s, PostInput{Title: "Tagged", Tags: "go, testing, go, , sqlite", Published: true})
	require.Len(t, p.Tags, 3)
	assert.Equal(t, "go, sqlite, testing", p.TagNames())

	other := mustPost(t, s, PostInput{Title: "Also tagged", Tags: "go", Published: true})
	assert.Equal(t, p.Tags[0].ID, other.Tags[0].ID)

	require.NoError(t, s.SetPostTags(ctx, p.ID, "rust"))
	tags, err := s.PostTags(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, "rust", tags[0].Name)

	goTag, err := s.GetTagBySlug(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, 1, goTag.PostCount)

	byTag, err := s.ListPublishedPostsByTag(ctx, goTag.ID, 1)
	require.NoError(t, err)
	require.Len(t, byTag.Items, 1)
	assert.Equal(t, other.ID, byTag.Items[0].ID)

	assert.ErrorIs(t, s.SetPostTags(ctx, 999, "x"), ErrNotFound)
}

func TestDeleteTagUnlinksPosts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := mustPost(t, s, PostInput{Title: "Tagged", Tags: "a, b", Published: true})
	require.NoError(t, s.DeleteTag(ctx, p.Tags[0].ID))

	got, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "b", got.Tags[0].Name)

	assert.ErrorIs(t, s.DeleteTag(ctx, 999), ErrNotFound)
}

func TestCommentModeration(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := mustPost(t, s, PostInput{Title: "Discussed", Published: true})
	draft := mustPost(t, s, PostInput{Title: "Hidden"})

	c, err := s.CreateComment(ctx, p.ID, CommentInput{Name: "Ann", Email: "ann@example.com", Content: "Nice post"})
	require.NoError(t, err)
	assert.False(t, c.Approved)
	assert.Equal(t, p.Slug, c.PostSlug)

	approved, err := s.ApprovedComments(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, approved)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.PendingComments)

	require.NoError(t, s.ApproveComment(ctx, c.ID))
	approved, err = s.ApprovedComments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, "Nice post", approved[0].Content)

	_, err = s.CreateComment(ctx, draft.ID, CommentInput{Name: "Bob", Email: "bob@example.com", Content: "Hi"})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.CreateComment(ctx, p.ID, CommentInput{Name: "Bob", Email: "not-an-email", Content: "Hi"})
	require.ErrorIs(t, err, ErrValidation)
	ve, _ := asValidation(err)
	assert.Contains(t, ve.Fields, "email")

	assert.ErrorIs(t, s.ApproveComment(ctx, 999), ErrNotFound)
	require.NoError(t, s.DeleteComment(ctx, c.ID))
	all, err := s.ListComments(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeletePostCascades(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := mustPost(t, s, PostInput{Title: "Doomed", Tags: "gone", Published: true})
	_, err := s.CreateComment(ctx, p.ID, CommentInput{Name: "Ann", Email: "ann@example.com", Content: "bye"})
	require.NoError(t, err)

	require.NoError(t, s.DeletePost(ctx, p.ID))

	comments, err := s.ListComments(ctx)
	require.NoError(t, err)
	assert.Empty(t, comments)

	var links int
	require.NoError(t, s.db.Get(&links, `SELECT COUNT(*) FROM post_tags`))
	assert.Zero(t, links)

	assert.ErrorIs(t, s.DeletePost(ctx, p.ID), ErrNotFound)
}

func TestCategories(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, CategoryInput{Name: "Web Development"})
	require.NoError(t, err)
	assert.Equal(t, "web-development", cat.Slug)
	assert.Equal(t, "/category/web-development", cat.Link())

	_, err = s.CreateCategory(ctx, CategoryInput{Name: "Web Development"})
	assert.ErrorIs(t, err, ErrConflict)

	p := mustPost(t, s, PostInput{Title: "In category", CategoryID: cat.ID, Published: true})
	mustPost(t, s, PostInput{Title: "Draft in category", CategoryID: cat.ID})
	require.NotNil(t, p.Category)
	assert.Equal(t, "Web Development", p.Category.Name)

	got, err := s.GetCategoryBySlug(ctx, "web-development")
	require.NoError(t, err)
	assert.Equal(t, 1, got.PostCount)

	listed, err := s.ListPublishedPostsByCategory(ctx, cat.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, listed.Total)

	renamed, err := s.UpdateCategory(ctx, cat.ID, CategoryInput{Name: "Web"})
	require.NoError(t, err)
	assert.Equal(t, "web", renamed.Slug)

	require.NoError(t, s.DeleteCategory(ctx, cat.ID))
	orphan, err := s.GetPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, orphan.Category)
	assert.Zero(t, orphan.CategoryID)

	_, err = s.GetCategoryBySlug(ctx, "web")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustPost(t, s, PostInput{Title: "Hello Go", Content: "plain", Published: true})
	mustPost(t, s, PostInput{Title: "Other", Content: "nothing here", Excerpt: "says HELLO", Published: true})
	mustPost(t, s, PostInput{Title: "Discount", Content: "50% off", Published: true})

	empty, err := s.SearchPublishedPosts(ctx, "   ", 1)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Zero(t, empty.Total)

	hello, err := s.SearchPublishedPosts(ctx, "hello", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, hello.Total)

	pct, err := s.SearchPublishedPosts(ctx, "%", 1)
	require.NoError(t, err)
	require.Len(t, pct.Items, 1)
	assert.Equal(t, "discount", pct.Items[0].Slug)

	none, err := s.SearchPublishedPosts(ctx, "_", 1)
	require.NoError(t, err)
	assert.Empty(t, none.Items)
}

func TestSearchFoldsUnicodeCase(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustPost(t, s, PostInput{Title: "École Überblick", Content: "Ein Überblick", Published: true})
	mustPost(t, s, PostInput{Title: "Unrelated", Content: "plain", Published: true})

	for _, q := range []string{"École", "école", "ÉCOLE", "überblick", "ÜBER", "ein ÜBERBLICK"} {
		res, err := s.SearchPublishedPosts(ctx, q, 1)
		require.NoError(t, err)
		if assert.Equal(t, 1, res.Total, "query %q", q) {
			assert.Equal(t, "ecole-uberblick", res.Items[0].Slug)
		}
	}

	res, err := s.SearchPublishedPosts(ctx, "ecole", 1)
	require.NoError(t, err)
	assert.Zero(t, res.Total, "accents are significant, only case is folded")
}

func TestPages(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p, err := s.CreatePage(ctx, PageInput{Title: "About Us", Content: "about", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "about-us", p.Slug)

	hidden, err := s.CreatePage(ctx, PageInput{Title: "Draft page", Content: "wip"})
	require.NoError(t, err)

	_, err = s.GetPublishedPageBySlug(ctx, hidden.Slug)
	assert.ErrorIs(t, err, ErrNotFound)

	published, err := s.ListPublishedPages(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)

	updated, err := s.UpdatePage(ctx, hidden.ID, PageInput{Title: "Draft page", Content: "done", Published: true})
	require.NoError(t, err)
	assert.True(t, updated.Published)
	assert.Equal(t, hidden.Slug, updated.Slug)

	require.NoError(t, s.DeletePage(ctx, p.ID))
	assert.ErrorIs(t, s.DeletePage(ctx, p.ID), ErrNotFound)
}

func TestContacts(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	c, err := s.CreateContact(ctx, ContactInput{Name: "Ann", Email: "ann@example.com", Subject: "Hi", Message: "Hello there"})
	require.NoError(t, err)
	assert.False(t, c.Read)

	_, err = s.CreateContact(ctx, ContactInput{Name: "Ann", Email: "ann@example.com", Message: "no subject"})
	assert.ErrorIs(t, err, ErrValidation)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.UnreadContacts)

	require.NoError(t, s.MarkContactRead(ctx, c.ID))
	list, err := s.ListContacts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)

	require.NoError(t, s.DeleteContact(ctx, c.ID))
	assert.ErrorIs(t, s.MarkContactRead(ctx, c.ID), ErrNotFound)
}

func TestSettingsUpsert(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	v, err := s.GetSetting(ctx, SettingSiteName, "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	require.NoError(t, s.SetSetting(ctx, SettingSiteName, "First"))
	require.NoError(t, s.SetSetting(ctx, SettingSiteName, "Second"))

	var rows int
	require.NoError(t, s.db.Get(&rows, `SELECT COUNT(*) FROM settings WHERE "key" = ?`, SettingSiteName))
	assert.Equal(t, 1, rows)

	st, err := s.LoadSiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Second", st.SiteName)
	assert.Empty(t, st.LogoURL())

	require.NoError(t, s.SaveSiteSettings(ctx, SiteSettings{SiteName: "Third", Logo: "logo.png", AdsFooter: "<b>ad</b>"}))
	require.NoError(t, s.SaveSiteSettings(ctx, SiteSettings{SiteName: "Fourth", AdsFooter: "<b>ad</b>"}))

	st, err = s.LoadSiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fourth", st.SiteName)
	assert.Equal(t, "/uploads/logo.png", st.LogoURL())
	assert.Equal(t, "<b>ad</b>", st.AdsFooter)
}

func TestLoadSiteSettingsDefaults(t *testing.T) {
	s := setupTestStore(t)
	st, err := s.LoadSiteSettings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultSiteName, st.SiteName)
	assert.Empty(t, st.AIAPIKey)
}

func TestMenuReorder(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	var ids []int64
	for i, title := range []string{"A", "B", "C"} {
		item, err := s.CreateMenuItem(ctx, MenuItemInput{Title: title, URL: "/" + title, Order: i + 1, Active: true})
		require.NoError(t, err)
		ids = append(ids, item.ID)
	}
	hidden, err := s.CreateMenuItem(ctx, MenuItemInput{Title: "Hidden", URL: "/h", Order: 0})
	require.NoError(t, err)

	require.NoError(t, s.ReorderMenuItems(ctx, []int64{ids[2], ids[0], ids[1]}))

	active, err := s.ActiveMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, active, 3)
	assert.Equal(t, "C", active[0].Title)
	assert.Equal(t, "A", active[1].Title)
	assert.Equal(t, "B", active[2].Title)

	all, err := s.ListMenuItems(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, hidden.ID, all[0].ID)

	err = s.ReorderMenuItems(ctx, []int64{ids[1], 999})
	assert.ErrorIs(t, err, ErrNotFound)
	item, err := s.GetMenuItem(ctx, ids[1])
	require.NoError(t, err)
	assert.Equal(t, 3, item.Order, "failed reorder must roll back")
}

func TestUsersAndAuthentication(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	admin, err := s.CreateUser(ctx, UserInput{Username: "root", Email: "root@example.com", Password: "s3cret", IsAdmin: true})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", admin.PasswordHash)

	writer, err := s.CreateUser(ctx, UserInput{Username: "writer", Email: "w@example.com", Password: "pw"})
	require.NoError(t, err)

	_, err = s.CreateUser(ctx, UserInput{Username: "root", Email: "other@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.CreateUser(ctx, UserInput{Username: "nopw", Email: "nopw@example.com"})
	assert.ErrorIs(t, err, ErrValidation)

	got, err := s.Authenticate(ctx, "root", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, got.ID)

	_, err = s.Authenticate(ctx, "root", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Authenticate(ctx, "writer", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "non-admins cannot log in")
	_, err = s.Authenticate(ctx, "ghost", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	assert.ErrorIs(t, s.ChangePassword(ctx, admin.ID, "wrong", "new"), ErrInvalidCredentials)
	assert.ErrorIs(t, s.ChangePassword(ctx, admin.ID, "s3cret", ""), ErrValidation)
	require.NoError(t, s.ChangePassword(ctx, admin.ID, "s3cret", "n3w"))
	_, err = s.Authenticate(ctx, "root", "n3w")
	require.NoError(t, err)

	updated, err := s.UpdateUser(ctx, writer.ID, admin.ID, UserInput{Username: "writer", Email: "w@example.com", IsAdmin: true})
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)
	_, err = s.Authenticate(ctx, "writer", "pw")
	require.NoError(t, err, "blank password on update keeps the old one")

	_, err = s.UpdateUser(ctx, admin.ID, admin.ID, UserInput{Username: "root", Email: "root@example.com"})
	assert.ErrorIs(t, err, ErrSelfDemote)
	self, err := s.GetUser(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, self.IsAdmin, "a refused demotion changes nothing")

	_, err = s.UpdateUser(ctx, writer.ID, admin.ID, UserInput{Username: "writer", Email: "w@example.com"})
	require.NoError(t, err, "demoting someone else is allowed")

	assert.ErrorIs(t, s.DeleteUser(ctx, admin.ID, admin.ID), ErrSelfDelete)
	require.NoError(t, s.DeleteUser(ctx, writer.ID, admin.ID))
	_, err = s.GetUser(ctx, writer.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPasswordByteLimit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	long := strings.Repeat("é", 40) // 40 runes, 80 bytes

	_, err := s.CreateUser(ctx, UserInput{Username: "u", Email: "u@example.com", Password: long})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password")

	u, err := s.CreateUser(ctx, UserInput{Username: "u", Email: "u@example.com", Password: strings.Repeat("é", 36), IsAdmin: true})
	require.NoError(t, err, "72 bytes is still accepted")

	_, err = s.UpdateUser(ctx, u.ID, u.ID, UserInput{Username: "u", Email: "u@example.com", Password: long, IsAdmin: true})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "password")

	err = s.ChangePassword(ctx, u.ID, strings.Repeat("é", 36), long)
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "new_password")
}

func TestBlankFieldsAreRequired(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.CreatePost(ctx, PostInput{Title: "   ", Content: "body"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "is required", ve.Fields["title"])

	_, err = s.CreatePost(ctx, PostInput{Title: "Title", Content: " \n\t "})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "content")

	_, err = s.CreatePage(ctx, PageInput{Title: "  ", Content: "x"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.CreateCategory(ctx, CategoryInput{Name: "\t"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.CreateComment(ctx, 1, CommentInput{Name: " ", Email: "a@example.com", Content: "hi"})
	assert.ErrorIs(t, err, ErrValidation)

	posts, err := s.ListAllPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestEnsureAdmin(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	_, err := s.EnsureAdmin(ctx, AdminSeed{Username: "admin", Email: "admin@example.com"})
	require.Error(t, err)

	created, err := s.EnsureAdmin(ctx, AdminSeed{Username: "admin", Email: "admin@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureAdmin(ctx, AdminSeed{Username: "other", Email: "o@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.False(t, created)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].IsAdmin)
}

func TestSeedIsIdempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	rep, err := s.Seed(ctx, SeedOptions{Sample: true})
	require.NoError(t, err)
	assert.Equal(t, SeedReport{Categories: 8, Tags: 10, Pages: 2, MenuItems: 2, Posts: 1}, rep)

	rep, err = s.Seed(ctx, SeedOptions{Sample: true})
	require.NoError(t, err)
	assert.Equal(t, SeedReport{}, rep)

	post, err := s.GetPublishedPostBySlug(ctx, "welcome-to-modernblog")
	require.NoError(t, err)
	require.NotNil(t, post.Category)
	assert.Equal(t, "programming", post.Category.Slug)
	assert.Equal(t, "flask, python", post.TagNames())

	contact, err := s.GetPublishedPageBySlug(ctx, "contact")
	require.NoError(t, err)
	assert.Contains(t, contact.Content, "<form")

	menu, err := s.ActiveMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 2)
	assert.Equal(t, "/page/about", menu[0].URL)
	assert.Equal(t, "/page/contact", menu[1].URL)

	st, err := s.LoadSiteSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSiteName, st.SiteName)
}
