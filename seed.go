package modernblog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var (
	seedCategories = []string{
		"Programming", "Web Development", "Python", "JavaScript",
		"Technology", "Tutorial", "News", "Tips & Tricks",
	}
	seedTags = []string{
		"flask", "python", "web-dev", "tutorial", "beginner",
		"advanced", "tips", "coding", "programming", "tech",
	}
	seedMenu = []MenuItemInput{
		{Title: "About", URL: "/page/about", Order: 1, Active: true},
		{Title: "Contact", URL: "/page/contact", Order: 2, Active: true},
	}
)

const aboutContent = `# About ModernBlog

Welcome to ModernBlog, a modern blogging platform.

## Features

- AI-assisted draft generation
- Categories, tags and full-text search
- Comment moderation and a contact inbox
- SEO friendly URLs, sitemap and RSS feed
- Advertisement and tracking snippets managed from the admin panel

## Contact

Feel free to reach out to us for any questions or suggestions.
`

const contactContent = `# Contact Us

Get in touch with us using the form below:

<form method="POST" class="contact-form">
    <div>
        <label for="name">Name *</label>
        <input type="text" id="name" name="name" required>
    </div>
    <div>
        <label for="email">Email *</label>
        <input type="email" id="email" name="email" required>
    </div>
    <div>
        <label for="subject">Subject *</label>
        <input type="text" id="subject" name="subject" required>
    </div>
    <div>
        <label for="message">Message *</label>
        <textarea id="message" name="message" rows="4" required></textarea>
    </div>
    <button type="submit">Send Message</button>
</form>
`

const welcomeContent = `# Welcome to ModernBlog!

Welcome to **ModernBlog**, a blogging platform that pairs a fast Go backend
with AI-assisted writing.

## What makes it special?

### AI-assisted drafts
- Generate a title, an excerpt and a Markdown body from a single topic
- Review and edit before publishing

### Content management
- Categories, tags and standalone pages
- Comment moderation and a contact inbox
- Menu and site settings editable at runtime

### Advertisement integration
- Header, content, sidebar and footer ad zones

Happy blogging!
`

// SeedOptions controls Seed.
type SeedOptions struct {
	Sample          bool   // also create the welcome post
	ContactPageSlug string // slug of the contact page, default "contact"
}

// SeedReport counts what Seed created.
type SeedReport struct {
	Categories int
	Tags       int
	Pages      int
	MenuItems  int
	Posts      int
}

// Seed fills an empty site with default settings, taxonomy, pages and menu
// items. Existing rows are left alone, so running it twice changes nothing.
func (s *Store) Seed(ctx context.Context, opts SeedOptions) (SeedReport, error) {
	var rep SeedReport
	if opts.ContactPageSlug == "" {
		opts.ContactPageSlug = "contact"
	}

	defaults := SiteSettings{SiteName: DefaultSiteName}.values()
	if err := s.seedSettings(ctx, defaults); err != nil {
		return rep, err
	}

	for _, name := range seedCategories {
		if _, err := s.CreateCategory(ctx, CategoryInput{Name: name}); err != nil {
			if errors.Is(err, ErrConflict) {
				continue
			}
			return rep, err
		}
		rep.Categories++
	}

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, name := range seedTags {
			var n int
			if err := tx.GetContext(ctx, &n, `SELECT COUNT(*) FROM tags WHERE name = ?`, name); err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if _, err := ensureTag(ctx, tx, name); err != nil {
				return err
			}
			rep.Tags++
		}
		return nil
	})
	if err != nil {
		return rep, storeErr("seed tags", err)
	}

	pages := []PageInput{
		{Title: "About Us", Slug: "about", Content: aboutContent, Published: true},
		{Title: "Contact", Slug: opts.ContactPageSlug, Content: contactContent, Published: true},
	}
	for _, p := range pages {
		exists, err := slugExists(s.db, "pages", 0)(ctx, p.Slug)
		if err != nil {
			return rep, storeErr("seed pages", err)
		}
		if exists {
			continue
		}
		if _, err := s.CreatePage(ctx, p); err != nil {
			return rep, err
		}
		rep.Pages++
	}

	for _, m := range seedMenu {
		var n int
		if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM menu_items WHERE title = ?`, m.Title); err != nil {
			return rep, storeErr("seed menu", err)
		}
		if n > 0 {
			continue
		}
		if m.Title == "Contact" {
			m.URL = "/page/" + opts.ContactPageSlug
		}
		if _, err := s.CreateMenuItem(ctx, m); err != nil {
			return rep, err
		}
		rep.MenuItems++
	}

	if opts.Sample {
		created, err := s.seedWelcomePost(ctx)
		if err != nil {
			return rep, err
		}
		if created {
			rep.Posts++
		}
	}
	return rep, nil
}

func (s *Store) seedWelcomePost(ctx context.Context) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM posts`); err != nil {
		return false, storeErr("seed post", err)
	}
	if n > 0 {
		return false, nil
	}
	in := PostInput{
		Title:     "Welcome to ModernBlog - Your AI-Powered Blogging Platform",
		Slug:      "welcome-to-modernblog",
		Content:   welcomeContent,
		Excerpt:   "Welcome to ModernBlog, a modern AI-assisted blogging platform. Discover draft generation, taxonomy, moderation and more.",
		Tags:      "flask, python",
		Published: true,
	}
	if cat, err := s.GetCategoryBySlug(ctx, "programming"); err == nil {
		in.CategoryID = cat.ID
	} else if !isNotFound(err) {
		return false, err
	}
	if _, err := s.CreatePost(ctx, in); err != nil {
		return false, fmt.Errorf("seed post: %w", err)
	}
	return true, nil
}
