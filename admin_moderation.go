package modernblog

import (
	"github.com/labstack/echo/v4"
)

func (a *App) handleAdminComments(c echo.Context) error {
	comments, err := a.Store.ListComments(c.Request().Context())
	if err != nil {
		return err
	}
	ch, err := a.adminChrome(c, "comments")
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminComments(CommentsView{AdminChrome: ch, Comments: comments}))
}

func (a *App) handleCommentApprove(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.ApproveComment(c.Request().Context(), id); err != nil {
		return failed(c, "/admin/comments", err)
	}
	return done(c, "/admin/comments", "Comment approved!")
}

func (a *App) handleCommentDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteComment(c.Request().Context(), id); err != nil {
		return failed(c, "/admin/comments", err)
	}
	return done(c, "/admin/comments", "Comment deleted!")
}

func (a *App) handleAdminContacts(c echo.Context) error {
	contacts, err := a.Store.ListContacts(c.Request().Context())
	if err != nil {
		return err
	}
	ch, err := a.adminChrome(c, "contacts")
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminContacts(ContactsView{AdminChrome: ch, Contacts: contacts}))
}

func (a *App) handleContactRead(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.MarkContactRead(c.Request().Context(), id); err != nil {
		return failed(c, "/admin/contacts", err)
	}
	return done(c, "/admin/contacts", "Message marked as read!")
}

func (a *App) handleContactDelete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := a.Store.DeleteContact(c.Request().Context(), id); err != nil {
		return failed(c, "/admin/contacts", err)
	}
	return done(c, "/admin/contacts", "Message deleted!")
}
