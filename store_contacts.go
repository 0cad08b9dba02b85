package modernblog

import (
	"context"
	"strings"
)

// ContactInput is a message sent through the contact page.
type ContactInput struct {
	Name    string `form:"name" validate:"notblank,max=100"`
	Email   string `form:"email" validate:"notblank,email,max=120"`
	Subject string `form:"subject" validate:"notblank,max=200"`
	Message string `form:"message" validate:"notblank"`
}

type contactRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	Subject   string `db:"subject"`
	Message   string `db:"message"`
	CreatedAt string `db:"created_at"`
	Read      bool   `db:"is_read"`
}

// CreateContact stores an unread contact message.
func (s *Store) CreateContact(ctx context.Context, in ContactInput) (Contact, error) {
	if err := validateInput(in); err != nil {
		return Contact{}, err
	}
	now := s.now()
	c := Contact{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Subject:   strings.TrimSpace(in.Subject),
		Message:   strings.TrimSpace(in.Message),
		CreatedAt: parseTime(formatTime(now)),
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO contacts (name, email, subject, message, created_at, is_read) VALUES (?, ?, ?, ?, ?, 0)`,
		c.Name, c.Email, c.Subject, c.Message, formatTime(now))
	if err != nil {
		return Contact{}, storeErr("create contact", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return Contact{}, storeErr("create contact", err)
	}
	return c, nil
}

// MarkContactRead flags a message as read.
func (s *Store) MarkContactRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE contacts SET is_read = 1 WHERE id = ?`, id)
	if err == nil {
		err = requireAffected(res)
	}
	return storeErr("mark contact read", err)
}

// DeleteContact removes a message.
func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err == nil {
		err = requireAffected(res)
	}
	return storeErr("delete contact", err)
}

// ListContacts returns every message, newest first.
func (s *Store) ListContacts(ctx context.Context) ([]Contact, error) {
	var rows []contactRow
	if err := s.db.SelectContext(ctx, &rows, `SELECT id, name, email, subject, message, created_at, is_read
		FROM contacts ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, storeErr("list contacts", err)
	}
	out := make([]Contact, len(rows))
	for i, r := range rows {
		out[i] = Contact{
			ID:        r.ID,
			Name:      r.Name,
			Email:     r.Email,
			Subject:   r.Subject,
			Message:   r.Message,
			CreatedAt: parseTime(r.CreatedAt),
			Read:      r.Read,
		}
	}
	return out, nil
}
