package modernblog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// UserInput is the editable part of a User. On update an empty Password
// keeps the current one.
type UserInput struct {
	Username string `form:"username" validate:"notblank,max=80"`
	Email    string `form:"email" validate:"notblank,email,max=120"`
	Password string `form:"password" validate:"max=72"`
	IsAdmin  bool   `form:"is_admin"`
}

type userRow struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	IsAdmin      bool   `db:"is_admin"`
	CreatedAt    string `db:"created_at"`
}

func (r userRow) toUser() User {
	return User{
		ID:           r.ID,
		Username:     r.Username,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		IsAdmin:      r.IsAdmin,
		CreatedAt:    parseTime(r.CreatedAt),
	}
}

const userSelect = `SELECT id, username, email, password_hash, is_admin, created_at FROM users`

// maxPasswordBytes is bcrypt's input limit. The validator counts runes, so
// the byte length is checked separately.
const maxPasswordBytes = 72

func passwordTooLong(field, pw string) error {
	if len(pw) > maxPasswordBytes {
		return invalid(field, "must be at most 72 bytes")
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// CreateUser stores a user with a bcrypt password hash.
func (s *Store) CreateUser(ctx context.Context, in UserInput) (User, error) {
	if err := validateInput(in); err != nil {
		return User{}, err
	}
	if in.Password == "" {
		return User{}, invalid("password", "is required")
	}
	if err := passwordTooLong("password", in.Password); err != nil {
		return User{}, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return User{}, err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO users (username, email, password_hash, is_admin, created_at) VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(in.Username), strings.TrimSpace(in.Email), hash, in.IsAdmin, s.timestamp())
	if err != nil {
		return User{}, storeErr("create user", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return User{}, storeErr("create user", err)
	}
	return s.GetUser(ctx, id)
}

// UpdateUser changes a user's details. The password is replaced only when
// in.Password is non-empty. actingID is the user making the change; nobody
// can take away their own admin flag.
func (s *Store) UpdateUser(ctx context.Context, id, actingID int64, in UserInput) (User, error) {
	if err := validateInput(in); err != nil {
		return User{}, err
	}
	if id == actingID && !in.IsAdmin {
		return User{}, ErrSelfDemote
	}
	query := `UPDATE users SET username = ?, email = ?, is_admin = ? WHERE id = ?`
	args := []any{strings.TrimSpace(in.Username), strings.TrimSpace(in.Email), in.IsAdmin, id}
	if err := passwordTooLong("password", in.Password); err != nil {
		return User{}, err
	}
	if in.Password != "" {
		hash, err := hashPassword(in.Password)
		if err != nil {
			return User{}, err
		}
		query = `UPDATE users SET username = ?, email = ?, is_admin = ?, password_hash = ? WHERE id = ?`
		args = []any{args[0], args[1], args[2], hash, id}
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err == nil {
		err = requireAffected(res)
	}
	if err != nil {
		return User{}, storeErr("update user", err)
	}
	return s.GetUser(ctx, id)
}

// DeleteUser removes user id. actingID is the user performing the deletion;
// nobody can delete their own account.
func (s *Store) DeleteUser(ctx context.Context, id, actingID int64) error {
	if id == actingID {
		return ErrSelfDelete
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err == nil {
		err = requireAffected(res)
	}
	return storeErr("delete user", err)
}

// GetUser returns a user by id.
func (s *Store) GetUser(ctx context.Context, id int64) (User, error) {
	var row userRow
	if err := s.db.GetContext(ctx, &row, userSelect+` WHERE id = ?`, id); err != nil {
		return User{}, storeErr("get user", err)
	}
	return row.toUser(), nil
}

// ListUsers returns all users by username.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	var rows []userRow
	if err := s.db.SelectContext(ctx, &rows, userSelect+` ORDER BY username`); err != nil {
		return nil, storeErr("list users", err)
	}
	out := make([]User, len(rows))
	for i, r := range rows {
		out[i] = r.toUser()
	}
	return out, nil
}

// Authenticate checks an admin's credentials. Unknown users, non-admins and
// wrong passwords all give ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, username, password string) (User, error) {
	var row userRow
	err := s.db.GetContext(ctx, &row, userSelect+` WHERE username = ? AND is_admin = 1`, strings.TrimSpace(username))
	if err != nil {
		if err = storeErr("authenticate", err); isNotFound(err) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return row.toUser(), nil
}

// ChangePassword sets a new password after verifying the current one.
func (s *Store) ChangePassword(ctx context.Context, id int64, current, next string) error {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(current)) != nil {
		return ErrInvalidCredentials
	}
	if next == "" {
		return invalid("new_password", "is required")
	}
	if err := passwordTooLong("new_password", next); err != nil {
		return err
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	return storeErr("change password", err)
}

// EnsureAdmin creates the seed admin when no admin user exists. It reports
// whether a user was created.
func (s *Store) EnsureAdmin(ctx context.Context, seed AdminSeed) (bool, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM users WHERE is_admin = 1`); err != nil {
		return false, storeErr("ensure admin", err)
	}
	if n > 0 {
		return false, nil
	}
	if seed.Password == "" {
		return false, errors.New("ensure admin: no admin user exists and admin.password is not set")
	}
	_, err := s.CreateUser(ctx, UserInput{
		Username: seed.Username,
		Email:    seed.Email,
		Password: seed.Password,
		IsAdmin:  true,
	})
	if err != nil {
		return false, fmt.Errorf("ensure admin: %w", err)
	}
	return true, nil
}
