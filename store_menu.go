package modernblog

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

// MenuItemInput is the editable part of a MenuItem.
type MenuItemInput struct {
	Title  string `form:"title" validate:"notblank,max=100"`
	URL    string `form:"url" validate:"notblank,max=200"`
	Order  int    `form:"order"`
	Active bool   `form:"active"`
}

type menuRow struct {
	ID        int64  `db:"id"`
	Title     string `db:"title"`
	URL       string `db:"url"`
	Order     int    `db:"sort_order"`
	Active    bool   `db:"active"`
	CreatedAt string `db:"created_at"`
}

func (r menuRow) toMenuItem() MenuItem {
	return MenuItem{ID: r.ID, Title: r.Title, URL: r.URL, Order: r.Order, Active: r.Active, CreatedAt: parseTime(r.CreatedAt)}
}

const menuSelect = `SELECT id, title, url, sort_order, active, created_at FROM menu_items`

// CreateMenuItem stores a navigation link.
func (s *Store) CreateMenuItem(ctx context.Context, in MenuItemInput) (MenuItem, error) {
	if err := validateInput(in); err != nil {
		return MenuItem{}, err
	}
	res, err := s.db.ExecContext(ctx, `INSERT INTO menu_items (title, url, sort_order, active, created_at) VALUES (?, ?, ?, ?, ?)`,
		strings.TrimSpace(in.Title), strings.TrimSpace(in.URL), in.Order, in.Active, s.timestamp())
	if err != nil {
		return MenuItem{}, storeErr("create menu item", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return MenuItem{}, storeErr("create menu item", err)
	}
	return s.GetMenuItem(ctx, id)
}

// UpdateMenuItem replaces the fields of menu item id.
func (s *Store) UpdateMenuItem(ctx context.Context, id int64, in MenuItemInput) (MenuItem, error) {
	if err := validateInput(in); err != nil {
		return MenuItem{}, err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE menu_items SET title = ?, url = ?, sort_order = ?, active = ? WHERE id = ?`,
		strings.TrimSpace(in.Title), strings.TrimSpace(in.URL), in.Order, in.Active, id)
	if err == nil {
		err = requireAffected(res)
	}
	if err != nil {
		return MenuItem{}, storeErr("update menu item", err)
	}
	return s.GetMenuItem(ctx, id)
}

// DeleteMenuItem removes a menu item.
func (s *Store) DeleteMenuItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	if err == nil {
		err = requireAffected(res)
	}
	return storeErr("delete menu item", err)
}

// GetMenuItem returns a menu item by id.
func (s *Store) GetMenuItem(ctx context.Context, id int64) (MenuItem, error) {
	var row menuRow
	if err := s.db.GetContext(ctx, &row, menuSelect+` WHERE id = ?`, id); err != nil {
		return MenuItem{}, storeErr("get menu item", err)
	}
	return row.toMenuItem(), nil
}

// ListMenuItems returns all menu items in display order.
func (s *Store) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	return s.selectMenu(ctx, "list menu items", menuSelect+` ORDER BY sort_order, id`)
}

// ActiveMenuItems returns the active menu items in display order.
func (s *Store) ActiveMenuItems(ctx context.Context) ([]MenuItem, error) {
	return s.selectMenu(ctx, "active menu items", menuSelect+` WHERE active = 1 ORDER BY sort_order, id`)
}

func (s *Store) selectMenu(ctx context.Context, op, query string) ([]MenuItem, error) {
	var rows []menuRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, storeErr(op, err)
	}
	out := make([]MenuItem, len(rows))
	for i, r := range rows {
		out[i] = r.toMenuItem()
	}
	return out, nil
}

// ReorderMenuItems sets the order of the given items to their position in
// ids, starting at 1. Unknown ids fail the whole reorder.
func (s *Store) ReorderMenuItems(ctx context.Context, ids []int64) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		for i, id := range ids {
			res, err := tx.ExecContext(ctx, `UPDATE menu_items SET sort_order = ? WHERE id = ?`, i+1, id)
			if err != nil {
				return err
			}
			if err := requireAffected(res); err != nil {
				return err
			}
		}
		return nil
	})
	return storeErr("reorder menu items", err)
}
