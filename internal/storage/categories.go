package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// CategoryPatch is a partial update: only non-nil fields change.
type CategoryPatch struct {
	Name     *string
	Type     *core.EntryType
	Group    *string
	Budgeted *core.Money
	Icon     *string
	Order    *int
}

// CreateCategory validates, assigns an id, and persists the category.
func (r *Repository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	c.ID = uuid.NewString()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, type, group_name, budgeted, icon, is_default, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, string(c.Type), c.Group, int64(c.Budgeted), c.Icon, c.IsDefault, c.Order, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return core.Category{}, storeErr("insert category", err)
	}
	return c, nil
}

// ListCategories returns the user's categories in display order.
func (r *Repository) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, type, group_name, budgeted, icon, is_default, sort_order, created_at, updated_at
		FROM categories WHERE user_id = ? ORDER BY sort_order, created_at, id`, userID)
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	defer rows.Close()

	cats := make([]core.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, storeErr("scan category", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate categories", err)
	}
	return cats, nil
}

// UpdateCategory applies a partial update. Changing the budgeted
// allocation is a planning action: it never touches wallet balances or
// transaction totals.
func (r *Repository) UpdateCategory(ctx context.Context, userID, id string, patch CategoryPatch) (core.Category, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var updated core.Category
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, user_id, name, type, group_name, budgeted, icon, is_default, sort_order, created_at, updated_at
			FROM categories WHERE user_id = ? AND id = ?`, userID, id)
		c, err := scanCategory(row)
		if err != nil {
			return storeErr("get category", err)
		}
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Type != nil {
			c.Type = *patch.Type
		}
		if patch.Group != nil {
			c.Group = *patch.Group
		}
		if patch.Budgeted != nil {
			c.Budgeted = *patch.Budgeted
		}
		if patch.Icon != nil {
			c.Icon = *patch.Icon
		}
		if patch.Order != nil {
			c.Order = *patch.Order
		}
		if err := c.Validate(); err != nil {
			return err
		}
		c.UpdatedAt = time.Now().UTC()
		_, err = tx.ExecContext(ctx, `
			UPDATE categories SET name = ?, type = ?, group_name = ?, budgeted = ?, icon = ?, sort_order = ?, updated_at = ?
			WHERE user_id = ? AND id = ?`,
			c.Name, string(c.Type), c.Group, int64(c.Budgeted), c.Icon, c.Order, c.UpdatedAt, userID, id)
		if err != nil {
			return storeErr("update category", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return core.Category{}, err
	}
	return updated, nil
}

// DeleteCategory removes one category. Transactions keep their free
// text category name; aggregation reports spill them into the
// uncategorized bucket from then on.
func (r *Repository) DeleteCategory(ctx context.Context, userID, id string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return storeErr("delete category", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete category", err)
	}
	if n == 0 {
		return storeErr("delete category", sql.ErrNoRows)
	}
	return nil
}

// ReplaceCategories atomically swaps the user's entire category set,
// delete-all-then-insert in a single transaction. Used by onboarding.
// A concurrent create/update on the same user either lands before the
// delete (and is replaced) or after the commit; it can never resurrect
// a deleted record mid-replace.
func (r *Repository) ReplaceCategories(ctx context.Context, userID string, cats []core.Category) ([]core.Category, error) {
	for i := range cats {
		cats[i].UserID = userID
		if err := cats[i].Validate(); err != nil {
			return nil, err
		}
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	stored := make([]core.Category, 0, len(cats))
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM categories WHERE user_id = ?`, userID); err != nil {
			return storeErr("delete categories", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO categories (id, user_id, name, type, group_name, budgeted, icon, is_default, sort_order, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return storeErr("prepare insert", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, c := range cats {
			c.ID = uuid.NewString()
			c.CreatedAt = now
			c.UpdatedAt = now
			if _, err := stmt.ExecContext(ctx,
				c.ID, c.UserID, c.Name, string(c.Type), c.Group, int64(c.Budgeted), c.Icon, c.IsDefault, c.Order, c.CreatedAt, c.UpdatedAt); err != nil {
				return storeErr("insert category", err)
			}
			stored = append(stored, c)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

func scanCategory(row rowScanner) (core.Category, error) {
	var c core.Category
	var typ string
	var budgeted int64
	err := row.Scan(&c.ID, &c.UserID, &c.Name, &typ, &c.Group, &budgeted, &c.Icon, &c.IsDefault, &c.Order, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return core.Category{}, err
	}
	c.Type = core.EntryType(typ)
	c.Budgeted = core.Money(budgeted)
	return c, nil
}
