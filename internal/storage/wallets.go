package storage

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// WalletPatch is a partial update: only non-nil fields change.
type WalletPatch struct {
	Name      *string
	Balance   *core.Money
	Icon      *string
	Color     *string
	IsDefault *bool
}

// CreateWallet validates, assigns an id, and persists the wallet. When
// the new wallet is marked default, the previous default is cleared in
// the same transaction.
func (r *Repository) CreateWallet(ctx context.Context, w core.Wallet) (core.Wallet, error) {
	if err := w.Validate(); err != nil {
		return core.Wallet{}, err
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	w.ID = uuid.NewString()
	w.CreatedAt = now
	w.UpdatedAt = now

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if w.IsDefault {
			if _, err := tx.ExecContext(ctx,
				`UPDATE wallets SET is_default = 0 WHERE user_id = ?`, w.UserID); err != nil {
				return storeErr("clear default wallet", err)
			}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO wallets (id, user_id, name, balance, icon, color, is_default, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			w.ID, w.UserID, w.Name, int64(w.Balance), w.Icon, w.Color, w.IsDefault, w.CreatedAt, w.UpdatedAt)
		if err != nil {
			return storeErr("insert wallet", err)
		}
		return nil
	})
	if err != nil {
		return core.Wallet{}, err
	}
	return w, nil
}

// ListWallets returns the user's wallets in creation order.
func (r *Repository) ListWallets(ctx context.Context, userID string) ([]core.Wallet, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, name, balance, icon, color, is_default, created_at, updated_at
		FROM wallets WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, storeErr("list wallets", err)
	}
	defer rows.Close()

	wallets := make([]core.Wallet, 0)
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, storeErr("scan wallet", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate wallets", err)
	}
	return wallets, nil
}

// GetWallet fetches one wallet owned by userID.
func (r *Repository) GetWallet(ctx context.Context, userID, id string) (core.Wallet, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, balance, icon, color, is_default, created_at, updated_at
		FROM wallets WHERE user_id = ? AND id = ?`, userID, id)
	w, err := scanWallet(row)
	if err != nil {
		return core.Wallet{}, storeErr("get wallet", err)
	}
	return w, nil
}

// UpdateWallet applies a partial update. NotFound when the wallet does
// not exist or belongs to another user.
func (r *Repository) UpdateWallet(ctx context.Context, userID, id string, patch WalletPatch) (core.Wallet, error) {
	if patch.Name != nil {
		probe := core.Wallet{Name: *patch.Name}
		if err := probe.Validate(); err != nil {
			return core.Wallet{}, err
		}
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var updated core.Wallet
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, user_id, name, balance, icon, color, is_default, created_at, updated_at
			FROM wallets WHERE user_id = ? AND id = ?`, userID, id)
		w, err := scanWallet(row)
		if err != nil {
			return storeErr("get wallet", err)
		}
		if patch.Name != nil {
			w.Name = *patch.Name
		}
		if patch.Balance != nil {
			w.Balance = *patch.Balance
		}
		if patch.Icon != nil {
			w.Icon = *patch.Icon
		}
		if patch.Color != nil {
			w.Color = *patch.Color
		}
		if patch.IsDefault != nil {
			w.IsDefault = *patch.IsDefault
			if w.IsDefault {
				if _, err := tx.ExecContext(ctx,
					`UPDATE wallets SET is_default = 0 WHERE user_id = ? AND id <> ?`, userID, id); err != nil {
					return storeErr("clear default wallet", err)
				}
			}
		}
		w.UpdatedAt = time.Now().UTC()
		_, err = tx.ExecContext(ctx, `
			UPDATE wallets SET name = ?, balance = ?, icon = ?, color = ?, is_default = ?, updated_at = ?
			WHERE user_id = ? AND id = ?`,
			w.Name, int64(w.Balance), w.Icon, w.Color, w.IsDefault, w.UpdatedAt, userID, id)
		if err != nil {
			return storeErr("update wallet", err)
		}
		updated = w
		return nil
	})
	if err != nil {
		return core.Wallet{}, err
	}
	return updated, nil
}

// DeleteWallet removes one wallet. Transactions referencing it by name
// are kept; they simply no longer resolve to a wallet.
func (r *Repository) DeleteWallet(ctx context.Context, userID, id string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM wallets WHERE user_id = ? AND id = ?`, userID, id)
	if err != nil {
		return storeErr("delete wallet", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeErr("delete wallet", err)
	}
	if n == 0 {
		return storeErr("delete wallet", sql.ErrNoRows)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (core.Wallet, error) {
	var w core.Wallet
	var balance int64
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &balance, &w.Icon, &w.Color, &w.IsDefault, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return core.Wallet{}, err
	}
	w.Balance = core.Money(balance)
	return w, nil
}
