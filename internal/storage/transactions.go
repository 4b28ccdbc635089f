package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

// Sortable transaction fields. Anything else silently falls back to
// the default (date descending), never an error.
var sortColumns = map[string]string{
	"date":      "tx_date",
	"amount":    "amount",
	"category":  "category",
	"createdAt": "created_at",
}

// TransactionFilter narrows and orders a transaction listing. Zero
// values mean "no constraint".
type TransactionFilter struct {
	Type      core.EntryType
	Category  string // substring match
	Wallet    string // exact match
	Note      string // substring match
	From      *time.Time
	To        *time.Time
	MinAmount *core.Money
	MaxAmount *core.Money

	SortBy    string
	Ascending bool

	Page     int
	PageSize int
}

// TransactionPage is one page of results plus the count totals the
// client pages with.
type TransactionPage struct {
	Transactions []core.Transaction
	Total        int
	Page         int
	PageSize     int
	TotalPages   int
}

// TransactionPatch is a partial update: only non-nil fields change.
type TransactionPatch struct {
	Type     *core.EntryType
	Amount   *core.Money
	Currency *string
	Date     *time.Time
	Category *string
	Wallet   *string
	Note     *string
}

// CreateTransaction persists the transaction and, in the same SQL
// transaction, applies its signed amount to the referenced wallet's
// balance. A wallet name that matches nothing is fine: the record is
// kept and there is simply no balance to move.
func (r *Repository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if t.Currency == "" {
		t.Currency = core.DefaultCurrency
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	now := time.Now().UTC()
	t.ID = uuid.NewString()
	t.CreatedAt = now
	t.UpdatedAt = now

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO transactions (id, user_id, type, amount, currency, tx_date, category, wallet, note, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.UserID, string(t.Type), int64(t.Amount), t.Currency, t.Date, t.Category, t.Wallet, t.Note, t.CreatedAt, t.UpdatedAt)
		if err != nil {
			return storeErr("insert transaction", err)
		}
		return adjustWalletBalance(ctx, tx, t.UserID, t.Wallet, t.Signed())
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// ListTransactions applies the filter, sort, and pagination rules from
// the ledger contract: pageSize clamped to [1,200], page >= 1, default
// sort date descending with a stable creation-order tie break.
func (r *Repository) ListTransactions(ctx context.Context, userID string, f TransactionFilter) (TransactionPage, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	where := []string{"user_id = ?"}
	args := []any{userID}
	if f.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(f.Type))
	}
	if f.Category != "" {
		where = append(where, `category LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Category)+"%")
	}
	if f.Wallet != "" {
		where = append(where, "wallet = ?")
		args = append(args, f.Wallet)
	}
	if f.Note != "" {
		where = append(where, `note LIKE ? ESCAPE '\'`)
		args = append(args, "%"+escapeLike(f.Note)+"%")
	}
	if f.From != nil {
		where = append(where, "tx_date >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		where = append(where, "tx_date <= ?")
		args = append(args, *f.To)
	}
	if f.MinAmount != nil {
		where = append(where, "amount >= ?")
		args = append(args, int64(*f.MinAmount))
	}
	if f.MaxAmount != nil {
		where = append(where, "amount <= ?")
		args = append(args, int64(*f.MaxAmount))
	}
	cond := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM transactions WHERE "+cond, args...).Scan(&total); err != nil {
		return TransactionPage{}, storeErr("count transactions", err)
	}

	col, ok := sortColumns[f.SortBy]
	dir := "ASC"
	if !ok {
		// Unknown sort field: fall back to the default ordering.
		col = "tx_date"
		dir = "DESC"
	} else if !f.Ascending {
		dir = "DESC"
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	pageSize := f.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := "SELECT id, user_id, type, amount, currency, tx_date, category, wallet, note, created_at, updated_at" +
		" FROM transactions WHERE " + cond +
		" ORDER BY " + col + " " + dir + ", created_at ASC, id ASC" +
		" LIMIT ? OFFSET ?"
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return TransactionPage{}, storeErr("list transactions", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return TransactionPage{}, storeErr("scan transaction", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return TransactionPage{}, storeErr("iterate transactions", err)
	}

	return TransactionPage{
		Transactions: txs,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   (total + pageSize - 1) / pageSize,
	}, nil
}

// AllTransactions returns the user's entire transaction history in
// date order, unpaginated. The aggregation engine recomputes derived
// views over full snapshots, so this is its feed.
func (r *Repository) AllTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, currency, tx_date, category, wallet, note, created_at, updated_at
		FROM transactions WHERE user_id = ?
		ORDER BY tx_date, created_at, id`, userID)
	if err != nil {
		return nil, storeErr("list all transactions", err)
	}
	defer rows.Close()

	txs := make([]core.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, storeErr("scan transaction", err)
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate transactions", err)
	}
	return txs, nil
}

// GetTransaction fetches one transaction owned by userID.
func (r *Repository) GetTransaction(ctx context.Context, userID, id string) (core.Transaction, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, type, amount, currency, tx_date, category, wallet, note, created_at, updated_at
		FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
	t, err := scanTransaction(row)
	if err != nil {
		return core.Transaction{}, storeErr("get transaction", err)
	}
	return t, nil
}

// UpdateTransaction applies a partial update and rebalances wallets:
// the old signed amount is reverted on the old wallet and the new one
// applied to the new wallet, all in one SQL transaction.
func (r *Repository) UpdateTransaction(ctx context.Context, userID, id string, patch TransactionPatch) (core.Transaction, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var updated core.Transaction
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, user_id, type, amount, currency, tx_date, category, wallet, note, created_at, updated_at
			FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
		old, err := scanTransaction(row)
		if err != nil {
			return storeErr("get transaction", err)
		}
		t := old
		if patch.Type != nil {
			t.Type = *patch.Type
		}
		if patch.Amount != nil {
			t.Amount = *patch.Amount
		}
		if patch.Currency != nil {
			t.Currency = *patch.Currency
		}
		if patch.Date != nil {
			t.Date = *patch.Date
		}
		if patch.Category != nil {
			t.Category = *patch.Category
		}
		if patch.Wallet != nil {
			t.Wallet = *patch.Wallet
		}
		if patch.Note != nil {
			t.Note = *patch.Note
		}
		if err := t.Validate(); err != nil {
			return err
		}
		t.UpdatedAt = time.Now().UTC()

		if _, err := tx.ExecContext(ctx, `
			UPDATE transactions SET type = ?, amount = ?, currency = ?, tx_date = ?, category = ?, wallet = ?, note = ?, updated_at = ?
			WHERE user_id = ? AND id = ?`,
			string(t.Type), int64(t.Amount), t.Currency, t.Date, t.Category, t.Wallet, t.Note, t.UpdatedAt, userID, id); err != nil {
			return storeErr("update transaction", err)
		}
		if err := adjustWalletBalance(ctx, tx, userID, old.Wallet, -old.Signed()); err != nil {
			return err
		}
		if err := adjustWalletBalance(ctx, tx, userID, t.Wallet, t.Signed()); err != nil {
			return err
		}
		updated = t
		return nil
	})
	if err != nil {
		return core.Transaction{}, err
	}
	return updated, nil
}

// DeleteTransaction removes one transaction and reverts its effect on
// the referenced wallet's balance.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	return r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			SELECT id, user_id, type, amount, currency, tx_date, category, wallet, note, created_at, updated_at
			FROM transactions WHERE user_id = ? AND id = ?`, userID, id)
		t, err := scanTransaction(row)
		if err != nil {
			return storeErr("get transaction", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE user_id = ? AND id = ?`, userID, id); err != nil {
			return storeErr("delete transaction", err)
		}
		return adjustWalletBalance(ctx, tx, userID, t.Wallet, -t.Signed())
	})
}

// DeleteAllTransactions wipes the user's transaction history and
// reverts every wallet balance movement it caused. Returns the number
// of deleted records, possibly zero.
func (r *Repository) DeleteAllTransactions(ctx context.Context, userID string) (int, error) {
	ctx, cancel := r.opCtx(ctx)
	defer cancel()

	var count int
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			UPDATE wallets SET balance = balance - (
				SELECT COALESCE(SUM(CASE WHEN t.type = 'income' THEN t.amount ELSE -t.amount END), 0)
				FROM transactions t
				WHERE t.user_id = wallets.user_id AND t.wallet = wallets.name
			)
			WHERE user_id = ?`, userID); err != nil {
			return storeErr("revert wallet balances", err)
		}
		res, err := tx.ExecContext(ctx,
			`DELETE FROM transactions WHERE user_id = ?`, userID)
		if err != nil {
			return storeErr("delete transactions", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storeErr("delete transactions", err)
		}
		count = int(n)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// adjustWalletBalance moves the named wallet's balance by delta.
// Matching zero wallets is not an error: the wallet reference is free
// text and may point at nothing.
func adjustWalletBalance(ctx context.Context, tx *sql.Tx, userID, walletName string, delta core.Money) error {
	if walletName == "" || delta == 0 {
		return nil
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE wallets SET balance = balance + ?, updated_at = ? WHERE user_id = ? AND name = ?`,
		int64(delta), time.Now().UTC(), userID, walletName)
	if err != nil {
		return storeErr("adjust wallet balance", err)
	}
	return nil
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	return strings.ReplaceAll(s, "_", `\_`)
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var t core.Transaction
	var typ string
	var amount int64
	err := row.Scan(&t.ID, &t.UserID, &typ, &amount, &t.Currency, &t.Date, &t.Category, &t.Wallet, &t.Note, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Type = core.EntryType(typ)
	t.Amount = core.Money(amount)
	return t, nil
}
