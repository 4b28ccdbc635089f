package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

var testDay = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "txroundtrip@example.com")

	in := core.Transaction{
		UserID:   user.ID,
		Type:     core.TypeExpense,
		Amount:   1_200_000,
		Currency: core.CurrencyVND,
		Date:     testDay,
		Category: "food",
		Wallet:   "cash",
		Note:     "street food binge",
	}
	created, err := repo.CreateTransaction(ctx, in)
	require.NoError(t, err)

	page, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{Category: "food"})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 1)

	got := page.Transactions[0]
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, in.Type, got.Type)
	assert.Equal(t, in.Amount, got.Amount)
	assert.Equal(t, in.Currency, got.Currency)
	assert.True(t, in.Date.Equal(got.Date))
	assert.Equal(t, in.Category, got.Category)
	assert.Equal(t, in.Wallet, got.Wallet)
	assert.Equal(t, in.Note, got.Note)
}

func TestTransactionValidationAtCreate(t *testing.T) {
	repo := newTestRepo(t)
	user := seedUser(t, repo, "txbad@example.com")

	_, err := repo.CreateTransaction(context.Background(), core.Transaction{
		UserID: user.ID, Type: core.TypeExpense, Amount: 0,
		Currency: core.CurrencyVND, Date: testDay, Category: "food",
	})
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
}

func TestTransactionAdjustsWalletBalance(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "txbalance@example.com")

	wallet, err := repo.CreateWallet(ctx, core.Wallet{UserID: user.ID, Name: "cash", Balance: 5_000_000})
	require.NoError(t, err)

	created := seedTransaction(t, repo, user.ID, core.TypeExpense, 1_200_000, "food", "cash", testDay)

	got, err := repo.GetWallet(ctx, user.ID, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Money(3_800_000), got.Balance)

	// Editing the amount reverts the old movement and applies the new one.
	newAmount := core.Money(300_000)
	_, err = repo.UpdateTransaction(ctx, user.ID, created.ID, TransactionPatch{Amount: &newAmount})
	require.NoError(t, err)
	got, err = repo.GetWallet(ctx, user.ID, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Money(4_700_000), got.Balance)

	// Income credits.
	seedTransaction(t, repo, user.ID, core.TypeIncome, 1_000_000, "salary", "cash", testDay)
	got, err = repo.GetWallet(ctx, user.ID, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Money(5_700_000), got.Balance)

	// Deleting reverts.
	require.NoError(t, repo.DeleteTransaction(ctx, user.ID, created.ID))
	got, err = repo.GetWallet(ctx, user.ID, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Money(5_000_000+1_000_000), got.Balance)
}

func TestTransactionUnknownWalletStillRecorded(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "txnowallet@example.com")

	seedTransaction(t, repo, user.ID, core.TypeExpense, 500, "misc", "no-such-wallet", testDay)

	page, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
}

func TestTransactionDeleteIdempotence(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "txdelete@example.com")

	created := seedTransaction(t, repo, user.ID, core.TypeExpense, 100, "food", "", testDay)

	require.NoError(t, repo.DeleteTransaction(ctx, user.ID, created.ID))
	err := repo.DeleteTransaction(ctx, user.ID, created.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestTransactionFilters(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "txfilters@example.com")

	seedTransaction(t, repo, user.ID, core.TypeExpense, 300, "food and drink", "cash", testDay)
	seedTransaction(t, repo, user.ID, core.TypeExpense, 900, "transport", "bank", testDay.AddDate(0, 0, -10))
	seedTransaction(t, repo, user.ID, core.TypeIncome, 5000, "salary", "bank", testDay.AddDate(0, 0, -5))

	byType, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{Type: core.TypeIncome})
	require.NoError(t, err)
	assert.Equal(t, 1, byType.Total)

	bySubstring, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{Category: "food"})
	require.NoError(t, err)
	assert.Equal(t, 1, bySubstring.Total)

	from := testDay.AddDate(0, 0, -6)
	byDate, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{From: &from})
	require.NoError(t, err)
	assert.Equal(t, 2, byDate.Total)

	minA := core.Money(500)
	maxA := core.Money(1000)
	byAmount, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{MinAmount: &minA, MaxAmount: &maxA})
	require.NoError(t, err)
	require.Equal(t, 1, byAmount.Total)
	assert.Equal(t, "transport", byAmount.Transactions[0].Category)

	byWallet, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{Wallet: "bank"})
	require.NoError(t, err)
	assert.Equal(t, 2, byWallet.Total)
}

func TestTransactionSorting(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "txsort@example.com")

	seedTransaction(t, repo, user.ID, core.TypeExpense, 200, "b", "", testDay.AddDate(0, 0, -1))
	seedTransaction(t, repo, user.ID, core.TypeExpense, 100, "a", "", testDay)
	seedTransaction(t, repo, user.ID, core.TypeExpense, 300, "c", "", testDay.AddDate(0, 0, -2))

	// Default: date descending.
	page, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 3)
	assert.Equal(t, "a", page.Transactions[0].Category)
	assert.Equal(t, "c", page.Transactions[2].Category)

	// Explicit amount ascending.
	page, err = repo.ListTransactions(ctx, user.ID, TransactionFilter{SortBy: "amount", Ascending: true})
	require.NoError(t, err)
	assert.Equal(t, core.Money(100), page.Transactions[0].Amount)
	assert.Equal(t, core.Money(300), page.Transactions[2].Amount)

	// Unrecognized sort field silently falls back to date descending.
	page, err = repo.ListTransactions(ctx, user.ID, TransactionFilter{SortBy: "wibble; DROP TABLE transactions"})
	require.NoError(t, err)
	require.Len(t, page.Transactions, 3)
	assert.Equal(t, "a", page.Transactions[0].Category)
}

func TestTransactionPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "txpages@example.com")

	for i := 0; i < 205; i++ {
		seedTransaction(t, repo, user.ID, core.TypeExpense, core.Money(i+1),
			fmt.Sprintf("cat-%d", i%7), "", testDay.Add(time.Duration(i)*time.Minute))
	}

	page, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{Page: 1, PageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 205, page.Total)
	assert.Equal(t, 5, page.TotalPages)
	assert.Len(t, page.Transactions, 50)

	last, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{Page: 5, PageSize: 50})
	require.NoError(t, err)
	assert.Len(t, last.Transactions, 5)

	// Out-of-range page size clamps, page floor is 1.
	clamped, err := repo.ListTransactions(ctx, user.ID, TransactionFilter{Page: 0, PageSize: 10_000})
	require.NoError(t, err)
	assert.Equal(t, 1, clamped.Page)
	assert.Equal(t, maxPageSize, clamped.PageSize)
	assert.Equal(t, 2, clamped.TotalPages)
}

func TestDeleteAllTransactions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "txwipe@example.com")

	wallet, err := repo.CreateWallet(ctx, core.Wallet{UserID: user.ID, Name: "cash", Balance: 1_000_000})
	require.NoError(t, err)
	seedTransaction(t, repo, user.ID, core.TypeExpense, 400_000, "food", "cash", testDay)
	seedTransaction(t, repo, user.ID, core.TypeIncome, 100_000, "salary", "cash", testDay)

	count, err := repo.DeleteAllTransactions(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Balances move back to where they started.
	got, err := repo.GetWallet(ctx, user.ID, wallet.ID)
	require.NoError(t, err)
	assert.Equal(t, core.Money(1_000_000), got.Balance)

	// Wiping an empty ledger reports zero, not an error.
	count, err = repo.DeleteAllTransactions(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTransactionUserIsolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "txalice@example.com")
	bob := seedUser(t, repo, "txbob@example.com")

	created := seedTransaction(t, repo, alice.ID, core.TypeExpense, 100, "food", "", testDay)

	page, err := repo.ListTransactions(ctx, bob.ID, TransactionFilter{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)

	_, err = repo.UpdateTransaction(ctx, bob.ID, created.ID, TransactionPatch{})
	assert.ErrorIs(t, err, core.ErrNotFound)
}
