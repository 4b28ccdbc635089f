package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "fintrack.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *Repository, email string) core.User {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), core.User{Email: email, Name: "Test User"})
	require.NoError(t, err)
	return u
}

func seedTransaction(t *testing.T, repo *Repository, userID string, typ core.EntryType, amount core.Money, category, wallet string, date time.Time) core.Transaction {
	t.Helper()
	tx, err := repo.CreateTransaction(context.Background(), core.Transaction{
		UserID:   userID,
		Type:     typ,
		Amount:   amount,
		Currency: core.CurrencyVND,
		Date:     date,
		Category: category,
		Wallet:   wallet,
	})
	require.NoError(t, err)
	return tx
}
