package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func TestWalletCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "wallets@example.com")

	created, err := repo.CreateWallet(ctx, core.Wallet{
		UserID:  user.ID,
		Name:    "Cash",
		Balance: 5_000_000,
		Icon:    "wallet",
		Color:   "green",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := repo.GetWallet(ctx, user.ID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, core.Money(5_000_000), got.Balance)

	newName := "Cash (main)"
	newBalance := core.Money(4_000_000)
	updated, err := repo.UpdateWallet(ctx, user.ID, created.ID, WalletPatch{
		Name:    &newName,
		Balance: &newBalance,
	})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, newBalance, updated.Balance)
	// Untouched fields survive a partial update.
	assert.Equal(t, "green", updated.Color)

	require.NoError(t, repo.DeleteWallet(ctx, user.ID, created.ID))
	err = repo.DeleteWallet(ctx, user.ID, created.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestWalletValidationAtCreate(t *testing.T) {
	repo := newTestRepo(t)
	user := seedUser(t, repo, "walletsbad@example.com")

	_, err := repo.CreateWallet(context.Background(), core.Wallet{UserID: user.ID, Name: "   "})
	require.Error(t, err)
	assert.True(t, core.IsValidation(err))
}

func TestWalletDefaultIsExclusive(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, repo, "walletdefault@example.com")

	first, err := repo.CreateWallet(ctx, core.Wallet{UserID: user.ID, Name: "A", IsDefault: true})
	require.NoError(t, err)
	_, err = repo.CreateWallet(ctx, core.Wallet{UserID: user.ID, Name: "B", IsDefault: true})
	require.NoError(t, err)

	wallets, err := repo.ListWallets(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
	defaults := 0
	for _, w := range wallets {
		if w.IsDefault {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)

	got, err := repo.GetWallet(ctx, user.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsDefault)
}

func TestWalletOwnershipIsolation(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	alice := seedUser(t, repo, "alice@example.com")
	bob := seedUser(t, repo, "bob@example.com")

	w, err := repo.CreateWallet(ctx, core.Wallet{UserID: alice.ID, Name: "Alice cash"})
	require.NoError(t, err)

	_, err = repo.GetWallet(ctx, bob.ID, w.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
	err = repo.DeleteWallet(ctx, bob.ID, w.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	wallets, err := repo.ListWallets(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, wallets)
}
