package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLedgerService_GetBalance(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	user := env.signup(t, "alice@example.com", college.ID)
	ctx := context.Background()

	env.grantReward(t, college.ID, user.ID, 150)

	product := env.createProduct(t, college.ID, "Mug", 40, 10, 3)
	_, err := env.store.AddCartItem(ctx, user.ID, college.ID, product.ID, 2)
	require.NoError(t, err)
	_, err = env.store.Checkout(ctx, user.ID, college.ID, "")
	require.NoError(t, err)

	balance, err := env.ledger.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, WelcomeBonusPoints+150-80, balance.CurrentBalance)
	require.Equal(t, WelcomeBonusPoints+150, balance.TotalEarned)
	require.Equal(t, 80, balance.TotalSpent)
	require.Equal(t, 80, balance.PendingOrdersPoints)

	// Checkout already debited the order's points, so the whole current
	// balance stays spendable; the pending order is informational only.
	require.Equal(t, balance.CurrentBalance, balance.AvailableBalance)
}

func TestLedgerService_GetBalance_AvailableMatchesSpendable(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	user := env.signup(t, "alice@example.com", college.ID)
	ctx := context.Background()

	env.grantReward(t, college.ID, user.ID, 150)

	// 200 total. An 80-point pending order leaves 120 current.
	mug := env.createProduct(t, college.ID, "Mug", 40, 10, 3)
	_, err := env.store.AddCartItem(ctx, user.ID, college.ID, mug.ID, 2)
	require.NoError(t, err)
	_, err = env.store.Checkout(ctx, user.ID, college.ID, "")
	require.NoError(t, err)

	balance, err := env.ledger.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 120, balance.AvailableBalance)

	// Spending the entire reported available balance succeeds.
	hoodie := env.createProduct(t, college.ID, "Hoodie", 120, 5, 1)
	_, err = env.store.AddCartItem(ctx, user.ID, college.ID, hoodie.ID, 1)
	require.NoError(t, err)
	order, err := env.store.Checkout(ctx, user.ID, college.ID, "")
	require.NoError(t, err)
	require.Equal(t, 120, order.TotalPoints)

	balance, err = env.ledger.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, balance.CurrentBalance)
	require.Equal(t, 0, balance.AvailableBalance)
	require.Equal(t, 200, balance.PendingOrdersPoints)
}

func TestLedgerService_GetHistory(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	user := env.signup(t, "alice@example.com", college.ID)
	ctx := context.Background()

	env.grantReward(t, college.ID, user.ID, 25)
	env.grantReward(t, college.ID, user.ID, 75)

	history, count, err := env.ledger.GetHistory(ctx, user.ID, 2, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, count)
	require.Len(t, history, 2)

	// Newest first.
	require.Equal(t, 75, history[0].Points)
}

func TestLedgerService_Reconcile(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	user := env.signup(t, "alice@example.com", college.ID)
	ctx := context.Background()

	env.grantReward(t, college.ID, user.ID, 100)

	result, err := env.ledger.Reconcile(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, WelcomeBonusPoints+100, result.Balance)
	require.Equal(t, result.Balance, result.LedgerSum)
	require.True(t, result.InBalance)
}
