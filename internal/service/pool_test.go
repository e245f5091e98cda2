package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository"
)

func TestPoolService_CreditPool(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	ctx := context.Background()

	txn, err := env.pool.CreditPool(ctx, college.ID, repository.PoolEntry{
		Amount:      500,
		Reason:      domain.PoolReasonManualTopup,
		Description: "semester budget",
	})
	require.NoError(t, err)
	require.Equal(t, domain.PoolCredit, txn.Type)
	require.Equal(t, 500, txn.Amount)

	pool, err := env.pool.GetPool(ctx, college.ID)
	require.NoError(t, err)
	require.Equal(t, pool.InitialAllocation+500, pool.TotalBalance)
}

func TestPoolService_CreditPool_OverCap(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")

	_, err := env.pool.CreditPool(context.Background(), college.ID, repository.PoolEntry{
		Amount: MaxPoolCreditAmount + 1,
		Reason: domain.PoolReasonManualTopup,
	})
	require.ErrorIs(t, err, ErrPoolCreditTooLarge)
}

func TestPoolService_GiveRewardFromPool(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	user := env.signup(t, "alice@example.com", college.ID)
	ctx := context.Background()

	grant, err := env.pool.GiveRewardFromPool(ctx, college.ID, user.ID, repository.PoolEntry{
		Amount:      100,
		Reason:      domain.PoolReasonAdminReward,
		Description: "hackathon winner",
	})
	require.NoError(t, err)
	require.Equal(t, WelcomeBonusPoints+100, grant.UserBalance)
	require.Equal(t, domain.PoolDebit, grant.PoolTransaction.Type)
	require.NotNil(t, grant.PoolTransaction.BeneficiaryUserID)
	require.Equal(t, user.ID, *grant.PoolTransaction.BeneficiaryUserID)
}

func TestPoolService_GiveRewardFromPool_Insufficient(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	user := env.signup(t, "alice@example.com", college.ID)
	ctx := context.Background()

	pool, err := env.pool.GetPool(ctx, college.ID)
	require.NoError(t, err)

	_, err = env.pool.GiveRewardFromPool(ctx, college.ID, user.ID, repository.PoolEntry{
		Amount: pool.AvailableBalance() + 1,
		Reason: domain.PoolReasonAdminReward,
	})
	require.ErrorIs(t, err, ErrInsufficientPoolBalance)

	// The user's balance is untouched when the pool leg fails.
	balance, err := env.ledger.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, WelcomeBonusPoints, balance.CurrentBalance)
}
