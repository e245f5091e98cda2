package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolDAO_GetOrCreate_Bootstrap(t *testing.T) {
	db := newTestDB(t)
	collegeID := seedCollege(t, db, "eng")
	pool := NewPoolDAO(db, NewLedgerDAO(db))
	ctx := context.Background()

	created, err := pool.GetOrCreate(ctx, collegeID)
	require.NoError(t, err)
	require.Equal(t, PoolInitialAllocation, created.TotalBalance)
	require.Equal(t, PoolInitialAllocation, created.InitialAllocation)
	require.Equal(t, PoolInitialAllocation, created.LifetimeCredits)
	require.Equal(t, PoolLowBalanceThreshold, created.LowBalanceThreshold)

	// The bootstrap CREDIT row is written exactly once.
	transactions, count, err := pool.FindTransactions(ctx, collegeID, "CREDIT", "manual_topup", 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
	require.Equal(t, PoolInitialAllocation, transactions[0].Amount)
	require.Equal(t, 0, transactions[0].BalanceBefore)
	require.Equal(t, PoolInitialAllocation, transactions[0].BalanceAfter)

	// Second call is a plain read.
	again, err := pool.GetOrCreate(ctx, collegeID)
	require.NoError(t, err)
	require.Equal(t, created.ID, again.ID)

	_, count, err = pool.FindTransactions(ctx, collegeID, "", "", 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestPoolDAO_CreditAndDebit(t *testing.T) {
	db := newTestDB(t)
	collegeID := seedCollege(t, db, "eng")
	pool := NewPoolDAO(db, NewLedgerDAO(db))
	ctx := context.Background()

	credit, err := pool.Credit(ctx, collegeID, PoolEntry{
		Amount: 500,
		Reason: "manual_topup",
	})
	require.NoError(t, err)
	require.Equal(t, PoolInitialAllocation, credit.BalanceBefore)
	require.Equal(t, PoolInitialAllocation+500, credit.BalanceAfter)

	debit, err := pool.Debit(ctx, collegeID, PoolEntry{
		Amount: 300,
		Reason: "admin_reward",
	})
	require.NoError(t, err)
	require.Equal(t, PoolInitialAllocation+500, debit.BalanceBefore)
	require.Equal(t, PoolInitialAllocation+200, debit.BalanceAfter)

	current, err := pool.GetOrCreate(ctx, collegeID)
	require.NoError(t, err)
	require.Equal(t, PoolInitialAllocation+200, current.TotalBalance)
	require.Equal(t, PoolInitialAllocation+500, current.LifetimeCredits)
	require.Equal(t, 300, current.LifetimeDebits)
}

func TestPoolDAO_Debit_Insufficient(t *testing.T) {
	db := newTestDB(t)
	collegeID := seedCollege(t, db, "eng")
	pool := NewPoolDAO(db, NewLedgerDAO(db))
	ctx := context.Background()

	_, err := pool.Debit(ctx, collegeID, PoolEntry{
		Amount: PoolInitialAllocation + 1,
		Reason: "admin_reward",
	})
	require.ErrorIs(t, err, ErrInsufficientPoolBalance)

	// Pool untouched, no DEBIT row written.
	current, err := pool.GetOrCreate(ctx, collegeID)
	require.NoError(t, err)
	require.Equal(t, PoolInitialAllocation, current.TotalBalance)
	require.Equal(t, 0, current.LifetimeDebits)

	_, count, err := pool.FindTransactions(ctx, collegeID, "DEBIT", "", 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestPoolDAO_GiveReward(t *testing.T) {
	db := newTestDB(t)
	collegeID := seedCollege(t, db, "eng")
	userID := seedUser(t, db, "alice@example.com", collegeID)
	ledger := NewLedgerDAO(db)
	pool := NewPoolDAO(db, ledger)
	ctx := context.Background()

	poolTxn, userBalance, err := pool.GiveReward(ctx, collegeID, userID, PoolEntry{
		Amount:      50,
		Reason:      "welcome_bonus",
		Description: "Welcome bonus",
	})
	require.NoError(t, err)
	require.Equal(t, "DEBIT", poolTxn.Type)
	require.Equal(t, 50, poolTxn.Amount)
	require.NotNil(t, poolTxn.BeneficiaryUserID)
	require.Equal(t, userID, *poolTxn.BeneficiaryUserID)
	require.Equal(t, 50, userBalance)

	// Pool decreased by exactly the granted amount.
	current, err := pool.GetOrCreate(ctx, collegeID)
	require.NoError(t, err)
	require.Equal(t, PoolInitialAllocation-50, current.TotalBalance)

	// The beneficiary got a single EARNED entry.
	earned, err := ledger.SumByType(ctx, userID, "EARNED")
	require.NoError(t, err)
	require.Equal(t, 50, earned)
}

func TestPoolDAO_GiveReward_InsufficientPool(t *testing.T) {
	db := newTestDB(t)
	collegeID := seedCollege(t, db, "eng")
	userID := seedUser(t, db, "alice@example.com", collegeID)
	ledger := NewLedgerDAO(db)
	pool := NewPoolDAO(db, ledger)
	ctx := context.Background()

	_, _, err := pool.GiveReward(ctx, collegeID, userID, PoolEntry{
		Amount: PoolInitialAllocation + 1,
		Reason: "admin_reward",
	})
	require.ErrorIs(t, err, ErrInsufficientPoolBalance)

	// Neither leg committed.
	balance, err := ledger.GetBalance(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, 0, balance)

	current, err := pool.GetOrCreate(ctx, collegeID)
	require.NoError(t, err)
	require.Equal(t, PoolInitialAllocation, current.TotalBalance)
}

func TestPoolDAO_Aggregates(t *testing.T) {
	db := newTestDB(t)
	collegeID := seedCollege(t, db, "eng")
	userID := seedUser(t, db, "alice@example.com", collegeID)
	pool := NewPoolDAO(db, NewLedgerDAO(db))
	ctx := context.Background()

	_, _, err := pool.GiveReward(ctx, collegeID, userID, PoolEntry{Amount: 50, Reason: "welcome_bonus"})
	require.NoError(t, err)
	_, _, err = pool.GiveReward(ctx, collegeID, userID, PoolEntry{Amount: 20, Reason: "post_reward"})
	require.NoError(t, err)
	_, _, err = pool.GiveReward(ctx, collegeID, userID, PoolEntry{Amount: 30, Reason: "admin_reward"})
	require.NoError(t, err)

	aggregates, err := pool.Aggregates(ctx, collegeID)
	require.NoError(t, err)
	require.Equal(t, PoolInitialAllocation, aggregates.TotalCredits)
	require.Equal(t, 100, aggregates.TotalDebits)
	require.Equal(t, 4, aggregates.TransactionsCount)
	require.Equal(t, 1, aggregates.WelcomeBonusesCount)
	require.Equal(t, 1, aggregates.PostRewardsCount)
	require.Equal(t, 1, aggregates.AdminRewardsCount)
}
