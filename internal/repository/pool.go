package repository

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository/dao"
)

var (
	ErrInsufficientPoolBalance = dao.ErrInsufficientPoolBalance
)

type PoolDAO interface {
	GetOrCreate(ctx context.Context, collegeID uint) (dao.RewardPool, error)
	Credit(ctx context.Context, collegeID uint, entry dao.PoolEntry) (dao.PoolTransaction, error)
	Debit(ctx context.Context, collegeID uint, entry dao.PoolEntry) (dao.PoolTransaction, error)
	GiveReward(ctx context.Context, collegeID, userID uint, entry dao.PoolEntry) (dao.PoolTransaction, int, error)
	FindTransactions(ctx context.Context, collegeID uint, kind, reason string, limit, offset int) ([]dao.PoolTransaction, int64, error)
	Aggregates(ctx context.Context, collegeID uint) (dao.PoolAggregates, error)
}

type PoolRepository struct {
	dao PoolDAO
}

func NewPoolRepository(dao PoolDAO) *PoolRepository {
	return &PoolRepository{
		dao: dao,
	}
}

func poolDaoToDomain(p dao.RewardPool) domain.RewardPool {
	return domain.RewardPool{
		ID:                  p.ID,
		CollegeID:           p.CollegeID,
		TotalBalance:        p.TotalBalance,
		ReservedBalance:     p.ReservedBalance,
		InitialAllocation:   p.InitialAllocation,
		LifetimeCredits:     p.LifetimeCredits,
		LifetimeDebits:      p.LifetimeDebits,
		LowBalanceThreshold: p.LowBalanceThreshold,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func poolTxnDaoToDomain(t dao.PoolTransaction) domain.PoolTransaction {
	return domain.PoolTransaction{
		ID:                t.ID,
		CollegeID:         t.CollegeID,
		Type:              domain.PoolTransactionType(t.Type),
		Amount:            t.Amount,
		BalanceBefore:     t.BalanceBefore,
		BalanceAfter:      t.BalanceAfter,
		Reason:            t.Reason,
		Description:       t.Description,
		ReferenceType:     t.ReferenceType,
		ReferenceID:       t.ReferenceID,
		BeneficiaryUserID: t.BeneficiaryUserID,
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
	}
}

// PoolEntry carries metadata for one pool mutation into the DAO.
type PoolEntry struct {
	Amount        int
	Reason        string
	Description   string
	ReferenceType string
	ReferenceID   uint
	CreatedBy     *uint
}

func (e PoolEntry) toDao() dao.PoolEntry {
	return dao.PoolEntry{
		Amount:        e.Amount,
		Reason:        e.Reason,
		Description:   e.Description,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		CreatedBy:     e.CreatedBy,
	}
}

func (r *PoolRepository) GetOrCreate(ctx context.Context, collegeID uint) (domain.RewardPool, error) {
	pool, err := r.dao.GetOrCreate(ctx, collegeID)
	if err != nil {
		return domain.RewardPool{}, fmt.Errorf("r.dao.GetOrCreate -> %w", err)
	}

	return poolDaoToDomain(pool), nil
}

func (r *PoolRepository) Credit(ctx context.Context, collegeID uint, entry PoolEntry) (domain.PoolTransaction, error) {
	transaction, err := r.dao.Credit(ctx, collegeID, entry.toDao())
	if err != nil {
		return domain.PoolTransaction{}, fmt.Errorf("r.dao.Credit -> %w", err)
	}

	return poolTxnDaoToDomain(transaction), nil
}

func (r *PoolRepository) Debit(ctx context.Context, collegeID uint, entry PoolEntry) (domain.PoolTransaction, error) {
	transaction, err := r.dao.Debit(ctx, collegeID, entry.toDao())
	if err != nil {
		return domain.PoolTransaction{}, fmt.Errorf("r.dao.Debit -> %w", err)
	}

	return poolTxnDaoToDomain(transaction), nil
}

func (r *PoolRepository) GiveReward(ctx context.Context, collegeID, userID uint, entry PoolEntry) (domain.RewardGrant, error) {
	transaction, userBalance, err := r.dao.GiveReward(ctx, collegeID, userID, entry.toDao())
	if err != nil {
		return domain.RewardGrant{}, fmt.Errorf("r.dao.GiveReward -> %w", err)
	}

	return domain.RewardGrant{
		PoolTransaction: poolTxnDaoToDomain(transaction),
		UserBalance:     userBalance,
	}, nil
}

func (r *PoolRepository) FindTransactions(ctx context.Context, collegeID uint, kind domain.PoolTransactionType, reason string, limit, offset int) ([]domain.PoolTransaction, int64, error) {
	transactionsDAO, count, err := r.dao.FindTransactions(ctx, collegeID, string(kind), reason, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindTransactions -> %w", err)
	}

	transactions := make([]domain.PoolTransaction, len(transactionsDAO))
	for i, t := range transactionsDAO {
		transactions[i] = poolTxnDaoToDomain(t)
	}

	return transactions, count, nil
}

func (r *PoolRepository) Analytics(ctx context.Context, collegeID uint) (domain.PoolAnalytics, error) {
	aggregates, err := r.dao.Aggregates(ctx, collegeID)
	if err != nil {
		return domain.PoolAnalytics{}, fmt.Errorf("r.dao.Aggregates -> %w", err)
	}

	return domain.PoolAnalytics{
		CollegeID:           collegeID,
		TotalCredits:        aggregates.TotalCredits,
		TotalDebits:         aggregates.TotalDebits,
		TransactionsCount:   aggregates.TransactionsCount,
		WelcomeBonusesCount: aggregates.WelcomeBonusesCount,
		PostRewardsCount:    aggregates.PostRewardsCount,
		AdminRewardsCount:   aggregates.AdminRewardsCount,
	}, nil
}
