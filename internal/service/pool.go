package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository"
)

// MaxPoolCreditAmount caps a single top-up.
const MaxPoolCreditAmount = 100000

var (
	ErrInsufficientPoolBalance = repository.ErrInsufficientPoolBalance
	ErrPoolCreditTooLarge      = errors.New("credit amount exceeds the single top-up limit")
)

type PoolRepository interface {
	GetOrCreate(ctx context.Context, collegeID uint) (domain.RewardPool, error)
	Credit(ctx context.Context, collegeID uint, entry repository.PoolEntry) (domain.PoolTransaction, error)
	Debit(ctx context.Context, collegeID uint, entry repository.PoolEntry) (domain.PoolTransaction, error)
	GiveReward(ctx context.Context, collegeID, userID uint, entry repository.PoolEntry) (domain.RewardGrant, error)
	FindTransactions(ctx context.Context, collegeID uint, kind domain.PoolTransactionType, reason string, limit, offset int) ([]domain.PoolTransaction, int64, error)
	Analytics(ctx context.Context, collegeID uint) (domain.PoolAnalytics, error)
}

type PoolService struct {
	repo PoolRepository
}

func NewPoolService(repo PoolRepository) *PoolService {
	return &PoolService{
		repo: repo,
	}
}

func (s *PoolService) GetPool(ctx context.Context, collegeID uint) (domain.RewardPool, error) {
	pool, err := s.repo.GetOrCreate(ctx, collegeID)
	if err != nil {
		return domain.RewardPool{}, fmt.Errorf("s.repo.GetOrCreate -> %w", err)
	}

	return pool, nil
}

func (s *PoolService) CreditPool(ctx context.Context, collegeID uint, entry repository.PoolEntry) (domain.PoolTransaction, error) {
	if entry.Amount > MaxPoolCreditAmount {
		return domain.PoolTransaction{}, ErrPoolCreditTooLarge
	}

	txn, err := s.repo.Credit(ctx, collegeID, entry)
	if err != nil {
		return domain.PoolTransaction{}, fmt.Errorf("s.repo.Credit -> %w", err)
	}

	return txn, nil
}

func (s *PoolService) DebitPool(ctx context.Context, collegeID uint, entry repository.PoolEntry) (domain.PoolTransaction, error) {
	txn, err := s.repo.Debit(ctx, collegeID, entry)
	if err != nil {
		return domain.PoolTransaction{}, fmt.Errorf("s.repo.Debit -> %w", err)
	}

	return txn, nil
}

// GiveRewardFromPool moves points from the college pool to a user: one pool
// DEBIT and one EARNED ledger entry, atomically.
func (s *PoolService) GiveRewardFromPool(ctx context.Context, collegeID, userID uint, entry repository.PoolEntry) (domain.RewardGrant, error) {
	grant, err := s.repo.GiveReward(ctx, collegeID, userID, entry)
	if err != nil {
		return domain.RewardGrant{}, fmt.Errorf("s.repo.GiveReward -> %w", err)
	}

	return grant, nil
}

func (s *PoolService) GetTransactions(ctx context.Context, collegeID uint, kind domain.PoolTransactionType, reason string, limit, offset int) ([]domain.PoolTransaction, int64, error) {
	transactions, count, err := s.repo.FindTransactions(ctx, collegeID, kind, reason, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindTransactions -> %w", err)
	}

	return transactions, count, nil
}

func (s *PoolService) GetAnalytics(ctx context.Context, collegeID uint) (domain.PoolAnalytics, error) {
	analytics, err := s.repo.Analytics(ctx, collegeID)
	if err != nil {
		return domain.PoolAnalytics{}, fmt.Errorf("s.repo.Analytics -> %w", err)
	}

	return analytics, nil
}
