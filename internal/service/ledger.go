package service

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository"
)

var ErrInsufficientPoints = repository.ErrInsufficientPoints

type LedgerRepository interface {
	GetBalance(ctx context.Context, userID uint) (int, error)
	SumByType(ctx context.Context, userID uint, kind domain.PointTransactionType) (int, error)
	FindTransactions(ctx context.Context, userID uint, limit, offset int) ([]domain.PointTransaction, int64, error)
	Reconcile(ctx context.Context, userID uint) (domain.Reconciliation, error)
}

type LedgerOrderRepository interface {
	SumPendingOrderPoints(ctx context.Context, userID uint) (int, error)
}

type LedgerService struct {
	repo   LedgerRepository
	orders LedgerOrderRepository
}

func NewLedgerService(repo LedgerRepository, orders LedgerOrderRepository) *LedgerService {
	return &LedgerService{
		repo:   repo,
		orders: orders,
	}
}

// GetBalance assembles the full balance summary. Checkout debits points at
// order creation, so the whole current balance is spendable;
// PendingOrdersPoints only reports what is tied up in open orders.
func (s *LedgerService) GetBalance(ctx context.Context, userID uint) (domain.Balance, error) {
	current, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("s.repo.GetBalance -> %w", err)
	}

	earned, err := s.repo.SumByType(ctx, userID, domain.PointEarned)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("s.repo.SumByType -> %w", err)
	}

	spent, err := s.repo.SumByType(ctx, userID, domain.PointSpent)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("s.repo.SumByType -> %w", err)
	}

	pending, err := s.orders.SumPendingOrderPoints(ctx, userID)
	if err != nil {
		return domain.Balance{}, fmt.Errorf("s.orders.SumPendingOrderPoints -> %w", err)
	}

	return domain.Balance{
		UserID:              userID,
		CurrentBalance:      current,
		TotalEarned:         earned,
		TotalSpent:          -spent,
		PendingOrdersPoints: pending,
		AvailableBalance:    current,
	}, nil
}

func (s *LedgerService) GetHistory(ctx context.Context, userID uint, limit, offset int) ([]domain.PointTransaction, int64, error) {
	transactions, count, err := s.repo.FindTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.FindTransactions -> %w", err)
	}

	return transactions, count, nil
}

func (s *LedgerService) Reconcile(ctx context.Context, userID uint) (domain.Reconciliation, error) {
	result, err := s.repo.Reconcile(ctx, userID)
	if err != nil {
		return domain.Reconciliation{}, fmt.Errorf("s.repo.Reconcile -> %w", err)
	}

	return result, nil
}
