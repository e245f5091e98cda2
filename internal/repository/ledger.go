package repository

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository/dao"
)

var (
	ErrInsufficientPoints = dao.ErrInsufficientPoints
)

type LedgerDAO interface {
	AppendTransaction(ctx context.Context, entry dao.PointTransaction) (dao.PointTransaction, error)
	GetBalance(ctx context.Context, userID uint) (int, error)
	SumByType(ctx context.Context, userID uint, kind string) (int, error)
	FindTransactions(ctx context.Context, userID uint, limit, offset int) ([]dao.PointTransaction, int64, error)
	Reconcile(ctx context.Context, userID uint) (dao.ReconcileResult, error)
}

type LedgerRepository struct {
	dao LedgerDAO
}

func NewLedgerRepository(dao LedgerDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func pointTxnDaoToDomain(t dao.PointTransaction) domain.PointTransaction {
	return domain.PointTransaction{
		ID:            t.ID,
		UserID:        t.UserID,
		Type:          domain.PointTransactionType(t.Type),
		Points:        t.Points,
		BalanceAfter:  t.BalanceAfter,
		Description:   t.Description,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
		CollegeID:     t.CollegeID,
		CreatedAt:     t.CreatedAt,
	}
}

// Append writes one standalone ledger entry with its balance update.
func (r *LedgerRepository) Append(ctx context.Context, entry domain.PointTransaction) (domain.PointTransaction, error) {
	created, err := r.dao.AppendTransaction(ctx, dao.PointTransaction{
		UserID:        entry.UserID,
		Type:          string(entry.Type),
		Points:        entry.Points,
		Description:   entry.Description,
		ReferenceType: entry.ReferenceType,
		ReferenceID:   entry.ReferenceID,
		CollegeID:     entry.CollegeID,
	})
	if err != nil {
		return domain.PointTransaction{}, fmt.Errorf("r.dao.AppendTransaction -> %w", err)
	}

	return pointTxnDaoToDomain(created), nil
}

func (r *LedgerRepository) GetBalance(ctx context.Context, userID uint) (int, error) {
	balance, err := r.dao.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.GetBalance -> %w", err)
	}

	return balance, nil
}

func (r *LedgerRepository) SumByType(ctx context.Context, userID uint, kind domain.PointTransactionType) (int, error) {
	sum, err := r.dao.SumByType(ctx, userID, string(kind))
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumByType -> %w", err)
	}

	return sum, nil
}

func (r *LedgerRepository) FindTransactions(ctx context.Context, userID uint, limit, offset int) ([]domain.PointTransaction, int64, error) {
	transactionsDAO, count, err := r.dao.FindTransactions(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindTransactions -> %w", err)
	}

	transactions := make([]domain.PointTransaction, len(transactionsDAO))
	for i, t := range transactionsDAO {
		transactions[i] = pointTxnDaoToDomain(t)
	}

	return transactions, count, nil
}

func (r *LedgerRepository) Reconcile(ctx context.Context, userID uint) (domain.Reconciliation, error) {
	result, err := r.dao.Reconcile(ctx, userID)
	if err != nil {
		return domain.Reconciliation{}, fmt.Errorf("r.dao.Reconcile -> %w", err)
	}

	return domain.Reconciliation{
		UserID:       result.UserID,
		Balance:      result.Balance,
		LedgerSum:    result.LedgerSum,
		InBalance:    result.Balance == result.LedgerSum,
		EntriesCount: result.EntriesCount,
	}, nil
}
