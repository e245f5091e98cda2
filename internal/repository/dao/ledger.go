package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientPoints = errors.New("insufficient points")
)

// RewardPoint is the materialized balance, one row per user. It is only
// mutated inside the same transaction as a point_transactions insert.
type RewardPoint struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"uniqueIndex;not null"`
	TotalPoints int  `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PointTransaction rows are append-only; they are never updated or deleted.
type PointTransaction struct {
	ID            uint   `gorm:"primaryKey"`
	UserID        uint   `gorm:"index;not null"`
	Type          string `gorm:"not null"`
	Points        int    `gorm:"not null"`
	BalanceAfter  int    `gorm:"not null"`
	Description   string
	ReferenceType string
	ReferenceID   uint
	CollegeID     uint `gorm:"index;not null"`
	CreatedAt     time.Time
}

type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

// applyPoints applies a signed delta to the user's materialized balance
// within tx. The non-negativity check lives in the WHERE clause so the read,
// the check and the write are a single atomic statement; two concurrent
// calls against the same user serialize on the row lock. Returns the new
// balance, or ErrInsufficientPoints without touching the row.
func applyPoints(tx *gorm.DB, userID uint, delta int) (int, error) {
	balance := RewardPoint{UserID: userID}
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&balance).Error
	if err != nil {
		return 0, err
	}

	if delta != 0 {
		result := tx.Model(&RewardPoint{}).
			Where("user_id = ? AND total_points + ? >= 0", userID, delta).
			Update("total_points", gorm.Expr("total_points + ?", delta))
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected == 0 {
			return 0, ErrInsufficientPoints
		}
	}

	var updated RewardPoint
	if err = tx.Where("user_id = ?", userID).Take(&updated).Error; err != nil {
		return 0, err
	}

	return updated.TotalPoints, nil
}

// Append applies entry.Points to the user's balance and writes the ledger
// row inside the caller's transaction. The balance update and the insert
// commit or roll back together with everything else in tx.
func (d *LedgerDAO) Append(tx *gorm.DB, entry PointTransaction) (PointTransaction, error) {
	newBalance, err := applyPoints(tx, entry.UserID, entry.Points)
	if err != nil {
		return PointTransaction{}, err
	}

	entry.BalanceAfter = newBalance
	if err = tx.Create(&entry).Error; err != nil {
		return PointTransaction{}, err
	}

	return entry, nil
}

// AppendTransaction runs Append in its own transaction, for callers that
// have no larger atomic unit to join.
func (d *LedgerDAO) AppendTransaction(ctx context.Context, entry PointTransaction) (PointTransaction, error) {
	var created PointTransaction

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txnErr error
		created, txnErr = d.Append(tx, entry)
		return txnErr
	})
	if err != nil {
		return PointTransaction{}, err
	}

	return created, nil
}

func (d *LedgerDAO) GetBalance(ctx context.Context, userID uint) (int, error) {
	var balance RewardPoint

	result := d.db.WithContext(ctx).Where("user_id = ?", userID).Take(&balance)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, result.Error
	}

	return balance.TotalPoints, nil
}

// SumByType sums signed points over the user's ledger for one kind.
func (d *LedgerDAO) SumByType(ctx context.Context, userID uint, kind string) (int, error) {
	var sum *int

	err := d.db.WithContext(ctx).Model(&PointTransaction{}).
		Select("SUM(points)").
		Where("user_id = ? AND type = ?", userID, kind).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}

	return *sum, nil
}

func (d *LedgerDAO) FindTransactions(ctx context.Context, userID uint, limit, offset int) ([]PointTransaction, int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&PointTransaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	var transactions []PointTransaction
	err = d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, count, nil
}

// ReconcileResult compares a materialized balance against its ledger sum.
type ReconcileResult struct {
	UserID       uint
	Balance      int
	LedgerSum    int
	EntriesCount int
}

// Reconcile recomputes the user's balance from the ledger. The two values
// diverging means an integrity failure upstream; callers treat it as an
// audit finding, not something to repair silently.
func (d *LedgerDAO) Reconcile(ctx context.Context, userID uint) (ReconcileResult, error) {
	balance, err := d.GetBalance(ctx, userID)
	if err != nil {
		return ReconcileResult{}, err
	}

	var sum *int
	err = d.db.WithContext(ctx).Model(&PointTransaction{}).
		Select("SUM(points)").
		Where("user_id = ?", userID).
		Scan(&sum).Error
	if err != nil {
		return ReconcileResult{}, err
	}

	var count int64
	err = d.db.WithContext(ctx).Model(&PointTransaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	if err != nil {
		return ReconcileResult{}, err
	}

	ledgerSum := 0
	if sum != nil {
		ledgerSum = *sum
	}

	return ReconcileResult{
		UserID:       userID,
		Balance:      balance,
		LedgerSum:    ledgerSum,
		EntriesCount: int(count),
	}, nil
}
