package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrInsufficientPoolBalance = errors.New("insufficient pool balance")
)

// Pool bootstrap values, matching the platform's provisioning defaults.
const (
	PoolInitialAllocation   = 10000
	PoolLowBalanceThreshold = 1000
)

// RewardPool is the per-college point reserve. The unique index on
// CollegeID makes lazy creation idempotent.
type RewardPool struct {
	ID                  uint `gorm:"primaryKey"`
	CollegeID           uint `gorm:"uniqueIndex;not null"`
	TotalBalance        int  `gorm:"not null;default:0"`
	ReservedBalance     int  `gorm:"not null;default:0"`
	InitialAllocation   int  `gorm:"not null;default:0"`
	LifetimeCredits     int  `gorm:"not null;default:0"`
	LifetimeDebits      int  `gorm:"not null;default:0"`
	LowBalanceThreshold int  `gorm:"not null;default:1000"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PoolTransaction rows are append-only; they are never updated or deleted.
type PoolTransaction struct {
	ID                uint   `gorm:"primaryKey"`
	CollegeID         uint   `gorm:"index;not null"`
	Type              string `gorm:"not null"`
	Amount            int    `gorm:"not null"`
	BalanceBefore     int    `gorm:"not null"`
	BalanceAfter      int    `gorm:"not null"`
	Reason            string `gorm:"index;not null"`
	Description       string
	ReferenceType     string
	ReferenceID       uint
	BeneficiaryUserID *uint
	CreatedBy         *uint
	CreatedAt         time.Time
}

func (PoolTransaction) TableName() string {
	return "pool_transactions"
}

// PoolEntry is the caller-supplied metadata for one pool mutation.
type PoolEntry struct {
	Amount            int
	Reason            string
	Description       string
	ReferenceType     string
	ReferenceID       uint
	BeneficiaryUserID *uint
	CreatedBy         *uint
}

type PoolDAO struct {
	db     *gorm.DB
	ledger *LedgerDAO
}

func NewPoolDAO(db *gorm.DB, ledger *LedgerDAO) *PoolDAO {
	return &PoolDAO{
		db:     db,
		ledger: ledger,
	}
}

// getOrCreate returns the college's pool within tx, creating it with the
// initial allocation and its bootstrap CREDIT row on first access.
func (d *PoolDAO) getOrCreate(tx *gorm.DB, collegeID uint) (RewardPool, error) {
	var pool RewardPool

	err := tx.Where("college_id = ?", collegeID).Take(&pool).Error
	if err == nil {
		return pool, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return RewardPool{}, err
	}

	pool = RewardPool{
		CollegeID:           collegeID,
		TotalBalance:        PoolInitialAllocation,
		InitialAllocation:   PoolInitialAllocation,
		LifetimeCredits:     PoolInitialAllocation,
		LowBalanceThreshold: PoolLowBalanceThreshold,
	}
	if err = tx.Create(&pool).Error; err != nil {
		// A concurrent creator may have won the unique race.
		var fetchErr error
		if fetchErr = tx.Where("college_id = ?", collegeID).Take(&pool).Error; fetchErr != nil {
			return RewardPool{}, err
		}
		return pool, nil
	}

	bootstrap := PoolTransaction{
		CollegeID:     collegeID,
		Type:          "CREDIT",
		Amount:        PoolInitialAllocation,
		BalanceBefore: 0,
		BalanceAfter:  PoolInitialAllocation,
		Reason:        "manual_topup",
		Description:   "Initial college reward pool allocation",
		ReferenceType: "system",
	}
	if err = tx.Create(&bootstrap).Error; err != nil {
		return RewardPool{}, err
	}

	return pool, nil
}

func (d *PoolDAO) GetOrCreate(ctx context.Context, collegeID uint) (RewardPool, error) {
	var pool RewardPool

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txnErr error
		pool, txnErr = d.getOrCreate(tx, collegeID)
		return txnErr
	})
	if err != nil {
		return RewardPool{}, err
	}

	return pool, nil
}

// credit adds to the pool within tx and writes the CREDIT row.
func (d *PoolDAO) credit(tx *gorm.DB, collegeID uint, entry PoolEntry) (PoolTransaction, error) {
	if _, err := d.getOrCreate(tx, collegeID); err != nil {
		return PoolTransaction{}, err
	}

	result := tx.Model(&RewardPool{}).
		Where("college_id = ?", collegeID).
		Updates(map[string]interface{}{
			"total_balance":    gorm.Expr("total_balance + ?", entry.Amount),
			"lifetime_credits": gorm.Expr("lifetime_credits + ?", entry.Amount),
		})
	if result.Error != nil {
		return PoolTransaction{}, result.Error
	}

	var pool RewardPool
	if err := tx.Where("college_id = ?", collegeID).Take(&pool).Error; err != nil {
		return PoolTransaction{}, err
	}

	transaction := PoolTransaction{
		CollegeID:         collegeID,
		Type:              "CREDIT",
		Amount:            entry.Amount,
		BalanceBefore:     pool.TotalBalance - entry.Amount,
		BalanceAfter:      pool.TotalBalance,
		Reason:            entry.Reason,
		Description:       entry.Description,
		ReferenceType:     entry.ReferenceType,
		ReferenceID:       entry.ReferenceID,
		BeneficiaryUserID: entry.BeneficiaryUserID,
		CreatedBy:         entry.CreatedBy,
	}
	if err := tx.Create(&transaction).Error; err != nil {
		return PoolTransaction{}, err
	}

	return transaction, nil
}

// debit removes from the pool within tx and writes the DEBIT row. The
// available-balance check sits in the WHERE clause, so a concurrent debit
// cannot interleave between check and write.
func (d *PoolDAO) debit(tx *gorm.DB, collegeID uint, entry PoolEntry) (PoolTransaction, error) {
	if _, err := d.getOrCreate(tx, collegeID); err != nil {
		return PoolTransaction{}, err
	}

	result := tx.Model(&RewardPool{}).
		Where("college_id = ? AND total_balance - reserved_balance >= ?", collegeID, entry.Amount).
		Updates(map[string]interface{}{
			"total_balance":   gorm.Expr("total_balance - ?", entry.Amount),
			"lifetime_debits": gorm.Expr("lifetime_debits + ?", entry.Amount),
		})
	if result.Error != nil {
		return PoolTransaction{}, result.Error
	}
	if result.RowsAffected == 0 {
		return PoolTransaction{}, ErrInsufficientPoolBalance
	}

	var pool RewardPool
	if err := tx.Where("college_id = ?", collegeID).Take(&pool).Error; err != nil {
		return PoolTransaction{}, err
	}

	transaction := PoolTransaction{
		CollegeID:         collegeID,
		Type:              "DEBIT",
		Amount:            entry.Amount,
		BalanceBefore:     pool.TotalBalance + entry.Amount,
		BalanceAfter:      pool.TotalBalance,
		Reason:            entry.Reason,
		Description:       entry.Description,
		ReferenceType:     entry.ReferenceType,
		ReferenceID:       entry.ReferenceID,
		BeneficiaryUserID: entry.BeneficiaryUserID,
		CreatedBy:         entry.CreatedBy,
	}
	if err := tx.Create(&transaction).Error; err != nil {
		return PoolTransaction{}, err
	}

	return transaction, nil
}

func (d *PoolDAO) Credit(ctx context.Context, collegeID uint, entry PoolEntry) (PoolTransaction, error) {
	var transaction PoolTransaction

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txnErr error
		transaction, txnErr = d.credit(tx, collegeID, entry)
		return txnErr
	})
	if err != nil {
		return PoolTransaction{}, err
	}

	return transaction, nil
}

func (d *PoolDAO) Debit(ctx context.Context, collegeID uint, entry PoolEntry) (PoolTransaction, error) {
	var transaction PoolTransaction

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txnErr error
		transaction, txnErr = d.debit(tx, collegeID, entry)
		return txnErr
	})
	if err != nil {
		return PoolTransaction{}, err
	}

	return transaction, nil
}

// GiveReward debits the pool and credits the beneficiary's ledger as one
// transaction. Either both legs commit or neither does.
func (d *PoolDAO) GiveReward(ctx context.Context, collegeID, userID uint, entry PoolEntry) (PoolTransaction, int, error) {
	var (
		poolTxn     PoolTransaction
		userBalance int
	)

	entry.BeneficiaryUserID = &userID

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txnErr error
		poolTxn, txnErr = d.debit(tx, collegeID, entry)
		if txnErr != nil {
			return txnErr
		}

		userTxn, txnErr := d.ledger.Append(tx, PointTransaction{
			UserID:        userID,
			Type:          "EARNED",
			Points:        entry.Amount,
			Description:   entry.Description,
			ReferenceType: entry.ReferenceType,
			ReferenceID:   entry.ReferenceID,
			CollegeID:     collegeID,
		})
		if txnErr != nil {
			return txnErr
		}

		userBalance = userTxn.BalanceAfter
		return nil
	})
	if err != nil {
		return PoolTransaction{}, 0, err
	}

	return poolTxn, userBalance, nil
}

func (d *PoolDAO) FindTransactions(ctx context.Context, collegeID uint, kind, reason string, limit, offset int) ([]PoolTransaction, int64, error) {
	query := d.db.WithContext(ctx).Model(&PoolTransaction{}).Where("college_id = ?", collegeID)
	if kind != "" {
		query = query.Where("type = ?", kind)
	}
	if reason != "" {
		query = query.Where("reason = ?", reason)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var transactions []PoolTransaction
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&transactions).Error
	if err != nil {
		return nil, 0, err
	}

	return transactions, count, nil
}

// PoolAggregates are the analytics counters over one college's pool ledger.
type PoolAggregates struct {
	TotalCredits        int
	TotalDebits         int
	TransactionsCount   int
	WelcomeBonusesCount int
	PostRewardsCount    int
	AdminRewardsCount   int
}

func (d *PoolDAO) Aggregates(ctx context.Context, collegeID uint) (PoolAggregates, error) {
	var aggregates PoolAggregates

	sumByType := func(kind string) (int, error) {
		var sum *int
		err := d.db.WithContext(ctx).Model(&PoolTransaction{}).
			Select("SUM(amount)").
			Where("college_id = ? AND type = ?", collegeID, kind).
			Scan(&sum).Error
		if err != nil {
			return 0, err
		}
		if sum == nil {
			return 0, nil
		}
		return *sum, nil
	}

	countByReason := func(reason string) (int, error) {
		var count int64
		err := d.db.WithContext(ctx).Model(&PoolTransaction{}).
			Where("college_id = ? AND reason = ?", collegeID, reason).
			Count(&count).Error
		return int(count), err
	}

	var err error
	if aggregates.TotalCredits, err = sumByType("CREDIT"); err != nil {
		return PoolAggregates{}, err
	}
	if aggregates.TotalDebits, err = sumByType("DEBIT"); err != nil {
		return PoolAggregates{}, err
	}

	var count int64
	err = d.db.WithContext(ctx).Model(&PoolTransaction{}).
		Where("college_id = ?", collegeID).
		Count(&count).Error
	if err != nil {
		return PoolAggregates{}, err
	}
	aggregates.TransactionsCount = int(count)

	if aggregates.WelcomeBonusesCount, err = countByReason("welcome_bonus"); err != nil {
		return PoolAggregates{}, err
	}
	if aggregates.PostRewardsCount, err = countByReason("post_reward"); err != nil {
		return PoolAggregates{}, err
	}
	if aggregates.AdminRewardsCount, err = countByReason("admin_reward"); err != nil {
		return PoolAggregates{}, err
	}

	return aggregates, nil
}
