package domain

import "time"

type PoolTransactionType string

const (
	PoolCredit PoolTransactionType = "CREDIT"
	PoolDebit  PoolTransactionType = "DEBIT"
)

func (t PoolTransactionType) IsValid() bool {
	return t == PoolCredit || t == PoolDebit
}

// Pool transaction reason categories carried over from the original ledger.
const (
	PoolReasonManualTopup  = "manual_topup"
	PoolReasonWelcomeBonus = "welcome_bonus"
	PoolReasonPostReward   = "post_reward"
	PoolReasonAdminReward  = "admin_reward"
)

// RewardPool is the per-college shared point reserve. One pool per college,
// created lazily with an initial allocation.
type RewardPool struct {
	ID                  uint      `json:"id"`
	CollegeID           uint      `json:"college_id"`
	TotalBalance        int       `json:"total_balance"`
	ReservedBalance     int       `json:"reserved_balance"`
	InitialAllocation   int       `json:"initial_allocation"`
	LifetimeCredits     int       `json:"lifetime_credits"`
	LifetimeDebits      int       `json:"lifetime_debits"`
	LowBalanceThreshold int       `json:"low_balance_threshold"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (p *RewardPool) AvailableBalance() int {
	return p.TotalBalance - p.ReservedBalance
}

func (p *RewardPool) IsLowBalance() bool {
	return p.AvailableBalance() < p.LowBalanceThreshold
}

// PoolTransaction is an immutable, append-only pool ledger entry.
// Amount is always positive; Type carries the direction.
type PoolTransaction struct {
	ID                uint                `json:"id"`
	CollegeID         uint                `json:"college_id"`
	Type              PoolTransactionType `json:"transaction_type"`
	Amount            int                 `json:"amount"`
	BalanceBefore     int                 `json:"balance_before"`
	BalanceAfter      int                 `json:"balance_after"`
	Reason            string              `json:"reason"`
	Description       string              `json:"description"`
	ReferenceType     string              `json:"reference_type,omitempty"`
	ReferenceID       uint                `json:"reference_id,omitempty"`
	BeneficiaryUserID *uint               `json:"beneficiary_user_id,omitempty"`
	CreatedBy         *uint               `json:"created_by,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}

// PoolAnalytics are the simple aggregates exposed to pool admins.
type PoolAnalytics struct {
	CollegeID           uint `json:"college_id"`
	TotalCredits        int  `json:"total_credits"`
	TotalDebits         int  `json:"total_debits"`
	TransactionsCount   int  `json:"transactions_count"`
	WelcomeBonusesCount int  `json:"welcome_bonuses_count"`
	PostRewardsCount    int  `json:"post_rewards_count"`
	AdminRewardsCount   int  `json:"admin_rewards_count"`
}

// RewardGrant is the result of a pool-to-user reward: the pool leg plus the
// beneficiary's new balance.
type RewardGrant struct {
	PoolTransaction PoolTransaction `json:"pool_transaction"`
	UserBalance     int             `json:"user_balance"`
}
