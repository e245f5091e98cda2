package domain

import "time"

// PointTransactionType is the closed set of ledger event kinds for a user.
type PointTransactionType string

const (
	PointEarned   PointTransactionType = "EARNED"
	PointSpent    PointTransactionType = "SPENT"
	PointRefunded PointTransactionType = "REFUNDED"
	PointDeducted PointTransactionType = "DEDUCTED"
)

func (t PointTransactionType) IsValid() bool {
	switch t {
	case PointEarned, PointSpent, PointRefunded, PointDeducted:
		return true
	}
	return false
}

// PointTransaction is an immutable, append-only ledger entry. Points are
// signed: positive credits, negative debits. BalanceAfter snapshots the
// materialized balance at commit time for audit and reconciliation.
type PointTransaction struct {
	ID            uint                 `json:"id"`
	UserID        uint                 `json:"user_id"`
	Type          PointTransactionType `json:"transaction_type"`
	Points        int                  `json:"points"`
	BalanceAfter  int                  `json:"balance_after"`
	Description   string               `json:"description"`
	ReferenceType string               `json:"reference_type,omitempty"`
	ReferenceID   uint                 `json:"reference_id,omitempty"`
	CollegeID     uint                 `json:"college_id"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Balance summarizes a user's point position. CurrentBalance is the
// materialized value; TotalEarned/TotalSpent are aggregates over the ledger.
type Balance struct {
	UserID              uint `json:"user_id"`
	CurrentBalance      int  `json:"current_balance"`
	TotalEarned         int  `json:"total_earned"`
	TotalSpent          int  `json:"total_spent"`
	PendingOrdersPoints int  `json:"pending_orders_points"`
	AvailableBalance    int  `json:"available_balance"`
}

// Reconciliation is the auditor's view of one user: the materialized
// balance against the summed ledger.
type Reconciliation struct {
	UserID       uint `json:"user_id"`
	Balance      int  `json:"balance"`
	LedgerSum    int  `json:"ledger_sum"`
	InBalance    bool `json:"in_balance"`
	EntriesCount int  `json:"entries_count"`
}
