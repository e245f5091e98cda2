package response

import "github.com/campuslink/campuslink-api/internal/domain"

type TransactionListResponse struct {
	Transactions []domain.PointTransaction `json:"transactions"`
	Total        int64                     `json:"total"`
	Page         int                       `json:"page"`
	PageSize     int                       `json:"page_size"`
}

type PoolTransactionListResponse struct {
	Transactions []domain.PoolTransaction `json:"transactions"`
	Total        int64                    `json:"total"`
	Page         int                      `json:"page"`
	PageSize     int                      `json:"page_size"`
}

// PoolResponse flattens the derived fields so clients do not recompute them.
type PoolResponse struct {
	domain.RewardPool
	AvailableBalance int  `json:"available_balance"`
	IsLowBalance     bool `json:"is_low_balance"`
}

func NewPoolResponse(pool domain.RewardPool) PoolResponse {
	return PoolResponse{
		RewardPool:       pool,
		AvailableBalance: pool.AvailableBalance(),
		IsLowBalance:     pool.IsLowBalance(),
	}
}
