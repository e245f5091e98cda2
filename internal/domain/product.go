package domain

import "time"

type ProductStatus string

const (
	ProductActive     ProductStatus = "ACTIVE"
	ProductInactive   ProductStatus = "INACTIVE"
	ProductOutOfStock ProductStatus = "OUT_OF_STOCK"
)

func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductActive, ProductInactive, ProductOutOfStock:
		return true
	}
	return false
}

// Product is a redeemable catalog item owned by a college. Stock is only
// authoritatively checked and decremented at checkout; cart staging never
// reserves it.
type Product struct {
	ID                 uint          `json:"id"`
	Name               string        `json:"name"`
	Description        string        `json:"description"`
	Category           string        `json:"category"`
	PointsRequired     int           `json:"points_required"`
	StockQuantity      int           `json:"stock_quantity"`
	MaxQuantityPerUser int           `json:"max_quantity_per_user"`
	Status             ProductStatus `json:"status"`
	ImageURL           string        `json:"image_url,omitempty"`
	CollegeID          uint          `json:"college_id"`
	CreatedBy          uint          `json:"created_by"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

func (p *Product) CanPurchase() bool {
	return p.Status == ProductActive && p.StockQuantity > 0
}
