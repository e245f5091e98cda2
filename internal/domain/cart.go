package domain

import "time"

// Cart is pure staging state, one per user, created lazily. It has no
// balance or stock effect until checkout.
type Cart struct {
	ID        uint       `json:"id"`
	UserID    uint       `json:"user_id"`
	CollegeID uint       `json:"college_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (c *Cart) TotalPoints() int {
	total := 0
	for _, item := range c.Items {
		total += item.ProductPoints * item.Quantity
	}
	return total
}

type CartItem struct {
	ID            uint      `json:"id"`
	ProductID     uint      `json:"product_id"`
	Quantity      int       `json:"quantity"`
	ProductName   string    `json:"product_name"`
	ProductPoints int       `json:"product_points"`
	ProductStock  int       `json:"product_stock"`
	AddedAt       time.Time `json:"added_at"`
}
