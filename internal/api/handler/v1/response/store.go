package response

import "github.com/campuslink/campuslink-api/internal/domain"

type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type CartResponse struct {
	domain.Cart
	TotalPoints int `json:"total_points"`
	TotalItems  int `json:"total_items"`
}

func NewCartResponse(cart domain.Cart) CartResponse {
	totalItems := 0
	for _, item := range cart.Items {
		totalItems += item.Quantity
	}

	return CartResponse{
		Cart:        cart,
		TotalPoints: cart.TotalPoints(),
		TotalItems:  totalItems,
	}
}

type OrderListResponse struct {
	Orders   []domain.Order `json:"orders"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}
