package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/campuslink/campuslink-api/internal/domain"
)

type CreateProductRequest struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	PointsRequired     int    `json:"points_required"`
	StockQuantity      int    `json:"stock_quantity"`
	MaxQuantityPerUser int    `json:"max_quantity_per_user"`
	ImageURL           string `json:"image_url"`
}

func (req *CreateProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.PointsRequired, validation.Required, validation.Min(1)),
		validation.Field(&req.StockQuantity, validation.Min(0)),
		validation.Field(&req.MaxQuantityPerUser, validation.Required, validation.Min(1)),
	)
}

type UpdateProductRequest struct {
	Name               string `json:"name"`
	Description        string `json:"description"`
	Category           string `json:"category"`
	PointsRequired     int    `json:"points_required"`
	StockQuantity      int    `json:"stock_quantity"`
	MaxQuantityPerUser int    `json:"max_quantity_per_user"`
	Status             string `json:"status"`
	ImageURL           string `json:"image_url"`
}

func (req *UpdateProductRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Description, validation.Length(0, 1000)),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 50)),
		validation.Field(&req.PointsRequired, validation.Required, validation.Min(1)),
		validation.Field(&req.StockQuantity, validation.Min(0)),
		validation.Field(&req.MaxQuantityPerUser, validation.Required, validation.Min(1)),
		validation.Field(&req.Status, validation.Required, validation.In(
			string(domain.ProductActive),
			string(domain.ProductInactive),
			string(domain.ProductOutOfStock),
		)),
	)
}

type AddCartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func (req *AddCartItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ProductID, validation.Required),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

func (req *UpdateCartItemRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Quantity, validation.Min(0)),
	)
}

type CheckoutRequest struct {
	Notes string `json:"notes"`
}

func (req *CheckoutRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Notes, validation.Length(0, 500)),
	)
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (req *UpdateOrderStatusRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Status, validation.Required, validation.In(
			string(domain.OrderConfirmed),
			string(domain.OrderProcessing),
			string(domain.OrderReadyForPickup),
			string(domain.OrderCompleted),
			string(domain.OrderCancelled),
			string(domain.OrderRefunded),
		)),
	)
}
