package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository"
)

var (
	ErrProductNotFound        = repository.ErrProductNotFound
	ErrProductUnavailable     = repository.ErrProductUnavailable
	ErrInsufficientStock      = repository.ErrInsufficientStock
	ErrMaxQuantityExceeded    = repository.ErrMaxQuantityExceeded
	ErrCartItemNotFound       = repository.ErrCartItemNotFound
	ErrEmptyCart              = repository.ErrEmptyCart
	ErrOrderNotFound          = repository.ErrOrderNotFound
	ErrInvalidOrderTransition = repository.ErrInvalidOrderTransition
	ErrInvalidOrderStatus     = errors.New("invalid order status")
)

type StoreRepository interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, productID, collegeID uint) (domain.Product, error)
	ListProducts(ctx context.Context, collegeID uint, filter repository.ProductFilter, limit, offset int) ([]domain.Product, int64, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetCart(ctx context.Context, userID, collegeID uint) (domain.Cart, error)
	AddCartItem(ctx context.Context, userID, collegeID, productID uint, quantity int) error
	UpdateCartItem(ctx context.Context, userID, itemID uint, quantity int) error
	RemoveCartItem(ctx context.Context, userID, itemID uint) error
	ClearCart(ctx context.Context, userID uint) error
	Checkout(ctx context.Context, userID, collegeID uint, notes string) (domain.Order, error)
	GetOrder(ctx context.Context, orderID, userID uint) (domain.Order, error)
	ListOrders(ctx context.Context, userID uint, limit, offset int) ([]domain.Order, int64, error)
	CancelOrder(ctx context.Context, orderID, collegeID uint, toStatus domain.OrderStatus) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, collegeID uint, from, to domain.OrderStatus) (domain.Order, error)
}

type StoreService struct {
	repo StoreRepository
}

func NewStoreService(repo StoreRepository) *StoreService {
	return &StoreService{
		repo: repo,
	}
}

func (s *StoreService) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if product.Status == "" {
		product.Status = domain.ProductActive
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.CreateProduct -> %w", err)
	}

	return created, nil
}

func (s *StoreService) GetProduct(ctx context.Context, productID, collegeID uint) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, productID, collegeID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.GetProduct -> %w", err)
	}

	return product, nil
}

func (s *StoreService) ListProducts(ctx context.Context, collegeID uint, filter repository.ProductFilter, limit, offset int) ([]domain.Product, int64, error) {
	products, count, err := s.repo.ListProducts(ctx, collegeID, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.ListProducts -> %w", err)
	}

	return products, count, nil
}

func (s *StoreService) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.repo.UpdateProduct -> %w", err)
	}

	return updated, nil
}

func (s *StoreService) GetCart(ctx context.Context, userID, collegeID uint) (domain.Cart, error) {
	cart, err := s.repo.GetCart(ctx, userID, collegeID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.GetCart -> %w", err)
	}

	return cart, nil
}

func (s *StoreService) AddCartItem(ctx context.Context, userID, collegeID, productID uint, quantity int) (domain.Cart, error) {
	if err := s.repo.AddCartItem(ctx, userID, collegeID, productID, quantity); err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.AddCartItem -> %w", err)
	}

	return s.GetCart(ctx, userID, collegeID)
}

func (s *StoreService) UpdateCartItem(ctx context.Context, userID, collegeID, itemID uint, quantity int) (domain.Cart, error) {
	if err := s.repo.UpdateCartItem(ctx, userID, itemID, quantity); err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.UpdateCartItem -> %w", err)
	}

	return s.GetCart(ctx, userID, collegeID)
}

func (s *StoreService) RemoveCartItem(ctx context.Context, userID, collegeID, itemID uint) (domain.Cart, error) {
	if err := s.repo.RemoveCartItem(ctx, userID, itemID); err != nil {
		return domain.Cart{}, fmt.Errorf("s.repo.RemoveCartItem -> %w", err)
	}

	return s.GetCart(ctx, userID, collegeID)
}

func (s *StoreService) ClearCart(ctx context.Context, userID uint) error {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("s.repo.ClearCart -> %w", err)
	}

	return nil
}

// Checkout converts the cart into a PENDING order. Stock, balance and the
// SPENT ledger entry all move in one transaction; any failure leaves the
// cart untouched.
func (s *StoreService) Checkout(ctx context.Context, userID, collegeID uint, notes string) (domain.Order, error) {
	order, err := s.repo.Checkout(ctx, userID, collegeID, notes)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.Checkout -> %w", err)
	}

	return order, nil
}

func (s *StoreService) GetOrder(ctx context.Context, orderID, userID uint) (domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID, userID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.GetOrder -> %w", err)
	}

	return order, nil
}

func (s *StoreService) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]domain.Order, int64, error) {
	orders, count, err := s.repo.ListOrders(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.ListOrders -> %w", err)
	}

	return orders, count, nil
}

// CancelOrder moves a non-terminal order to CANCELLED, restores stock and
// refunds the points as a REFUNDED ledger entry.
func (s *StoreService) CancelOrder(ctx context.Context, orderID, collegeID uint) (domain.Order, error) {
	order, err := s.repo.CancelOrder(ctx, orderID, collegeID, domain.OrderCancelled)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.CancelOrder -> %w", err)
	}

	return order, nil
}

// UpdateOrderStatus advances an order through the fulfillment pipeline.
// CANCELLED and REFUNDED go through the refunding cancel path; forward
// transitions are validated against the state machine before the guarded
// update runs.
func (s *StoreService) UpdateOrderStatus(ctx context.Context, orderID, collegeID uint, from, to domain.OrderStatus) (domain.Order, error) {
	if !to.IsValid() {
		return domain.Order{}, ErrInvalidOrderStatus
	}
	if !from.CanTransitionTo(to) {
		return domain.Order{}, ErrInvalidOrderTransition
	}

	if to == domain.OrderCancelled || to == domain.OrderRefunded {
		order, err := s.repo.CancelOrder(ctx, orderID, collegeID, to)
		if err != nil {
			return domain.Order{}, fmt.Errorf("s.repo.CancelOrder -> %w", err)
		}
		return order, nil
	}

	order, err := s.repo.UpdateOrderStatus(ctx, orderID, collegeID, from, to)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.repo.UpdateOrderStatus -> %w", err)
	}

	return order, nil
}
