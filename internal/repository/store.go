package repository

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository/dao"
)

var (
	ErrProductNotFound        = dao.ErrProductNotFound
	ErrProductUnavailable     = dao.ErrProductUnavailable
	ErrInsufficientStock      = dao.ErrInsufficientStock
	ErrMaxQuantityExceeded    = dao.ErrMaxQuantityExceeded
	ErrCartNotFound           = dao.ErrCartNotFound
	ErrCartItemNotFound       = dao.ErrCartItemNotFound
	ErrEmptyCart              = dao.ErrEmptyCart
	ErrOrderNotFound          = dao.ErrOrderNotFound
	ErrInvalidOrderTransition = dao.ErrInvalidOrderTransition
)

type StoreDAO interface {
	InsertProduct(ctx context.Context, product dao.Product) (dao.Product, error)
	FindProductByID(ctx context.Context, productID, collegeID uint) (dao.Product, error)
	FindProducts(ctx context.Context, collegeID uint, filter dao.ProductFilter, limit, offset int) ([]dao.Product, int64, error)
	UpdateProduct(ctx context.Context, product dao.Product) (dao.Product, error)
	GetCart(ctx context.Context, userID, collegeID uint) (dao.Cart, []dao.CartLine, error)
	AddCartItem(ctx context.Context, userID, collegeID, productID uint, quantity int) error
	UpdateCartItem(ctx context.Context, userID, itemID uint, quantity int) error
	RemoveCartItem(ctx context.Context, userID, itemID uint) error
	ClearCart(ctx context.Context, userID uint) error
	Checkout(ctx context.Context, userID, collegeID uint, notes string) (dao.Order, []dao.OrderItem, error)
	FindOrderByID(ctx context.Context, orderID, userID uint) (dao.Order, []dao.OrderItem, error)
	FindOrders(ctx context.Context, userID uint, limit, offset int) ([]dao.Order, int64, error)
	FindOrderItems(ctx context.Context, orderID uint) ([]dao.OrderItem, error)
	SumPendingOrderPoints(ctx context.Context, userID uint) (int, error)
	CancelOrder(ctx context.Context, orderID, collegeID uint, toStatus string) (dao.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, collegeID uint, from, to string) (dao.Order, error)
}

type StoreRepository struct {
	dao StoreDAO
}

func NewStoreRepository(dao StoreDAO) *StoreRepository {
	return &StoreRepository{
		dao: dao,
	}
}

func productDomainToDao(p domain.Product) dao.Product {
	return dao.Product{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Category:           p.Category,
		PointsRequired:     p.PointsRequired,
		StockQuantity:      p.StockQuantity,
		MaxQuantityPerUser: p.MaxQuantityPerUser,
		Status:             string(p.Status),
		ImageURL:           p.ImageURL,
		CollegeID:          p.CollegeID,
		CreatedBy:          p.CreatedBy,
	}
}

func productDaoToDomain(p dao.Product) domain.Product {
	return domain.Product{
		ID:                 p.ID,
		Name:               p.Name,
		Description:        p.Description,
		Category:           p.Category,
		PointsRequired:     p.PointsRequired,
		StockQuantity:      p.StockQuantity,
		MaxQuantityPerUser: p.MaxQuantityPerUser,
		Status:             domain.ProductStatus(p.Status),
		ImageURL:           p.ImageURL,
		CollegeID:          p.CollegeID,
		CreatedBy:          p.CreatedBy,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func orderDaoToDomain(o dao.Order, items []dao.OrderItem) domain.Order {
	order := domain.Order{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		TotalPoints: o.TotalPoints,
		TotalItems:  o.TotalItems,
		Status:      domain.OrderStatus(o.Status),
		Notes:       o.Notes,
		CollegeID:   o.CollegeID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}

	order.Items = make([]domain.OrderItem, len(items))
	for i, item := range items {
		order.Items[i] = domain.OrderItem{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			PointsPerItem: item.PointsPerItem,
			TotalPoints:   item.TotalPoints,
			CreatedAt:     item.CreatedAt,
		}
	}

	return order
}

func cartDaoToDomain(c dao.Cart, lines []dao.CartLine) domain.Cart {
	cart := domain.Cart{
		ID:        c.ID,
		UserID:    c.UserID,
		CollegeID: c.CollegeID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	cart.Items = make([]domain.CartItem, len(lines))
	for i, line := range lines {
		cart.Items[i] = domain.CartItem{
			ID:            line.Item.ID,
			ProductID:     line.Item.ProductID,
			Quantity:      line.Item.Quantity,
			ProductName:   line.Product.Name,
			ProductPoints: line.Product.PointsRequired,
			ProductStock:  line.Product.StockQuantity,
			AddedAt:       line.Item.AddedAt,
		}
	}

	return cart
}

func (r *StoreRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	created, err := r.dao.InsertProduct(ctx, productDomainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.InsertProduct -> %w", err)
	}

	return productDaoToDomain(created), nil
}

func (r *StoreRepository) GetProduct(ctx context.Context, productID, collegeID uint) (domain.Product, error) {
	product, err := r.dao.FindProductByID(ctx, productID, collegeID)
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.FindProductByID -> %w", err)
	}

	return productDaoToDomain(product), nil
}

// ProductFilter narrows college-scoped product listings.
type ProductFilter struct {
	Category  string
	InStock   *bool
	MinPoints *int
	MaxPoints *int
}

func (r *StoreRepository) ListProducts(ctx context.Context, collegeID uint, filter ProductFilter, limit, offset int) ([]domain.Product, int64, error) {
	productsDAO, count, err := r.dao.FindProducts(ctx, collegeID, dao.ProductFilter{
		Category:  filter.Category,
		InStock:   filter.InStock,
		MinPoints: filter.MinPoints,
		MaxPoints: filter.MaxPoints,
	}, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindProducts -> %w", err)
	}

	products := make([]domain.Product, len(productsDAO))
	for i, p := range productsDAO {
		products[i] = productDaoToDomain(p)
	}

	return products, count, nil
}

func (r *StoreRepository) UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	updated, err := r.dao.UpdateProduct(ctx, productDomainToDao(product))
	if err != nil {
		return domain.Product{}, fmt.Errorf("r.dao.UpdateProduct -> %w", err)
	}

	return productDaoToDomain(updated), nil
}

func (r *StoreRepository) GetCart(ctx context.Context, userID, collegeID uint) (domain.Cart, error) {
	cart, lines, err := r.dao.GetCart(ctx, userID, collegeID)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("r.dao.GetCart -> %w", err)
	}

	return cartDaoToDomain(cart, lines), nil
}

func (r *StoreRepository) AddCartItem(ctx context.Context, userID, collegeID, productID uint, quantity int) error {
	if err := r.dao.AddCartItem(ctx, userID, collegeID, productID, quantity); err != nil {
		return fmt.Errorf("r.dao.AddCartItem -> %w", err)
	}

	return nil
}

func (r *StoreRepository) UpdateCartItem(ctx context.Context, userID, itemID uint, quantity int) error {
	if err := r.dao.UpdateCartItem(ctx, userID, itemID, quantity); err != nil {
		return fmt.Errorf("r.dao.UpdateCartItem -> %w", err)
	}

	return nil
}

func (r *StoreRepository) RemoveCartItem(ctx context.Context, userID, itemID uint) error {
	if err := r.dao.RemoveCartItem(ctx, userID, itemID); err != nil {
		return fmt.Errorf("r.dao.RemoveCartItem -> %w", err)
	}

	return nil
}

func (r *StoreRepository) ClearCart(ctx context.Context, userID uint) error {
	if err := r.dao.ClearCart(ctx, userID); err != nil {
		return fmt.Errorf("r.dao.ClearCart -> %w", err)
	}

	return nil
}

func (r *StoreRepository) Checkout(ctx context.Context, userID, collegeID uint, notes string) (domain.Order, error) {
	order, items, err := r.dao.Checkout(ctx, userID, collegeID, notes)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.Checkout -> %w", err)
	}

	return orderDaoToDomain(order, items), nil
}

func (r *StoreRepository) GetOrder(ctx context.Context, orderID, userID uint) (domain.Order, error) {
	order, items, err := r.dao.FindOrderByID(ctx, orderID, userID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindOrderByID -> %w", err)
	}

	return orderDaoToDomain(order, items), nil
}

func (r *StoreRepository) ListOrders(ctx context.Context, userID uint, limit, offset int) ([]domain.Order, int64, error) {
	ordersDAO, count, err := r.dao.FindOrders(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.FindOrders -> %w", err)
	}

	orders := make([]domain.Order, len(ordersDAO))
	for i, o := range ordersDAO {
		items, itemsErr := r.dao.FindOrderItems(ctx, o.ID)
		if itemsErr != nil {
			return nil, 0, fmt.Errorf("r.dao.FindOrderItems -> %w", itemsErr)
		}
		orders[i] = orderDaoToDomain(o, items)
	}

	return orders, count, nil
}

func (r *StoreRepository) SumPendingOrderPoints(ctx context.Context, userID uint) (int, error) {
	sum, err := r.dao.SumPendingOrderPoints(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.SumPendingOrderPoints -> %w", err)
	}

	return sum, nil
}

func (r *StoreRepository) CancelOrder(ctx context.Context, orderID, collegeID uint, toStatus domain.OrderStatus) (domain.Order, error) {
	order, err := r.dao.CancelOrder(ctx, orderID, collegeID, string(toStatus))
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.CancelOrder -> %w", err)
	}

	items, err := r.dao.FindOrderItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindOrderItems -> %w", err)
	}

	return orderDaoToDomain(order, items), nil
}

func (r *StoreRepository) UpdateOrderStatus(ctx context.Context, orderID, collegeID uint, from, to domain.OrderStatus) (domain.Order, error) {
	order, err := r.dao.UpdateOrderStatus(ctx, orderID, collegeID, string(from), string(to))
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.UpdateOrderStatus -> %w", err)
	}

	items, err := r.dao.FindOrderItems(ctx, order.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindOrderItems -> %w", err)
	}

	return orderDaoToDomain(order, items), nil
}
