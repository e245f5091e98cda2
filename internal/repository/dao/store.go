package dao

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound        = errors.New("product not found")
	ErrProductUnavailable     = errors.New("product not available")
	ErrInsufficientStock      = errors.New("insufficient stock")
	ErrMaxQuantityExceeded    = errors.New("maximum quantity per user exceeded")
	ErrCartNotFound           = errors.New("cart not found")
	ErrCartItemNotFound       = errors.New("cart item not found")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrOrderNotFound          = errors.New("order not found")
	ErrInvalidOrderTransition = errors.New("invalid order status transition")
)

type Product struct {
	ID                 uint   `gorm:"primaryKey"`
	Name               string `gorm:"not null"`
	Description        string
	Category           string `gorm:"index"`
	PointsRequired     int    `gorm:"not null"`
	StockQuantity      int    `gorm:"not null;default:0"`
	MaxQuantityPerUser int    `gorm:"not null;default:1"`
	Status             string `gorm:"not null;default:ACTIVE"`
	ImageURL           string
	CollegeID          uint `gorm:"index;not null"`
	CreatedBy          uint `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Cart struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"uniqueIndex;not null"`
	CollegeID uint `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"`
	CartID    uint `gorm:"index:idx_cart_product,unique;not null"`
	ProductID uint `gorm:"index:idx_cart_product,unique;not null"`
	Quantity  int  `gorm:"not null"`
	AddedAt   time.Time
}

type Order struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNumber string `gorm:"uniqueIndex;not null"`
	UserID      uint   `gorm:"index;not null"`
	TotalPoints int    `gorm:"not null"`
	TotalItems  int    `gorm:"not null"`
	Status      string `gorm:"not null;default:PENDING"`
	Notes       string
	CollegeID   uint `gorm:"index;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem freezes the product name and price at purchase time; later
// product edits never touch it.
type OrderItem struct {
	ID            uint   `gorm:"primaryKey"`
	OrderID       uint   `gorm:"index;not null"`
	ProductID     uint   `gorm:"not null"`
	ProductName   string `gorm:"not null"`
	Quantity      int    `gorm:"not null"`
	PointsPerItem int    `gorm:"not null"`
	TotalPoints   int    `gorm:"not null"`
	CreatedAt     time.Time
}

type StoreDAO struct {
	db     *gorm.DB
	ledger *LedgerDAO
}

func NewStoreDAO(db *gorm.DB, ledger *LedgerDAO) *StoreDAO {
	return &StoreDAO{
		db:     db,
		ledger: ledger,
	}
}

// ---- products ----

func (d *StoreDAO) InsertProduct(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Create(&product)
	if result.Error != nil {
		return Product{}, result.Error
	}

	return product, nil
}

func (d *StoreDAO) FindProductByID(ctx context.Context, productID, collegeID uint) (Product, error) {
	var product Product

	result := d.db.WithContext(ctx).
		Where("id = ? AND college_id = ?", productID, collegeID).
		Take(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Product{}, ErrProductNotFound
		}
		return Product{}, result.Error
	}

	return product, nil
}

// ProductFilter narrows college-scoped product listings.
type ProductFilter struct {
	Category  string
	InStock   *bool
	MinPoints *int
	MaxPoints *int
}

func (d *StoreDAO) FindProducts(ctx context.Context, collegeID uint, filter ProductFilter, limit, offset int) ([]Product, int64, error) {
	query := d.db.WithContext(ctx).Model(&Product{}).
		Where("college_id = ? AND status = ?", collegeID, "ACTIVE")

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.InStock != nil {
		if *filter.InStock {
			query = query.Where("stock_quantity > 0")
		} else {
			query = query.Where("stock_quantity <= 0")
		}
	}
	if filter.MinPoints != nil {
		query = query.Where("points_required >= ?", *filter.MinPoints)
	}
	if filter.MaxPoints != nil {
		query = query.Where("points_required <= ?", *filter.MaxPoints)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var products []Product
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, count, nil
}

func (d *StoreDAO) UpdateProduct(ctx context.Context, product Product) (Product, error) {
	result := d.db.WithContext(ctx).Model(&Product{}).
		Where("id = ? AND college_id = ?", product.ID, product.CollegeID).
		Updates(map[string]interface{}{
			"name":                  product.Name,
			"description":           product.Description,
			"category":              product.Category,
			"points_required":       product.PointsRequired,
			"stock_quantity":        product.StockQuantity,
			"max_quantity_per_user": product.MaxQuantityPerUser,
			"status":                product.Status,
			"image_url":             product.ImageURL,
		})
	if result.Error != nil {
		return Product{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Product{}, ErrProductNotFound
	}

	return d.FindProductByID(ctx, product.ID, product.CollegeID)
}

// ---- cart ----

func (d *StoreDAO) getOrCreateCart(tx *gorm.DB, userID, collegeID uint) (Cart, error) {
	var cart Cart

	err := tx.Where("user_id = ?", userID).Take(&cart).Error
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Cart{}, err
	}

	cart = Cart{UserID: userID, CollegeID: collegeID}
	if err = tx.Create(&cart).Error; err != nil {
		return Cart{}, err
	}

	return cart, nil
}

// CartLine is a cart item joined with its product's current state.
type CartLine struct {
	Item    CartItem
	Product Product
}

func (d *StoreDAO) findCartLines(tx *gorm.DB, cartID uint) ([]CartLine, error) {
	var items []CartItem
	if err := tx.Where("cart_id = ?", cartID).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		var product Product
		if err := tx.Where("id = ?", item.ProductID).Take(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Product deleted since it was staged; surface the id.
				return nil, fmt.Errorf("%w: product %d", ErrProductUnavailable, item.ProductID)
			}
			return nil, err
		}
		lines = append(lines, CartLine{Item: item, Product: product})
	}

	return lines, nil
}

func (d *StoreDAO) GetCart(ctx context.Context, userID, collegeID uint) (Cart, []CartLine, error) {
	var (
		cart  Cart
		lines []CartLine
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txnErr error
		cart, txnErr = d.getOrCreateCart(tx, userID, collegeID)
		if txnErr != nil {
			return txnErr
		}
		lines, txnErr = d.findCartLines(tx, cart.ID)
		return txnErr
	})
	if err != nil {
		return Cart{}, nil, err
	}

	return cart, lines, nil
}

// AddCartItem stages quantity of a product. Stock is validated as a
// courtesy but never reserved; checkout re-validates authoritatively.
func (d *StoreDAO) AddCartItem(ctx context.Context, userID, collegeID, productID uint, quantity int) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product Product
		err := tx.Where("id = ? AND college_id = ? AND status = ?", productID, collegeID, "ACTIVE").
			Take(&product).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if product.StockQuantity < quantity {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}
		if quantity > product.MaxQuantityPerUser {
			return fmt.Errorf("%w: %s allows %d", ErrMaxQuantityExceeded, product.Name, product.MaxQuantityPerUser)
		}

		cart, err := d.getOrCreateCart(tx, userID, collegeID)
		if err != nil {
			return err
		}

		var existing CartItem
		err = tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Take(&existing).Error
		switch {
		case err == nil:
			newQuantity := existing.Quantity + quantity
			if newQuantity > product.MaxQuantityPerUser {
				return fmt.Errorf("%w: %s allows %d", ErrMaxQuantityExceeded, product.Name, product.MaxQuantityPerUser)
			}
			if newQuantity > product.StockQuantity {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
			}
			if err = tx.Model(&existing).Update("quantity", newQuantity).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				AddedAt:   time.Now(),
			}
			if err = tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}

		return tx.Model(&Cart{}).Where("id = ?", cart.ID).Update("updated_at", time.Now()).Error
	})
}

// UpdateCartItem sets a new quantity; zero or negative removes the item.
func (d *StoreDAO) UpdateCartItem(ctx context.Context, userID, itemID uint, quantity int) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart Cart
		if err := tx.Where("user_id = ?", userID).Take(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return err
		}

		var item CartItem
		err := tx.Where("id = ? AND cart_id = ?", itemID, cart.ID).Take(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}

		if quantity <= 0 {
			return tx.Delete(&item).Error
		}

		var product Product
		if err = tx.Where("id = ?", item.ProductID).Take(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if quantity > product.StockQuantity {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}
		if quantity > product.MaxQuantityPerUser {
			return fmt.Errorf("%w: %s allows %d", ErrMaxQuantityExceeded, product.Name, product.MaxQuantityPerUser)
		}

		return tx.Model(&item).Update("quantity", quantity).Error
	})
}

func (d *StoreDAO) RemoveCartItem(ctx context.Context, userID, itemID uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart Cart
		if err := tx.Where("user_id = ?", userID).Take(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartNotFound
			}
			return err
		}

		result := tx.Where("id = ? AND cart_id = ?", itemID, cart.ID).Delete(&CartItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCartItemNotFound
		}
		return nil
	})
}

func (d *StoreDAO) ClearCart(ctx context.Context, userID uint) error {
	var cart Cart
	err := d.db.WithContext(ctx).Where("user_id = ?", userID).Take(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	return d.db.WithContext(ctx).Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error
}

// ---- checkout ----

func generateOrderNumber() string {
	timestamp := time.Now().Format("20060102150405")
	random := strings.ToUpper(uuid.NewString()[:8])
	return "ORD" + timestamp + random
}

// Checkout converts the user's cart into an order. Every step shares one
// transaction: re-validation, order + item creation, the conditional stock
// decrements, the SPENT ledger entry and the cart clear all commit together
// or not at all.
func (d *StoreDAO) Checkout(ctx context.Context, userID, collegeID uint, notes string) (Order, []OrderItem, error) {
	var (
		order Order
		items []OrderItem
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cart Cart
		err := tx.Where("user_id = ?", userID).Take(&cart).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEmptyCart
			}
			return err
		}

		lines, err := d.findCartLines(tx, cart.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		totalPoints := 0
		for _, line := range lines {
			if line.Product.Status != "ACTIVE" {
				return fmt.Errorf("%w: %s", ErrProductUnavailable, line.Product.Name)
			}
			if line.Product.StockQuantity < line.Item.Quantity {
				return fmt.Errorf("%w: %s, available %d", ErrInsufficientStock, line.Product.Name, line.Product.StockQuantity)
			}
			totalPoints += line.Product.PointsRequired * line.Item.Quantity
		}

		order = Order{
			OrderNumber: generateOrderNumber(),
			UserID:      userID,
			TotalPoints: totalPoints,
			TotalItems:  len(lines),
			Status:      "PENDING",
			Notes:       notes,
			CollegeID:   collegeID,
		}
		if err = tx.Create(&order).Error; err != nil {
			return err
		}

		items = make([]OrderItem, 0, len(lines))
		for _, line := range lines {
			item := OrderItem{
				OrderID:       order.ID,
				ProductID:     line.Product.ID,
				ProductName:   line.Product.Name,
				Quantity:      line.Item.Quantity,
				PointsPerItem: line.Product.PointsRequired,
				TotalPoints:   line.Product.PointsRequired * line.Item.Quantity,
			}
			if err = tx.Create(&item).Error; err != nil {
				return err
			}
			items = append(items, item)

			// Conditional decrement: the stock check re-runs atomically, so a
			// concurrent checkout of the same product cannot oversell.
			result := tx.Model(&Product{}).
				Where("id = ? AND stock_quantity >= ?", line.Product.ID, line.Item.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Item.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, line.Product.Name)
			}
		}

		_, err = d.ledger.Append(tx, PointTransaction{
			UserID:        userID,
			Type:          "SPENT",
			Points:        -totalPoints,
			Description:   fmt.Sprintf("Order #%s - %d items", order.OrderNumber, len(lines)),
			ReferenceType: "order",
			ReferenceID:   order.ID,
			CollegeID:     collegeID,
		})
		if err != nil {
			return err
		}

		return tx.Where("cart_id = ?", cart.ID).Delete(&CartItem{}).Error
	})
	if err != nil {
		return Order{}, nil, err
	}

	return order, items, nil
}

// ---- orders ----

func (d *StoreDAO) FindOrderByID(ctx context.Context, orderID, userID uint) (Order, []OrderItem, error) {
	var order Order

	result := d.db.WithContext(ctx).Where("id = ? AND user_id = ?", orderID, userID).Take(&order)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Order{}, nil, ErrOrderNotFound
		}
		return Order{}, nil, result.Error
	}

	var items []OrderItem
	if err := d.db.WithContext(ctx).Where("order_id = ?", order.ID).Order("id").Find(&items).Error; err != nil {
		return Order{}, nil, err
	}

	return order, items, nil
}

func (d *StoreDAO) FindOrders(ctx context.Context, userID uint, limit, offset int) ([]Order, int64, error) {
	var count int64
	err := d.db.WithContext(ctx).Model(&Order{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return nil, 0, err
	}

	var orders []Order
	err = d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, count, nil
}

func (d *StoreDAO) FindOrderItems(ctx context.Context, orderID uint) ([]OrderItem, error) {
	var items []OrderItem
	err := d.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// SumPendingOrderPoints totals points committed to not-yet-fulfilled orders.
func (d *StoreDAO) SumPendingOrderPoints(ctx context.Context, userID uint) (int, error) {
	var sum *int

	err := d.db.WithContext(ctx).Model(&Order{}).
		Select("SUM(total_points)").
		Where("user_id = ? AND status IN ?", userID, []string{"PENDING", "CONFIRMED", "PROCESSING"}).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	if sum == nil {
		return 0, nil
	}

	return *sum, nil
}

// CancelOrder compensates a non-terminal order: stock restored, the user's
// points refunded with a REFUNDED ledger entry, and the status flipped, all
// in one transaction.
func (d *StoreDAO) CancelOrder(ctx context.Context, orderID, collegeID uint, toStatus string) (Order, error) {
	var order Order

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND college_id = ?", orderID, collegeID).Take(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		switch order.Status {
		case "COMPLETED", "CANCELLED", "REFUNDED":
			return ErrInvalidOrderTransition
		}

		var items []OrderItem
		if err = tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
			return err
		}

		for _, item := range items {
			result := tx.Model(&Product{}).
				Where("id = ?", item.ProductID).
				Update("stock_quantity", gorm.Expr("stock_quantity + ?", item.Quantity))
			if result.Error != nil {
				return result.Error
			}
		}

		_, err = d.ledger.Append(tx, PointTransaction{
			UserID:        order.UserID,
			Type:          "REFUNDED",
			Points:        order.TotalPoints,
			Description:   fmt.Sprintf("Refund for order #%s", order.OrderNumber),
			ReferenceType: "order",
			ReferenceID:   order.ID,
			CollegeID:     order.CollegeID,
		})
		if err != nil {
			return err
		}

		if err = tx.Model(&order).Update("status", toStatus).Error; err != nil {
			return err
		}
		order.Status = toStatus

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}

// UpdateOrderStatus applies an administrative transition. Cancellation and
// refunds must go through CancelOrder so the compensation always runs.
func (d *StoreDAO) UpdateOrderStatus(ctx context.Context, orderID, collegeID uint, from, to string) (Order, error) {
	var order Order

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).
			Where("id = ? AND college_id = ? AND status = ?", orderID, collegeID, from).
			Update("status", to)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Either the order is gone or its status moved under us.
			var exists Order
			if err := tx.Where("id = ? AND college_id = ?", orderID, collegeID).Take(&exists).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrOrderNotFound
				}
				return err
			}
			return ErrInvalidOrderTransition
		}

		return tx.Where("id = ?", orderID).Take(&order).Error
	})
	if err != nil {
		return Order{}, err
	}

	return order, nil
}
