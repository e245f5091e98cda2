package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/campuslink-api/internal/api/handler/v1/request"
	"github.com/campuslink/campuslink-api/internal/api/handler/v1/response"
	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository"
	"github.com/campuslink/campuslink-api/internal/service"
)

type StoreService interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, productID, collegeID uint) (domain.Product, error)
	ListProducts(ctx context.Context, collegeID uint, filter repository.ProductFilter, limit, offset int) ([]domain.Product, int64, error)
	UpdateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetCart(ctx context.Context, userID, collegeID uint) (domain.Cart, error)
	AddCartItem(ctx context.Context, userID, collegeID, productID uint, quantity int) (domain.Cart, error)
	UpdateCartItem(ctx context.Context, userID, collegeID, itemID uint, quantity int) (domain.Cart, error)
	RemoveCartItem(ctx context.Context, userID, collegeID, itemID uint) (domain.Cart, error)
	ClearCart(ctx context.Context, userID uint) error
	Checkout(ctx context.Context, userID, collegeID uint, notes string) (domain.Order, error)
	GetOrder(ctx context.Context, orderID, userID uint) (domain.Order, error)
	ListOrders(ctx context.Context, userID uint, limit, offset int) ([]domain.Order, int64, error)
	CancelOrder(ctx context.Context, orderID, collegeID uint) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID, collegeID uint, from, to domain.OrderStatus) (domain.Order, error)
}

type StoreHandler struct {
	svc  StoreService
	uSvc UserService
}

func NewStoreHandler(svc StoreService, uSvc UserService) *StoreHandler {
	return &StoreHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// detailErr strips the internal call-chain prefix from err, keeping the
// sentinel message plus whatever detail was attached to it, such as the
// product name and available stock. Falls back to the bare sentinel when
// the message cannot be located in the chain.
func detailErr(err, sentinel error) error {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()); i >= 0 {
		return errors.New(msg[i:])
	}
	return sentinel
}

// HandleCreateProduct godoc
// @Summary      Create a product
// @Tags         store
// @Produce      json
// @Param        request  body      request.CreateProductRequest true "request body"
// @Success      201  {object}  domain.Product
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /products [post]
// @Security     BearerAuth
func (h *StoreHandler) HandleCreateProduct(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	product, err := h.svc.CreateProduct(ctx.Request.Context(), domain.Product{
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		PointsRequired:     req.PointsRequired,
		StockQuantity:      req.StockQuantity,
		MaxQuantityPerUser: req.MaxQuantityPerUser,
		ImageURL:           req.ImageURL,
		CollegeID:          user.CollegeID,
		CreatedBy:          user.ID,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateProduct -> h.svc.CreateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// HandleListProducts godoc
// @Summary      List the college's products
// @Tags         store
// @Produce      json
// @Param        category    query     string  false  "category filter"
// @Param        in_stock    query     bool    false  "only in-stock products"
// @Param        min_points  query     int     false  "minimum points"
// @Param        max_points  query     int     false  "maximum points"
// @Param        page        query     int     false  "page number"
// @Param        page_size   query     int     false  "page size"
// @Success      200  {object}  response.ProductListResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /products [get]
// @Security     BearerAuth
func (h *StoreHandler) HandleListProducts(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	filter := repository.ProductFilter{
		Category: ctx.Query("category"),
	}
	if raw, ok := ctx.GetQuery("in_stock"); ok {
		inStock, err := strconv.ParseBool(raw)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid in_stock")))
			return
		}
		filter.InStock = &inStock
	}
	if raw, ok := ctx.GetQuery("min_points"); ok {
		minPoints, err := strconv.Atoi(raw)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid min_points")))
			return
		}
		filter.MinPoints = &minPoints
	}
	if raw, ok := ctx.GetQuery("max_points"); ok {
		maxPoints, err := strconv.Atoi(raw)
		if err != nil {
			response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid max_points")))
			return
		}
		filter.MaxPoints = &maxPoints
	}

	page, pageSize, limit, offset := parsePagination(ctx)

	products, total, err := h.svc.ListProducts(ctx.Request.Context(), user.CollegeID, filter, limit, offset)
	if err != nil {
		err = fmt.Errorf("v1.HandleListProducts -> h.svc.ListProducts -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.ProductListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// HandleGetProduct godoc
// @Summary      Get a product by ID
// @Tags         store
// @Produce      json
// @Param        productID  path  int  true  "product ID"
// @Success      200  {object}  domain.Product
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /products/{productID} [get]
// @Security     BearerAuth
func (h *StoreHandler) HandleGetProduct(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	productID, err := parseUintParam(ctx, "productID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	product, err := h.svc.GetProduct(ctx.Request.Context(), productID, user.CollegeID)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", productID))
			return
		}

		err = fmt.Errorf("v1.HandleGetProduct -> h.svc.GetProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// HandleUpdateProduct godoc
// @Summary      Update a product
// @Tags         store
// @Produce      json
// @Param        productID  path  int  true  "product ID"
// @Param        request    body  request.UpdateProductRequest true "request body"
// @Success      200  {object}  domain.Product
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /products/{productID} [put]
// @Security     BearerAuth
func (h *StoreHandler) HandleUpdateProduct(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	productID, err := parseUintParam(ctx, "productID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateProductRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	product, err := h.svc.UpdateProduct(ctx.Request.Context(), domain.Product{
		ID:                 productID,
		Name:               req.Name,
		Description:        req.Description,
		Category:           req.Category,
		PointsRequired:     req.PointsRequired,
		StockQuantity:      req.StockQuantity,
		MaxQuantityPerUser: req.MaxQuantityPerUser,
		Status:             domain.ProductStatus(req.Status),
		ImageURL:           req.ImageURL,
		CollegeID:          user.CollegeID,
	})
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", productID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateProduct -> h.svc.UpdateProduct -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// HandleGetCart godoc
// @Summary      Get the authenticated user's cart
// @Tags         cart
// @Produce      json
// @Success      200  {object}  response.CartResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /cart [get]
// @Security     BearerAuth
func (h *StoreHandler) HandleGetCart(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	cart, err := h.svc.GetCart(ctx.Request.Context(), user.ID, user.CollegeID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetCart -> h.svc.GetCart -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewCartResponse(cart))
}

// HandleAddCartItem godoc
// @Summary      Add a product to the cart
// @Tags         cart
// @Produce      json
// @Param        request  body  request.AddCartItemRequest true "request body"
// @Success      200  {object}  response.CartResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /cart/items [post]
// @Security     BearerAuth
func (h *StoreHandler) HandleAddCartItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cart, err := h.svc.AddCartItem(ctx.Request.Context(), user.ID, user.CollegeID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			response.RenderErr(ctx, response.ErrNotFound("product", "ID", req.ProductID))
		case errors.Is(err, service.ErrProductUnavailable):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(detailErr(err, service.ErrProductUnavailable)))
		case errors.Is(err, service.ErrInsufficientStock):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(detailErr(err, service.ErrInsufficientStock)))
		case errors.Is(err, service.ErrMaxQuantityExceeded):
			response.RenderErr(ctx, response.ErrBadRequest(detailErr(err, service.ErrMaxQuantityExceeded)))
		default:
			err = fmt.Errorf("v1.HandleAddCartItem -> h.svc.AddCartItem -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewCartResponse(cart))
}

// HandleUpdateCartItem godoc
// @Summary      Change a cart item's quantity
// @Description  Quantity 0 removes the item.
// @Tags         cart
// @Produce      json
// @Param        itemID   path  int  true  "cart item ID"
// @Param        request  body  request.UpdateCartItemRequest true "request body"
// @Success      200  {object}  response.CartResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /cart/items/{itemID} [put]
// @Security     BearerAuth
func (h *StoreHandler) HandleUpdateCartItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	itemID, err := parseUintParam(ctx, "itemID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateCartItemRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cart, err := h.svc.UpdateCartItem(ctx.Request.Context(), user.ID, user.CollegeID, itemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound):
			response.RenderErr(ctx, response.ErrNotFound("cart item", "ID", itemID))
		case errors.Is(err, service.ErrInsufficientStock):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(detailErr(err, service.ErrInsufficientStock)))
		case errors.Is(err, service.ErrMaxQuantityExceeded):
			response.RenderErr(ctx, response.ErrBadRequest(detailErr(err, service.ErrMaxQuantityExceeded)))
		default:
			err = fmt.Errorf("v1.HandleUpdateCartItem -> h.svc.UpdateCartItem -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.NewCartResponse(cart))
}

// HandleRemoveCartItem godoc
// @Summary      Remove a cart item
// @Tags         cart
// @Produce      json
// @Param        itemID  path  int  true  "cart item ID"
// @Success      200  {object}  response.CartResponse
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /cart/items/{itemID} [delete]
// @Security     BearerAuth
func (h *StoreHandler) HandleRemoveCartItem(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	itemID, err := parseUintParam(ctx, "itemID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	cart, err := h.svc.RemoveCartItem(ctx.Request.Context(), user.ID, user.CollegeID, itemID)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("cart item", "ID", itemID))
			return
		}

		err = fmt.Errorf("v1.HandleRemoveCartItem -> h.svc.RemoveCartItem -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewCartResponse(cart))
}

// HandleClearCart godoc
// @Summary      Clear the cart
// @Tags         cart
// @Produce      json
// @Success      204
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /cart [delete]
// @Security     BearerAuth
func (h *StoreHandler) HandleClearCart(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	if err := h.svc.ClearCart(ctx.Request.Context(), user.ID); err != nil {
		err = fmt.Errorf("v1.HandleClearCart -> h.svc.ClearCart -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleCheckout godoc
// @Summary      Convert the cart into an order
// @Description  Validates stock and balance, freezes item snapshots, spends the points and clears the cart in one transaction.
// @Tags         orders
// @Produce      json
// @Param        request  body  request.CheckoutRequest true "request body"
// @Success      201  {object}  domain.Order
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders/checkout [post]
// @Security     BearerAuth
func (h *StoreHandler) HandleCheckout(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.Checkout(ctx.Request.Context(), user.ID, user.CollegeID, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrEmptyCart))
		case errors.Is(err, service.ErrProductUnavailable):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(detailErr(err, service.ErrProductUnavailable)))
		case errors.Is(err, service.ErrInsufficientStock):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(detailErr(err, service.ErrInsufficientStock)))
		case errors.Is(err, service.ErrInsufficientPoints):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrInsufficientPoints))
		default:
			err = fmt.Errorf("v1.HandleCheckout -> h.svc.Checkout -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, order)
}

// HandleListOrders godoc
// @Summary      List the authenticated user's orders
// @Tags         orders
// @Produce      json
// @Param        page       query  int  false  "page number"
// @Param        page_size  query  int  false  "page size"
// @Success      200  {object}  response.OrderListResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders [get]
// @Security     BearerAuth
func (h *StoreHandler) HandleListOrders(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, pageSize, limit, offset := parsePagination(ctx)

	orders, total, err := h.svc.ListOrders(ctx.Request.Context(), user.ID, limit, offset)
	if err != nil {
		err = fmt.Errorf("v1.HandleListOrders -> h.svc.ListOrders -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.OrderListResponse{
		Orders:   orders,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// HandleGetOrder godoc
// @Summary      Get an order by ID
// @Tags         orders
// @Produce      json
// @Param        orderID  path  int  true  "order ID"
// @Success      200  {object}  domain.Order
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders/{orderID} [get]
// @Security     BearerAuth
func (h *StoreHandler) HandleGetOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, err := parseUintParam(ctx, "orderID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	order, err := h.svc.GetOrder(ctx.Request.Context(), orderID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}

		err = fmt.Errorf("v1.HandleGetOrder -> h.svc.GetOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleCancelOrder godoc
// @Summary      Cancel an order
// @Description  Restores stock and refunds the points. Only non-terminal orders can be cancelled.
// @Tags         orders
// @Produce      json
// @Param        orderID  path  int  true  "order ID"
// @Success      200  {object}  domain.Order
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders/{orderID}/cancel [post]
// @Security     BearerAuth
func (h *StoreHandler) HandleCancelOrder(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, err := parseUintParam(ctx, "orderID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	// Ownership check before the college-scoped cancel.
	if _, err = h.svc.GetOrder(ctx.Request.Context(), orderID, user.ID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}

		err = fmt.Errorf("v1.HandleCancelOrder -> h.svc.GetOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	order, err := h.svc.CancelOrder(ctx.Request.Context(), orderID, user.CollegeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
		case errors.Is(err, service.ErrInvalidOrderTransition):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInvalidOrderTransition))
		default:
			err = fmt.Errorf("v1.HandleCancelOrder -> h.svc.CancelOrder -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, order)
}

// HandleUpdateOrderStatus godoc
// @Summary      Advance an order through the fulfillment pipeline
// @Tags         orders
// @Produce      json
// @Param        orderID  path  int  true  "order ID"
// @Param        request  body  request.UpdateOrderStatusRequest true "request body"
// @Success      200  {object}  domain.Order
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /orders/{orderID}/status [put]
// @Security     BearerAuth
func (h *StoreHandler) HandleUpdateOrderStatus(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	orderID, err := parseUintParam(ctx, "orderID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var req request.UpdateOrderStatusRequest
	if err = ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err = req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	current, err := h.svc.GetOrder(ctx.Request.Context(), orderID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
			return
		}

		err = fmt.Errorf("v1.HandleUpdateOrderStatus -> h.svc.GetOrder -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	order, err := h.svc.UpdateOrderStatus(ctx.Request.Context(), orderID, user.CollegeID, current.Status, domain.OrderStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			response.RenderErr(ctx, response.ErrNotFound("order", "ID", orderID))
		case errors.Is(err, service.ErrInvalidOrderStatus):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrInvalidOrderStatus))
		case errors.Is(err, service.ErrInvalidOrderTransition):
			response.RenderErr(ctx, response.ErrConflict(service.ErrInvalidOrderTransition))
		default:
			err = fmt.Errorf("v1.HandleUpdateOrderStatus -> h.svc.UpdateOrderStatus -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, order)
}
