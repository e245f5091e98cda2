package v1

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/campuslink-api/internal/api/handler/v1/response"
	"github.com/campuslink/campuslink-api/internal/domain"
)

type LedgerService interface {
	GetBalance(ctx context.Context, userID uint) (domain.Balance, error)
	GetHistory(ctx context.Context, userID uint, limit, offset int) ([]domain.PointTransaction, int64, error)
	Reconcile(ctx context.Context, userID uint) (domain.Reconciliation, error)
}

type PointsHandler struct {
	svc  LedgerService
	uSvc UserService
}

func NewPointsHandler(svc LedgerService, uSvc UserService) *PointsHandler {
	return &PointsHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetBalance godoc
// @Summary      Get the authenticated user's point balance
// @Tags         points
// @Produce      json
// @Success      200  {object}  domain.Balance
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /points/balance [get]
// @Security     BearerAuth
func (h *PointsHandler) HandleGetBalance(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	balance, err := h.svc.GetBalance(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetBalance -> h.svc.GetBalance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, balance)
}

// HandleGetHistory godoc
// @Summary      Get the authenticated user's transaction history
// @Tags         points
// @Produce      json
// @Param        page       query     int  false  "page number"
// @Param        page_size  query     int  false  "page size"
// @Success      200  {object}  response.TransactionListResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /points/transactions [get]
// @Security     BearerAuth
func (h *PointsHandler) HandleGetHistory(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	page, pageSize, limit, offset := parsePagination(ctx)

	transactions, total, err := h.svc.GetHistory(ctx.Request.Context(), user.ID, limit, offset)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetHistory -> h.svc.GetHistory -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.TransactionListResponse{
		Transactions: transactions,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	})
}

// HandleReconcile godoc
// @Summary      Audit the authenticated user's balance against the ledger
// @Tags         points
// @Produce      json
// @Success      200  {object}  domain.Reconciliation
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /points/reconcile [get]
// @Security     BearerAuth
func (h *PointsHandler) HandleReconcile(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	result, err := h.svc.Reconcile(ctx.Request.Context(), user.ID)
	if err != nil {
		err = fmt.Errorf("v1.HandleReconcile -> h.svc.Reconcile -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, result)
}
