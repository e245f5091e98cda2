package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/campuslink-api/internal/api/handler/v1/request"
	"github.com/campuslink/campuslink-api/internal/api/handler/v1/response"
	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository"
	"github.com/campuslink/campuslink-api/internal/service"
)

type PoolService interface {
	GetPool(ctx context.Context, collegeID uint) (domain.RewardPool, error)
	CreditPool(ctx context.Context, collegeID uint, entry repository.PoolEntry) (domain.PoolTransaction, error)
	DebitPool(ctx context.Context, collegeID uint, entry repository.PoolEntry) (domain.PoolTransaction, error)
	GiveRewardFromPool(ctx context.Context, collegeID, userID uint, entry repository.PoolEntry) (domain.RewardGrant, error)
	GetTransactions(ctx context.Context, collegeID uint, kind domain.PoolTransactionType, reason string, limit, offset int) ([]domain.PoolTransaction, int64, error)
	GetAnalytics(ctx context.Context, collegeID uint) (domain.PoolAnalytics, error)
}

type PoolHandler struct {
	svc  PoolService
	uSvc UserService
}

func NewPoolHandler(svc PoolService, uSvc UserService) *PoolHandler {
	return &PoolHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleGetPool godoc
// @Summary      Get the college reward pool
// @Tags         pool
// @Produce      json
// @Success      200  {object}  response.PoolResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pool [get]
// @Security     BearerAuth
func (h *PoolHandler) HandleGetPool(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	pool, err := h.svc.GetPool(ctx.Request.Context(), user.CollegeID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPool -> h.svc.GetPool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NewPoolResponse(pool))
}

// HandleCreditPool godoc
// @Summary      Credit the college reward pool
// @Tags         pool
// @Produce      json
// @Param        request  body      request.CreditPoolRequest true "request body"
// @Success      201  {object}  domain.PoolTransaction
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pool/credit [post]
// @Security     BearerAuth
func (h *PoolHandler) HandleCreditPool(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreditPoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	txn, err := h.svc.CreditPool(ctx.Request.Context(), user.CollegeID, repository.PoolEntry{
		Amount:      req.Amount,
		Reason:      req.Reason,
		Description: req.Description,
		CreatedBy:   &user.ID,
	})
	if err != nil {
		if errors.Is(err, service.ErrPoolCreditTooLarge) {
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrPoolCreditTooLarge))
			return
		}

		err = fmt.Errorf("v1.HandleCreditPool -> h.svc.CreditPool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, txn)
}

// HandleDebitPool godoc
// @Summary      Debit the college reward pool
// @Tags         pool
// @Produce      json
// @Param        request  body      request.DebitPoolRequest true "request body"
// @Success      201  {object}  domain.PoolTransaction
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pool/debit [post]
// @Security     BearerAuth
func (h *PoolHandler) HandleDebitPool(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.DebitPoolRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	txn, err := h.svc.DebitPool(ctx.Request.Context(), user.CollegeID, repository.PoolEntry{
		Amount:      req.Amount,
		Reason:      req.Reason,
		Description: req.Description,
		CreatedBy:   &user.ID,
	})
	if err != nil {
		if errors.Is(err, service.ErrInsufficientPoolBalance) {
			response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrInsufficientPoolBalance))
			return
		}

		err = fmt.Errorf("v1.HandleDebitPool -> h.svc.DebitPool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, txn)
}

// HandleGiveReward godoc
// @Summary      Grant points from the pool to a user
// @Tags         pool
// @Produce      json
// @Param        request  body      request.GiveRewardRequest true "request body"
// @Success      201  {object}  domain.RewardGrant
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pool/rewards [post]
// @Security     BearerAuth
func (h *PoolHandler) HandleGiveReward(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.GiveRewardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	grant, err := h.svc.GiveRewardFromPool(ctx.Request.Context(), user.CollegeID, req.UserID, repository.PoolEntry{
		Amount:      req.Amount,
		Reason:      req.Reason,
		Description: req.Description,
		CreatedBy:   &user.ID,
	})
	if err != nil {
		if errors.Is(err, service.ErrInsufficientPoolBalance) {
			response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrInsufficientPoolBalance))
			return
		}

		err = fmt.Errorf("v1.HandleGiveReward -> h.svc.GiveRewardFromPool -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, grant)
}

// HandleGetPoolTransactions godoc
// @Summary      List pool transactions
// @Tags         pool
// @Produce      json
// @Param        type       query     string  false  "CREDIT or DEBIT"
// @Param        reason     query     string  false  "reason filter"
// @Param        page       query     int     false  "page number"
// @Param        page_size  query     int     false  "page size"
// @Success      200  {object}  response.PoolTransactionListResponse
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pool/transactions [get]
// @Security     BearerAuth
func (h *PoolHandler) HandleGetPoolTransactions(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	kind := domain.PoolTransactionType(ctx.Query("type"))
	if kind != "" && !kind.IsValid() {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("invalid transaction type")))
		return
	}

	page, pageSize, limit, offset := parsePagination(ctx)

	transactions, total, err := h.svc.GetTransactions(ctx.Request.Context(), user.CollegeID, kind, ctx.Query("reason"), limit, offset)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPoolTransactions -> h.svc.GetTransactions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.PoolTransactionListResponse{
		Transactions: transactions,
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
	})
}

// HandleGetPoolAnalytics godoc
// @Summary      Get pool aggregates
// @Tags         pool
// @Produce      json
// @Success      200  {object}  domain.PoolAnalytics
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /pool/analytics [get]
// @Security     BearerAuth
func (h *PoolHandler) HandleGetPoolAnalytics(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	analytics, err := h.svc.GetAnalytics(ctx.Request.Context(), user.CollegeID)
	if err != nil {
		err = fmt.Errorf("v1.HandleGetPoolAnalytics -> h.svc.GetAnalytics -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, analytics)
}
