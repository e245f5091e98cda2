package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/campuslink/campuslink-api/internal/api/handler/v1/request"
	"github.com/campuslink/campuslink-api/internal/api/handler/v1/response"
	"github.com/campuslink/campuslink-api/internal/api/middleware"
	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/service"
)

type UserService interface {
	GetUser(ctx context.Context, id uint) (domain.User, error)
	CreateCollege(ctx context.Context, college domain.College) (domain.College, error)
	GetCollege(ctx context.Context, id uint) (domain.College, error)
	GetCollegeBySlug(ctx context.Context, slug string) (domain.College, error)
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// getUserFromContext loads the authenticated user placed there by VerifyJWT.
func getUserFromContext(ctx *gin.Context, svc UserService) (domain.User, *response.Err) {
	value, exists := ctx.Get(middleware.ContextKeyUserID)
	if !exists {
		return domain.User{}, response.ErrUnauthorized(errors.New("not authenticated"))
	}

	userID, ok := value.(uint)
	if !ok {
		return domain.User{}, response.ErrUnauthorized(errors.New("not authenticated"))
	}

	user, err := svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return domain.User{}, response.ErrUnauthorized(errors.New("user no longer exists"))
		}

		return domain.User{}, response.ErrInternalServerError(fmt.Errorf("getUserFromContext -> svc.GetUser -> %w", err))
	}

	return user, nil
}

func parseUintParam(ctx *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %v", name)
	}

	return uint(value), nil
}

// parsePagination reads page/page_size query params with sane defaults.
func parsePagination(ctx *gin.Context) (page, pageSize, limit, offset int) {
	page, _ = strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	pageSize, _ = strconv.Atoi(ctx.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return page, pageSize, pageSize, (page - 1) * pageSize
}

// HandleGetUser godoc
// @Summary      Get a user by ID
// @Tags         users
// @Produce      json
// @Param        userID   path       int  true  "user ID"
// @Success      200      {object}   domain.User
// @Failure      401      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /users/{userID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetUser(ctx *gin.Context) {
	userID, err := parseUintParam(ctx, "userID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("user", "ID", userID))
			return
		}

		err = fmt.Errorf("v1.HandleGetUser -> h.svc.GetUser -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleCreateCollege godoc
// @Summary      Create a college
// @Tags         colleges
// @Produce      json
// @Param        request  body       request.CreateCollegeRequest true "request body"
// @Success      201      {object}   domain.College
// @Failure      400      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /colleges [post]
// @Security     BearerAuth
func (h *UserHandler) HandleCreateCollege(ctx *gin.Context) {
	var req request.CreateCollegeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	college, err := h.svc.CreateCollege(ctx.Request.Context(), domain.College{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreateCollege -> h.svc.CreateCollege -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, college)
}

// HandleGetCollege godoc
// @Summary      Get a college by ID
// @Tags         colleges
// @Produce      json
// @Param        collegeID  path       int  true  "college ID"
// @Success      200        {object}   domain.College
// @Failure      404        {object}   response.Err
// @Failure      500        {object}   response.Err
// @Router       /colleges/{collegeID} [get]
// @Security     BearerAuth
func (h *UserHandler) HandleGetCollege(ctx *gin.Context) {
	collegeID, err := parseUintParam(ctx, "collegeID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	college, err := h.svc.GetCollege(ctx.Request.Context(), collegeID)
	if err != nil {
		if errors.Is(err, service.ErrCollegeNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("college", "ID", collegeID))
			return
		}

		err = fmt.Errorf("v1.HandleGetCollege -> h.svc.GetCollege -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, college)
}
