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
	"github.com/campuslink/campuslink-api/internal/service"
)

type EngagementService interface {
	CreatePost(ctx context.Context, post domain.Post) (domain.Post, error)
	GetPost(ctx context.Context, postID, collegeID uint) (domain.Post, error)
	ToggleIgnite(ctx context.Context, postID, giverID, collegeID uint) (domain.IgniteResult, error)
	HasIgnited(ctx context.Context, postID, giverID uint) (bool, error)
}

type EngagementHandler struct {
	svc  EngagementService
	uSvc UserService
}

func NewEngagementHandler(svc EngagementService, uSvc UserService) *EngagementHandler {
	return &EngagementHandler{
		svc:  svc,
		uSvc: uSvc,
	}
}

// HandleCreatePost godoc
// @Summary      Create a post
// @Tags         posts
// @Produce      json
// @Param        request  body      request.CreatePostRequest true "request body"
// @Success      201  {object}  domain.Post
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /posts [post]
// @Security     BearerAuth
func (h *EngagementHandler) HandleCreatePost(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreatePostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	post, err := h.svc.CreatePost(ctx.Request.Context(), domain.Post{
		Title:     req.Title,
		Content:   req.Content,
		AuthorID:  user.ID,
		CollegeID: user.CollegeID,
	})
	if err != nil {
		err = fmt.Errorf("v1.HandleCreatePost -> h.svc.CreatePost -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, post)
}

// HandleGetPost godoc
// @Summary      Get a post by ID
// @Tags         posts
// @Produce      json
// @Param        postID   path       int  true  "post ID"
// @Success      200  {object}  domain.Post
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /posts/{postID} [get]
// @Security     BearerAuth
func (h *EngagementHandler) HandleGetPost(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	postID, err := parseUintParam(ctx, "postID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	post, err := h.svc.GetPost(ctx.Request.Context(), postID, user.CollegeID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("post", "ID", postID))
			return
		}

		err = fmt.Errorf("v1.HandleGetPost -> h.svc.GetPost -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, post)
}

// HandleToggleIgnite godoc
// @Summary      Toggle an ignite on a post
// @Description  Spends 1 point to boost the post's author, or refunds it when toggled off.
// @Tags         posts
// @Produce      json
// @Param        postID   path       int  true  "post ID"
// @Success      200  {object}  domain.IgniteResult
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      422  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /posts/{postID}/ignite [post]
// @Security     BearerAuth
func (h *EngagementHandler) HandleToggleIgnite(ctx *gin.Context) {
	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	postID, err := parseUintParam(ctx, "postID")
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.ToggleIgnite(ctx.Request.Context(), postID, user.ID, user.CollegeID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			response.RenderErr(ctx, response.ErrNotFound("post", "ID", postID))
		case errors.Is(err, service.ErrSelfIgniteNotAllowed):
			response.RenderErr(ctx, response.ErrBadRequest(service.ErrSelfIgniteNotAllowed))
		case errors.Is(err, service.ErrInsufficientPoints):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrInsufficientPoints))
		case errors.Is(err, service.ErrIgnitePointSpent):
			response.RenderErr(ctx, response.ErrUnprocessableEntity(service.ErrIgnitePointSpent))
		default:
			err = fmt.Errorf("v1.HandleToggleIgnite -> h.svc.ToggleIgnite -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, result)
}
