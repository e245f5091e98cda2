package repository

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository/dao"
)

var (
	ErrPostNotFound         = dao.ErrPostNotFound
	ErrSelfIgniteNotAllowed = dao.ErrSelfIgniteNotAllowed
	ErrIgnitePointSpent     = dao.ErrIgnitePointSpent
)

type EngagementDAO interface {
	InsertPost(ctx context.Context, post dao.Post) (dao.Post, error)
	FindPostByID(ctx context.Context, postID, collegeID uint) (dao.Post, error)
	ToggleIgnite(ctx context.Context, postID, giverID, collegeID uint) (dao.IgniteOutcome, error)
	FindIgnitesByPost(ctx context.Context, postID uint) ([]dao.PostIgnite, error)
	HasIgnited(ctx context.Context, postID, giverID uint) (bool, error)
}

type EngagementRepository struct {
	dao EngagementDAO
}

func NewEngagementRepository(dao EngagementDAO) *EngagementRepository {
	return &EngagementRepository{
		dao: dao,
	}
}

func postDaoToDomain(p dao.Post) domain.Post {
	return domain.Post{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		AuthorID:    p.AuthorID,
		CollegeID:   p.CollegeID,
		IgniteCount: p.IgniteCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *EngagementRepository) CreatePost(ctx context.Context, post domain.Post) (domain.Post, error) {
	created, err := r.dao.InsertPost(ctx, dao.Post{
		Title:     post.Title,
		Content:   post.Content,
		AuthorID:  post.AuthorID,
		CollegeID: post.CollegeID,
	})
	if err != nil {
		return domain.Post{}, fmt.Errorf("r.dao.InsertPost -> %w", err)
	}

	return postDaoToDomain(created), nil
}

func (r *EngagementRepository) FindPostByID(ctx context.Context, postID, collegeID uint) (domain.Post, error) {
	post, err := r.dao.FindPostByID(ctx, postID, collegeID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("r.dao.FindPostByID -> %w", err)
	}

	return postDaoToDomain(post), nil
}

func (r *EngagementRepository) ToggleIgnite(ctx context.Context, postID, giverID, collegeID uint) (domain.IgniteResult, error) {
	outcome, err := r.dao.ToggleIgnite(ctx, postID, giverID, collegeID)
	if err != nil {
		return domain.IgniteResult{}, fmt.Errorf("r.dao.ToggleIgnite -> %w", err)
	}

	return domain.IgniteResult{
		Action:            domain.IgniteAction(outcome.Action),
		IgniteCount:       outcome.IgniteCount,
		PointsTransferred: outcome.PointsTransferred,
	}, nil
}

func (r *EngagementRepository) FindIgnitesByPost(ctx context.Context, postID uint) ([]domain.PostIgnite, error) {
	ignitesDAO, err := r.dao.FindIgnitesByPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindIgnitesByPost -> %w", err)
	}

	ignites := make([]domain.PostIgnite, len(ignitesDAO))
	for i, ig := range ignitesDAO {
		ignites[i] = domain.PostIgnite{
			ID:         ig.ID,
			PostID:     ig.PostID,
			GiverID:    ig.GiverID,
			ReceiverID: ig.ReceiverID,
			CreatedAt:  ig.CreatedAt,
		}
	}

	return ignites, nil
}

func (r *EngagementRepository) HasIgnited(ctx context.Context, postID, giverID uint) (bool, error) {
	ignited, err := r.dao.HasIgnited(ctx, postID, giverID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasIgnited -> %w", err)
	}

	return ignited, nil
}
