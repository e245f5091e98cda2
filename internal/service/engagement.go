package service

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository"
)

var (
	ErrPostNotFound         = repository.ErrPostNotFound
	ErrSelfIgniteNotAllowed = repository.ErrSelfIgniteNotAllowed
	ErrIgnitePointSpent     = repository.ErrIgnitePointSpent
)

type EngagementRepository interface {
	CreatePost(ctx context.Context, post domain.Post) (domain.Post, error)
	FindPostByID(ctx context.Context, postID, collegeID uint) (domain.Post, error)
	ToggleIgnite(ctx context.Context, postID, giverID, collegeID uint) (domain.IgniteResult, error)
	HasIgnited(ctx context.Context, postID, giverID uint) (bool, error)
}

type EngagementService struct {
	repo EngagementRepository
}

func NewEngagementService(repo EngagementRepository) *EngagementService {
	return &EngagementService{
		repo: repo,
	}
}

func (s *EngagementService) CreatePost(ctx context.Context, post domain.Post) (domain.Post, error) {
	created, err := s.repo.CreatePost(ctx, post)
	if err != nil {
		return domain.Post{}, fmt.Errorf("s.repo.CreatePost -> %w", err)
	}

	return created, nil
}

func (s *EngagementService) GetPost(ctx context.Context, postID, collegeID uint) (domain.Post, error) {
	post, err := s.repo.FindPostByID(ctx, postID, collegeID)
	if err != nil {
		return domain.Post{}, fmt.Errorf("s.repo.FindPostByID -> %w", err)
	}

	return post, nil
}

// ToggleIgnite adds the ignite when absent and removes it when present,
// moving exactly one point between giver and author each way.
func (s *EngagementService) ToggleIgnite(ctx context.Context, postID, giverID, collegeID uint) (domain.IgniteResult, error) {
	result, err := s.repo.ToggleIgnite(ctx, postID, giverID, collegeID)
	if err != nil {
		return domain.IgniteResult{}, fmt.Errorf("s.repo.ToggleIgnite -> %w", err)
	}

	return result, nil
}

func (s *EngagementService) HasIgnited(ctx context.Context, postID, giverID uint) (bool, error) {
	ignited, err := s.repo.HasIgnited(ctx, postID, giverID)
	if err != nil {
		return false, fmt.Errorf("s.repo.HasIgnited -> %w", err)
	}

	return ignited, nil
}
