package service

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink-api/internal/domain"
)

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	CreateCollege(ctx context.Context, college domain.College) (domain.College, error)
	FindCollegeByID(ctx context.Context, id uint) (domain.College, error)
	FindCollegeBySlug(ctx context.Context, slug string) (domain.College, error)
}

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{
		repo: repo,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) CreateCollege(ctx context.Context, college domain.College) (domain.College, error) {
	created, err := s.repo.CreateCollege(ctx, college)
	if err != nil {
		return domain.College{}, fmt.Errorf("s.repo.CreateCollege -> %w", err)
	}

	return created, nil
}

func (s *UserService) GetCollege(ctx context.Context, id uint) (domain.College, error) {
	college, err := s.repo.FindCollegeByID(ctx, id)
	if err != nil {
		return domain.College{}, fmt.Errorf("s.repo.FindCollegeByID -> %w", err)
	}

	return college, nil
}

func (s *UserService) GetCollegeBySlug(ctx context.Context, slug string) (domain.College, error) {
	college, err := s.repo.FindCollegeBySlug(ctx, slug)
	if err != nil {
		return domain.College{}, fmt.Errorf("s.repo.FindCollegeBySlug -> %w", err)
	}

	return college, nil
}
