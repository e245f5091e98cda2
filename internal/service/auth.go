package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository"
)

// WelcomeBonusPoints is granted from the college pool on signup.
const WelcomeBonusPoints = 50

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrUserNotFound    = repository.ErrUserNotFound
	ErrCollegeNotFound = repository.ErrCollegeNotFound
	ErrWrongPassword   = errors.New("wrong password")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindCollegeByID(ctx context.Context, id uint) (domain.College, error)
}

type AuthPoolRepository interface {
	GiveReward(ctx context.Context, collegeID, userID uint, entry repository.PoolEntry) (domain.RewardGrant, error)
}

type AuthService struct {
	repo AuthUserRepository
	pool AuthPoolRepository
}

func NewAuthService(repo AuthUserRepository, pool AuthPoolRepository) *AuthService {
	return &AuthService{
		repo: repo,
		pool: pool,
	}
}

func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	if _, err := s.repo.FindCollegeByID(ctx, user.CollegeID); err != nil {
		if errors.Is(err, repository.ErrCollegeNotFound) {
			return domain.User{}, ErrCollegeNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindCollegeByID -> %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, err
	}
	user.Password = string(hash)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	// Best effort. A drained pool must not block signup.
	_, err = s.pool.GiveReward(ctx, created.CollegeID, created.ID, repository.PoolEntry{
		Amount:      WelcomeBonusPoints,
		Reason:      domain.PoolReasonWelcomeBonus,
		Description: "Welcome bonus",
	})
	if err != nil {
		zap.L().Warn("welcome bonus not granted",
			zap.Uint("user_id", created.ID),
			zap.Uint("college_id", created.CollegeID),
			zap.Error(err),
		)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	return user, nil
}
