package repository

import (
	"context"
	"fmt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository/dao"
)

var (
	ErrUserEmailExists = dao.ErrUserEmailExists
	ErrUserNotFound    = dao.ErrUserNotFound
	ErrCollegeNotFound = dao.ErrCollegeNotFound
)

type UserDAO interface {
	Insert(ctx context.Context, user dao.User) (dao.User, error)
	FindByID(ctx context.Context, id uint) (dao.User, error)
	FindByEmail(ctx context.Context, email string) (dao.User, error)
	InsertCollege(ctx context.Context, college dao.College) (dao.College, error)
	FindCollegeByID(ctx context.Context, id uint) (dao.College, error)
	FindCollegeBySlug(ctx context.Context, slug string) (dao.College, error)
}

type UserRepository struct {
	dao UserDAO
}

func NewUserRepository(dao UserDAO) *UserRepository {
	return &UserRepository{
		dao: dao,
	}
}

func (r *UserRepository) domainToDao(u domain.User) dao.User {
	return dao.User{
		ID:         u.ID,
		Email:      u.Email,
		Password:   u.Password,
		FullName:   u.FullName,
		Department: u.Department,
		CollegeID:  u.CollegeID,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (r *UserRepository) daoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:         u.ID,
		Email:      u.Email,
		Password:   u.Password,
		FullName:   u.FullName,
		Department: u.Department,
		CollegeID:  u.CollegeID,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func (r *UserRepository) collegeDaoToDomain(c dao.College) domain.College {
	return domain.College{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		CreatedAt: c.CreatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(user))
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (domain.User, error) {
	user, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(user), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	user, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(user), nil
}

func (r *UserRepository) CreateCollege(ctx context.Context, college domain.College) (domain.College, error) {
	created, err := r.dao.InsertCollege(ctx, dao.College{
		Name: college.Name,
		Slug: college.Slug,
	})
	if err != nil {
		return domain.College{}, fmt.Errorf("r.dao.InsertCollege -> %w", err)
	}

	return r.collegeDaoToDomain(created), nil
}

func (r *UserRepository) FindCollegeByID(ctx context.Context, id uint) (domain.College, error) {
	college, err := r.dao.FindCollegeByID(ctx, id)
	if err != nil {
		return domain.College{}, fmt.Errorf("r.dao.FindCollegeByID -> %w", err)
	}

	return r.collegeDaoToDomain(college), nil
}

func (r *UserRepository) FindCollegeBySlug(ctx context.Context, slug string) (domain.College, error) {
	college, err := r.dao.FindCollegeBySlug(ctx, slug)
	if err != nil {
		return domain.College{}, fmt.Errorf("r.dao.FindCollegeBySlug -> %w", err)
	}

	return r.collegeDaoToDomain(college), nil
}
