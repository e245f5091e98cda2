package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository"
	"github.com/campuslink/campuslink-api/internal/repository/dao"
)

// testEnv wires the whole stack against an in-memory database so the
// services are exercised with their real repositories underneath.
type testEnv struct {
	auth       *AuthService
	users      *UserService
	ledger     *LedgerService
	pool       *PoolService
	engagement *EngagementService
	store      *StoreService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%v?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dao.InitTables(db))

	ledgerDAO := dao.NewLedgerDAO(db)
	poolDAO := dao.NewPoolDAO(db, ledgerDAO)
	storeDAO := dao.NewStoreDAO(db, ledgerDAO)
	engagementDAO := dao.NewEngagementDAO(db, ledgerDAO)
	userDAO := dao.NewUserDAO(db)

	userRepo := repository.NewUserRepository(userDAO)
	ledgerRepo := repository.NewLedgerRepository(ledgerDAO)
	poolRepo := repository.NewPoolRepository(poolDAO)
	storeRepo := repository.NewStoreRepository(storeDAO)
	engagementRepo := repository.NewEngagementRepository(engagementDAO)

	return &testEnv{
		auth:       NewAuthService(userRepo, poolRepo),
		users:      NewUserService(userRepo),
		ledger:     NewLedgerService(ledgerRepo, storeRepo),
		pool:       NewPoolService(poolRepo),
		engagement: NewEngagementService(engagementRepo),
		store:      NewStoreService(storeRepo),
	}
}

func (e *testEnv) createCollege(t *testing.T, slug string) domain.College {
	t.Helper()

	college, err := e.users.CreateCollege(context.Background(), domain.College{
		Name: "College " + slug,
		Slug: slug,
	})
	require.NoError(t, err)

	return college
}

func (e *testEnv) signup(t *testing.T, email string, collegeID uint) domain.User {
	t.Helper()

	user, err := e.auth.Signup(context.Background(), domain.User{
		Email:     email,
		Password:  "sup3rsecret",
		FullName:  "Test User",
		CollegeID: collegeID,
	})
	require.NoError(t, err)

	return user
}

func (e *testEnv) createProduct(t *testing.T, collegeID uint, name string, points, stock, maxPerUser int) domain.Product {
	t.Helper()

	product, err := e.store.CreateProduct(context.Background(), domain.Product{
		Name:               name,
		Category:           "merch",
		PointsRequired:     points,
		StockQuantity:      stock,
		MaxQuantityPerUser: maxPerUser,
		CollegeID:          collegeID,
		CreatedBy:          1,
	})
	require.NoError(t, err)

	return product
}

// grantReward funds a user from the college pool, the only way points enter
// circulation.
func (e *testEnv) grantReward(t *testing.T, collegeID, userID uint, amount int) {
	t.Helper()

	_, err := e.pool.GiveRewardFromPool(context.Background(), collegeID, userID, repository.PoolEntry{
		Amount:      amount,
		Reason:      domain.PoolReasonAdminReward,
		Description: "test grant",
	})
	require.NoError(t, err)
}
