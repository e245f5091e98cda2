//go:build integration

package dao

import (
	"context"
	"fmt"
	"testing"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newPostgresDB spins up a throwaway Postgres container. Everything runs
// against the real driver, so sqlite-masked differences (pgerrcode mapping,
// conditional updates under concurrency) are covered here.
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=campuslink",
			"POSTGRES_PASSWORD=campuslink",
			"POSTGRES_DB=campuslink_test",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})

	dsn := fmt.Sprintf("host=localhost port=%s user=campuslink password=campuslink dbname=campuslink_test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var db *gorm.DB
	err = pool.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if openErr != nil {
			return openErr
		}
		sqlDB, openErr := db.DB()
		if openErr != nil {
			return openErr
		}
		return sqlDB.Ping()
	})
	require.NoError(t, err)
	require.NoError(t, InitTables(db))

	return db
}

func TestPostgres_DuplicateEmail(t *testing.T) {
	db := newPostgresDB(t)
	userDAO := NewUserDAO(db)
	ctx := context.Background()

	college := College{Name: "Engineering", Slug: "eng"}
	require.NoError(t, db.Create(&college).Error)

	_, err := userDAO.Insert(ctx, User{
		Email:     "alice@example.com",
		Password:  "hash",
		FullName:  "Alice",
		CollegeID: college.ID,
	})
	require.NoError(t, err)

	// The unique violation maps through pgerrcode.
	_, err = userDAO.Insert(ctx, User{
		Email:     "alice@example.com",
		Password:  "hash",
		FullName:  "Alice Again",
		CollegeID: college.ID,
	})
	require.ErrorIs(t, err, ErrUserEmailExists)
}

func TestPostgres_ConcurrentIgnites(t *testing.T) {
	db := newPostgresDB(t)
	ledger := NewLedgerDAO(db)
	engagement := NewEngagementDAO(db, ledger)
	ctx := context.Background()

	college := College{Name: "Engineering", Slug: "eng"}
	require.NoError(t, db.Create(&college).Error)

	author := User{Email: "author@example.com", Password: "hash", FullName: "Author", CollegeID: college.ID}
	require.NoError(t, db.Create(&author).Error)

	post := Post{Title: "demo", Content: "demo", AuthorID: author.ID, CollegeID: college.ID}
	require.NoError(t, db.Create(&post).Error)

	const givers = 8
	done := make(chan error, givers)
	for i := 0; i < givers; i++ {
		giver := User{
			Email:     fmt.Sprintf("giver%d@example.com", i),
			Password:  "hash",
			FullName:  "Giver",
			CollegeID: college.ID,
		}
		require.NoError(t, db.Create(&giver).Error)
		_, err := ledger.AppendTransaction(ctx, PointTransaction{
			UserID:    giver.ID,
			Type:      "EARNED",
			Points:    10,
			CollegeID: college.ID,
		})
		require.NoError(t, err)

		go func(giverID uint) {
			_, err := engagement.ToggleIgnite(ctx, post.ID, giverID, college.ID)
			done <- err
		}(giver.ID)
	}

	for i := 0; i < givers; i++ {
		require.NoError(t, <-done)
	}

	// Every ignite landed exactly once: counter, rows and the author's
	// balance all agree.
	var got Post
	require.NoError(t, db.Take(&got, post.ID).Error)
	require.Equal(t, givers, got.IgniteCount)

	var rows int64
	require.NoError(t, db.Model(&PostIgnite{}).Where("post_id = ?", post.ID).Count(&rows).Error)
	require.EqualValues(t, givers, rows)

	balance, err := ledger.GetBalance(ctx, author.ID)
	require.NoError(t, err)
	require.Equal(t, givers, balance)
}

func TestPostgres_ConcurrentCheckout_NoOversell(t *testing.T) {
	db := newPostgresDB(t)
	ledger := NewLedgerDAO(db)
	store := NewStoreDAO(db, ledger)
	ctx := context.Background()

	college := College{Name: "Engineering", Slug: "eng"}
	require.NoError(t, db.Create(&college).Error)

	product := Product{
		Name:               "Limited Mug",
		Category:           "merch",
		PointsRequired:     10,
		StockQuantity:      3,
		MaxQuantityPerUser: 1,
		Status:             "ACTIVE",
		CollegeID:          college.ID,
		CreatedBy:          1,
	}
	require.NoError(t, db.Create(&product).Error)

	const buyers = 6
	userIDs := make([]uint, 0, buyers)
	for i := 0; i < buyers; i++ {
		user := User{
			Email:     fmt.Sprintf("buyer%d@example.com", i),
			Password:  "hash",
			FullName:  "Buyer",
			CollegeID: college.ID,
		}
		require.NoError(t, db.Create(&user).Error)
		_, err := ledger.AppendTransaction(ctx, PointTransaction{
			UserID:    user.ID,
			Type:      "EARNED",
			Points:    100,
			CollegeID: college.ID,
		})
		require.NoError(t, err)
		require.NoError(t, store.AddCartItem(ctx, user.ID, college.ID, product.ID, 1))
		userIDs = append(userIDs, user.ID)
	}

	done := make(chan error, buyers)
	for _, userID := range userIDs {
		go func(id uint) {
			_, _, err := store.Checkout(ctx, id, college.ID, "")
			done <- err
		}(userID)
	}

	succeeded := 0
	for i := 0; i < buyers; i++ {
		if err := <-done; err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
		}
	}

	// Exactly the available stock was sold, never more.
	require.Equal(t, 3, succeeded)

	var got Product
	require.NoError(t, db.Take(&got, product.ID).Error)
	require.Equal(t, 0, got.StockQuantity)
}
