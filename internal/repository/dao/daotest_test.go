package dao

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database per test. The DSN is keyed by
// test name so parallel tests never share state.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%v?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, InitTables(db))

	return db
}

// seedUser creates a college-scoped user and returns its ID.
func seedUser(t *testing.T, db *gorm.DB, email string, collegeID uint) uint {
	t.Helper()

	user := User{
		Email:     email,
		Password:  "hashed",
		FullName:  "Test User",
		CollegeID: collegeID,
	}
	require.NoError(t, db.Create(&user).Error)

	return user.ID
}

// seedCollege creates a college and returns its ID.
func seedCollege(t *testing.T, db *gorm.DB, slug string) uint {
	t.Helper()

	college := College{
		Name: "Test College",
		Slug: slug,
	}
	require.NoError(t, db.Create(&college).Error)

	return college.ID
}

// grantPoints gives a user points through the ledger so tests start from a
// consistent balance and ledger state.
func grantPoints(t *testing.T, db *gorm.DB, userID, collegeID uint, points int) {
	t.Helper()

	ledger := NewLedgerDAO(db)
	_, err := ledger.AppendTransaction(context.Background(), PointTransaction{
		UserID:      userID,
		Type:        "EARNED",
		Points:      points,
		Description: "test grant",
		CollegeID:   collegeID,
	})
	require.NoError(t, err)
}
