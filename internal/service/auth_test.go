package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/campuslink-api/internal/domain"
	"github.com/campuslink/campuslink-api/internal/repository"
)

func TestAuthService_Signup(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	ctx := context.Background()

	user, err := env.auth.Signup(ctx, domain.User{
		Email:     "alice@example.com",
		Password:  "sup3rsecret",
		FullName:  "Alice",
		CollegeID: college.ID,
	})
	require.NoError(t, err)
	require.NotZero(t, user.ID)

	// The password is stored hashed, never verbatim.
	require.NotEqual(t, "sup3rsecret", user.Password)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("sup3rsecret")))

	// Signup grants the welcome bonus from the college pool.
	balance, err := env.ledger.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, WelcomeBonusPoints, balance.CurrentBalance)

	pool, err := env.pool.GetPool(ctx, college.ID)
	require.NoError(t, err)
	require.Equal(t, WelcomeBonusPoints, pool.LifetimeDebits)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	ctx := context.Background()

	env.signup(t, "alice@example.com", college.ID)

	_, err := env.auth.Signup(ctx, domain.User{
		Email:     "alice@example.com",
		Password:  "sup3rsecret",
		CollegeID: college.ID,
	})
	require.ErrorIs(t, err, ErrUserEmailExists)
}

func TestAuthService_Signup_UnknownCollege(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Signup(context.Background(), domain.User{
		Email:     "alice@example.com",
		Password:  "sup3rsecret",
		CollegeID: 999,
	})
	require.ErrorIs(t, err, ErrCollegeNotFound)
}

func TestAuthService_Signup_DryPool(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	ctx := context.Background()

	// Drain the pool so the welcome bonus cannot be paid out.
	pool, err := env.pool.GetPool(ctx, college.ID)
	require.NoError(t, err)
	_, err = env.pool.DebitPool(ctx, college.ID, repository.PoolEntry{
		Amount:      pool.AvailableBalance(),
		Reason:      domain.PoolReasonAdminReward,
		Description: "drain",
	})
	require.NoError(t, err)

	// Signup still succeeds; the bonus is best effort.
	user, err := env.auth.Signup(ctx, domain.User{
		Email:     "alice@example.com",
		Password:  "sup3rsecret",
		CollegeID: college.ID,
	})
	require.NoError(t, err)

	balance, err := env.ledger.GetBalance(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 0, balance.CurrentBalance)
}

func TestAuthService_Login(t *testing.T) {
	env := newTestEnv(t)
	college := env.createCollege(t, "eng")
	ctx := context.Background()

	env.signup(t, "alice@example.com", college.ID)

	user, err := env.auth.Login(ctx, "alice@example.com", "sup3rsecret")
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", user.Email)

	_, err = env.auth.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, ErrWrongPassword)

	_, err = env.auth.Login(ctx, "nobody@example.com", "sup3rsecret")
	require.ErrorIs(t, err, ErrUserNotFound)
}
