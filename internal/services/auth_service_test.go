package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/apperr"
	"github.com/tbourn/go-board-backend/internal/domain"
)

// fakeLimiter is an in-memory LoginLimiter.
type fakeLimiter struct {
	failures map[string]int
	max      int
	err      error
	resets   int
}

func newFakeLimiter(max int) *fakeLimiter {
	return &fakeLimiter{failures: map[string]int{}, max: max}
}

func (f *fakeLimiter) IsLocked(_ context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.failures[email] >= f.max, nil
}

func (f *fakeLimiter) RecordFailure(_ context.Context, email string) error {
	f.failures[email]++
	return f.err
}

func (f *fakeLimiter) ResetAttempts(_ context.Context, email string) error {
	delete(f.failures, email)
	f.resets++
	return f.err
}

func newAuthService(t *testing.T, limiter LoginLimiter) *AuthService {
	t.Helper()
	return &AuthService{DB: newTestDB(t), Tokens: testTokens(), Hasher: testHasher, Limiter: limiter}
}

func TestAuthService_SignUp(t *testing.T) {
	svc := newAuthService(t, nil)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, SignUpInput{Email: " new@example.com ", Password: "secret1", Name: strPtr("New")})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.Equal(t, "new@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.Password, "password must be stored hashed")

	ok, err := svc.Hasher.Compare("secret1", u.Password)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "new@example.com", Password: "other1"})
	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
	assert.Equal(t, int64(1), countRows(t, svc.DB, &domain.User{}))
}

func TestAuthService_SignUp_ConcurrentInsertIsEmailInUse(t *testing.T) {
	svc := newAuthService(t, nil)

	// another request registers the same email after the lookup
	raced := false
	require.NoError(t, svc.DB.Callback().Create().Before("gorm:create").Register("test:concurrent_signup", func(tx *gorm.DB) {
		u, ok := tx.Statement.Dest.(*domain.User)
		if !ok || raced {
			return
		}
		raced = true
		tx.Session(&gorm.Session{NewDB: true}).Create(&domain.User{Email: u.Email, Password: "x"})
	}))

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "race@example.com", Password: "secret1"})
	require.True(t, raced)
	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.True(t, apperr.IsKind(err, apperr.KindBadRequest))
}

func TestAuthService_Login(t *testing.T) {
	svc := newAuthService(t, nil)
	u := seedUser(t, svc.DB, "me@example.com", "secret1")
	ctx := context.Background()

	pair, err := svc.Login(ctx, "me@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.Tokens.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "me@example.com", claims.Email)
	assert.Equal(t, "user me@example.com", claims.Name)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", "secret1"},
		{"wrong password", "me@example.com", "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, tt.email, tt.password)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
		})
	}
}

func TestAuthService_Login_Lockout(t *testing.T) {
	limiter := newFakeLimiter(3)
	svc := newAuthService(t, limiter)
	seedUser(t, svc.DB, "me@example.com", "secret1")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, "me@example.com", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}

	_, err := svc.Login(ctx, "me@example.com", "secret1")
	assert.ErrorIs(t, err, ErrAccountLocked)
	assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
}

func TestAuthService_Login_SuccessResetsCounter(t *testing.T) {
	limiter := newFakeLimiter(3)
	svc := newAuthService(t, limiter)
	seedUser(t, svc.DB, "me@example.com", "secret1")
	ctx := context.Background()

	_, err := svc.Login(ctx, "me@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, limiter.failures["me@example.com"])

	_, err = svc.Login(ctx, "me@example.com", "secret1")
	require.NoError(t, err)
	assert.Zero(t, limiter.failures["me@example.com"])
	assert.Equal(t, 1, limiter.resets)
}

func TestAuthService_Login_LimiterOutageDoesNotBlock(t *testing.T) {
	limiter := newFakeLimiter(1)
	limiter.err = errors.New("redis down")
	svc := newAuthService(t, limiter)
	seedUser(t, svc.DB, "me@example.com", "secret1")

	_, err := svc.Login(context.Background(), "me@example.com", "secret1")
	require.NoError(t, err)
}

func TestAuthService_Refresh(t *testing.T) {
	svc := newAuthService(t, nil)
	u := seedUser(t, svc.DB, "me@example.com", "secret1")
	ctx := context.Background()

	pair, err := svc.Login(ctx, "me@example.com", "secret1")
	require.NoError(t, err)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	claims, err := svc.Tokens.VerifyAccess(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)

	_, err = svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// An access token is never accepted as a refresh token.
	_, err = svc.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, svc.DB.Delete(&domain.User{}, u.ID).Error)
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}
