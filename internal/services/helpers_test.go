package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/auth"
	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/repo"
)

// newTestDB opens a migrated SQLite file unique to t with foreign keys on.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "services.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, repo.AutoMigrate(db))
	return db
}

// testHasher keeps bcrypt fast in tests.
var testHasher = auth.NewHasher(bcrypt.MinCost)

func testTokens() *auth.TokenManager {
	return auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		Issuer:        "test",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
}

func strPtr(s string) *string { return &s }

func seedUser(t *testing.T, db *gorm.DB, email, password string) *domain.User {
	t.Helper()
	digest, err := testHasher.Hash(password)
	require.NoError(t, err)
	u := &domain.User{Email: email, Name: strPtr("user " + email), Password: digest}
	require.NoError(t, repo.CreateUser(context.Background(), db, u))
	return u
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint, title string) *domain.Post {
	t.Helper()
	p := &domain.Post{Title: title, Content: "content", AuthorID: authorID}
	require.NoError(t, repo.CreatePost(context.Background(), db, p))
	return p
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
