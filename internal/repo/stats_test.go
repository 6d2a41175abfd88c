package repo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-board-backend/internal/domain"
)

func TestPostsStats_MissingTable(t *testing.T) {
	db, err := OpenSQLite("file:stats_missing?mode=memory&cache=shared")
	require.NoError(t, err)

	_, _, err = PostsStats(context.Background(), db)
	assert.Error(t, err)
}

func TestPostsStats_Empty(t *testing.T) {
	n, at, err := PostsStats(context.Background(), newTestDB(t))
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Nil(t, at)
}

func TestPostsStats_NewestEditWins(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "stats@example.com", "통계")

	jan := time.Date(2025, 1, 15, 8, 0, 0, 0, time.UTC)
	mar := time.Date(2025, 3, 1, 21, 45, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	for _, ts := range []time.Time{jan, mar, feb} {
		require.NoError(t, db.Create(&domain.Post{
			Title: "t", Content: "c", AuthorID: u.ID, CreatedAt: ts, UpdatedAt: ts,
		}).Error)
	}

	n, at, err := PostsStats(context.Background(), db)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	require.NotNil(t, at)
	assert.True(t, at.Equal(mar), "latest = %v", at)
}

func TestPostsStats_LatestQueryFails(t *testing.T) {
	db := newTestDB(t)
	seedPost(t, db, seedUser(t, db, "x@example.com", "x").ID, "x")
	require.NoError(t, db.Exec(`ALTER TABLE posts RENAME COLUMN updated_at TO touched_at`).Error)

	_, _, err := PostsStats(context.Background(), db)
	assert.Error(t, err)
}
