package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/domain"
)

// PostsStats reports how many posts exist and when the newest edit happened.
// Any create, update or delete changes at least one of the two, which makes
// the pair a cheap validator for the post list. Both are zero for an empty
// table.
func PostsStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	var n int64
	if err := db.WithContext(ctx).Model(&domain.Post{}).Count(&n).Error; err != nil {
		return 0, nil, err
	}

	// Ordering instead of MAX(updated_at): SQLite hands MAX back as text.
	var latest domain.Post
	err := db.WithContext(ctx).
		Select("updated_at").
		Order("updated_at DESC").
		Take(&latest).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return 0, nil, nil
	case err != nil:
		return 0, nil, err
	}
	return n, &latest.UpdatedAt, nil
}
