package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-board-backend/internal/domain"
)

// commentCountSelect adds a comment_count column to post queries.
const commentCountSelect = "posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count"

// postSortColumns whitelists sortable API fields.
var postSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"id":        "id",
}

// PostSortColumn maps an API sort field to its column.
func PostSortColumn(field string) (string, bool) {
	col, ok := postSortColumns[field]
	return col, ok
}

// PostQuery describes a page of posts. Column must come from PostSortColumn.
type PostQuery struct {
	Search string
	Column string
	Desc   bool
	Offset int
	Limit  int
}

// CreatePost inserts p and fills its ID and timestamps.
func CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error {
	return db.WithContext(ctx).Create(p).Error
}

// PostExists reports whether post id exists.
func PostExists(ctx context.Context, db *gorm.DB, id uint) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Post{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// GetPost fetches a post with its author and comments (oldest first, each
// with its author), or ErrNotFound.
func GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error) {
	var p domain.Post
	err := db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc, id asc") }).
		Preload("Comments.Author").
		First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPosts returns one page of posts with authors, plus the total number of
// posts matching q.Search (case-insensitive title match).
func ListPosts(ctx context.Context, db *gorm.DB, q PostQuery) ([]domain.Post, int64, error) {
	base := db.WithContext(ctx).Model(&domain.Post{})
	if q.Search != "" {
		base = base.Where("LOWER(title) LIKE ? ESCAPE '!'", likePattern(q.Search))
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []domain.Post
	err := base.Session(&gorm.Session{}).
		Preload("Author").
		Order(clause.OrderByColumn{Column: clause.Column{Name: q.Column}, Desc: q.Desc}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}, Desc: q.Desc}).
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&out).Error
	return out, total, err
}

// SearchPosts matches term against post titles and author names, newest
// first, with comment counts.
func SearchPosts(ctx context.Context, db *gorm.DB, term string) ([]domain.Post, error) {
	pattern := likePattern(term)
	var out []domain.Post
	err := db.WithContext(ctx).
		Model(&domain.Post{}).
		Select(commentCountSelect).
		Joins("LEFT JOIN users ON users.id = posts.author_id").
		Where("LOWER(posts.title) LIKE ? ESCAPE '!' OR LOWER(COALESCE(users.name, '')) LIKE ? ESCAPE '!'", pattern, pattern).
		Preload("Author").
		Order("posts.created_at desc, posts.id desc").
		Find(&out).Error
	return out, err
}

// PopularPosts returns up to limit posts ordered by comment count.
func PopularPosts(ctx context.Context, db *gorm.DB, limit int) ([]domain.Post, error) {
	var out []domain.Post
	err := db.WithContext(ctx).
		Model(&domain.Post{}).
		Select(commentCountSelect).
		Preload("Author").
		Order("comment_count desc, posts.id desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdatePost applies fields (column -> value) to post id and returns the
// reloaded row with its author. Missing posts yield ErrNotFound.
func UpdatePost(ctx context.Context, db *gorm.DB, id uint, fields map[string]any) (*domain.Post, error) {
	var p domain.Post
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, id).Error; err != nil {
			return err
		}
		if len(fields) > 0 {
			if err := tx.Model(&p).Updates(fields).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Author").First(&p, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePost removes a post; its comments cascade. Missing posts yield
// ErrNotFound.
func DeletePost(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Post{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// likePattern lowercases term and wraps it for a contains match, escaping
// LIKE metacharacters with '!'.
func likePattern(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
