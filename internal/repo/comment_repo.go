package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/domain"
)

// CommentDetail is a comment flattened with its author and post summary.
type CommentDetail struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	Author    struct {
		ID   uint    `json:"id"`
		Name *string `json:"name"`
	} `json:"author"`
	Post struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	} `json:"post"`
}

// commentDetailRow is the scan target for ListCommentDetails.
type commentDetailRow struct {
	ID         uint
	Content    string
	CreatedAt  time.Time
	AuthorID   uint
	AuthorName *string
	PostID     uint
	PostTitle  string
}

// CreateComment inserts c and reloads it with its author.
func CreateComment(ctx context.Context, db *gorm.DB, c *domain.Comment) error {
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return err
	}
	return db.WithContext(ctx).Preload("Author").First(c, c.ID).Error
}

// GetComment fetches a comment with its author, or ErrNotFound.
func GetComment(ctx context.Context, db *gorm.DB, id uint) (*domain.Comment, error) {
	var c domain.Comment
	if err := db.WithContext(ctx).Preload("Author").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListComments returns every comment with its author, newest first.
func ListComments(ctx context.Context, db *gorm.DB) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Preload("Author").
		Order("created_at desc, id desc").
		Find(&out).Error
	return out, err
}

// CountComments returns the number of comments.
func CountComments(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Comment{}).Count(&n).Error
	return n, err
}

// ListCommentsPage returns a page of comments, newest first. Use
// CountComments for pagination metadata.
func ListCommentsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Preload("Author").
		Order("created_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListCommentsByPost returns a post's comments with authors, oldest first.
func ListCommentsByPost(ctx context.Context, db *gorm.DB, postID uint) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// ListCommentDetails returns a post's comments joined with author and post
// summaries, oldest first.
func ListCommentDetails(ctx context.Context, db *gorm.DB, postID uint) ([]CommentDetail, error) {
	var rows []commentDetailRow
	err := db.WithContext(ctx).
		Table("comments").
		Select("comments.id, comments.content, comments.created_at, "+
			"users.id AS author_id, users.name AS author_name, "+
			"posts.id AS post_id, posts.title AS post_title").
		Joins("JOIN users ON users.id = comments.author_id").
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("comments.post_id = ?", postID).
		Order("comments.created_at asc, comments.id asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]CommentDetail, 0, len(rows))
	for _, r := range rows {
		d := CommentDetail{ID: r.ID, Content: r.Content, CreatedAt: r.CreatedAt}
		d.Author.ID, d.Author.Name = r.AuthorID, r.AuthorName
		d.Post.ID, d.Post.Title = r.PostID, r.PostTitle
		out = append(out, d)
	}
	return out, nil
}

// SearchComments matches term against comment content and author names,
// newest first.
func SearchComments(ctx context.Context, db *gorm.DB, term string) ([]domain.Comment, error) {
	pattern := likePattern(term)
	var out []domain.Comment
	err := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Select("comments.*").
		Joins("LEFT JOIN users ON users.id = comments.author_id").
		Where("LOWER(comments.content) LIKE ? ESCAPE '!' OR LOWER(COALESCE(users.name, '')) LIKE ? ESCAPE '!'", pattern, pattern).
		Preload("Author").
		Order("comments.created_at desc, comments.id desc").
		Find(&out).Error
	return out, err
}

// UpdateComment replaces a comment's content and returns the reloaded row.
// Missing comments yield ErrNotFound.
func UpdateComment(ctx context.Context, db *gorm.DB, id uint, content string) (*domain.Comment, error) {
	var c domain.Comment
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&c).Update("content", content).Error; err != nil {
			return err
		}
		return tx.Preload("Author").First(&c, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes a comment. Missing comments yield ErrNotFound.
func DeleteComment(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Comment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
