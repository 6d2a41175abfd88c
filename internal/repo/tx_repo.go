package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/domain"
)

// CreateUserWithPost inserts u and then p authored by u in one transaction.
// On any failure neither row persists.
func CreateUserWithPost(ctx context.Context, db *gorm.DB, u *domain.User, p *domain.Post) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		p.AuthorID = u.ID
		return tx.Create(p).Error
	})
}

// CreatePostWithComment inserts p and a first comment c, both authored by
// p.AuthorID, in one transaction. A missing author yields ErrNotFound and
// nothing is written.
func CreatePostWithComment(ctx context.Context, db *gorm.DB, p *domain.Post, c *domain.Comment) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var author domain.User
		if err := tx.Select("id").First(&author, p.AuthorID).Error; err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		c.PostID, c.AuthorID = p.ID, p.AuthorID
		return tx.Create(c).Error
	})
}

// DeletePostWithComments counts and deletes a post's comments, then the
// post, in one transaction. It returns the deleted post and the number of
// comments removed. A missing post yields ErrNotFound and nothing is
// written.
func DeletePostWithComments(ctx context.Context, db *gorm.DB, postID uint) (*domain.Post, int64, error) {
	var (
		post    domain.Post
		deleted int64
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, postID).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Comment{}).Where("post_id = ?", postID).Count(&deleted).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&domain.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Post{}, postID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return &post, deleted, nil
}
