package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/repo"
)

// TxService runs the operations that span posts and comments atomically.
type TxService struct {
	DB *gorm.DB
}

// PostWithCommentInput describes a new post and its first comment, both by
// the same author.
type PostWithCommentInput struct {
	Title          string
	Content        string
	CommentContent string
	AuthorID       uint
}

// PurgeResult reports what DeletePostWithComments removed.
type PurgeResult struct {
	DeletedPost          *domain.Post `json:"deletedPost"`
	DeletedCommentsCount int64        `json:"deletedCommentsCount"`
}

// CreatePostWithComment creates a published post and its first comment in
// one transaction. A missing author yields ErrAuthorNotFound.
func (s *TxService) CreatePostWithComment(ctx context.Context, in PostWithCommentInput) (*domain.Post, *domain.Comment, error) {
	p := &domain.Post{
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Published: true,
		AuthorID:  in.AuthorID,
	}
	c := &domain.Comment{Content: in.CommentContent}
	if err := repo.CreatePostWithComment(ctx, s.DB, p, c); err != nil {
		return nil, nil, notFoundAs(err, ErrAuthorNotFound)
	}
	return p, c, nil
}

// DeletePostWithComments removes a post and all of its comments in one
// transaction. A missing post yields ErrPostNotFound and nothing changes.
func (s *TxService) DeletePostWithComments(ctx context.Context, postID uint) (*PurgeResult, error) {
	p, n, err := repo.DeletePostWithComments(ctx, s.DB, postID)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	return &PurgeResult{DeletedPost: p, DeletedCommentsCount: n}, nil
}
