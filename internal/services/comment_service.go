package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/repo"
	"github.com/tbourn/go-board-backend/internal/utils"
)

// Comment paging bounds.
const (
	DefaultCommentPageSize = 10
	MaxCommentPageSize     = 100
)

// CommentService manages comments on posts.
type CommentService struct {
	DB *gorm.DB
}

// CommentInput is the data needed to create a comment.
type CommentInput struct {
	Content  string
	PostID   uint
	AuthorID uint
}

// Pagination describes a page of comments.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// CommentPage is one page of comments.
type CommentPage struct {
	Comments   []domain.Comment `json:"comments"`
	Pagination Pagination       `json:"pagination"`
}

// Create adds a comment to a post. A missing post yields ErrPostNotFound and
// a missing author ErrAuthorNotFound; in both cases nothing is written.
func (s *CommentService) Create(ctx context.Context, in CommentInput) (*domain.Comment, error) {
	if err := s.requirePost(ctx, in.PostID); err != nil {
		return nil, err
	}
	ok, err := repo.UserExists(ctx, s.DB, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthorNotFound
	}

	c := &domain.Comment{
		Content:  in.Content,
		PostID:   in.PostID,
		AuthorID: in.AuthorID,
	}
	if err := repo.CreateComment(ctx, s.DB, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns every comment, newest first.
func (s *CommentService) List(ctx context.Context) ([]domain.Comment, error) {
	out, err := repo.ListComments(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Comment{}
	}
	return out, nil
}

// ListPage returns one page of comments, newest first.
func (s *CommentService) ListPage(ctx context.Context, page, limit int) (*CommentPage, error) {
	p := utils.NewPage(page, limit, DefaultCommentPageSize, MaxCommentPageSize)

	total, err := repo.CountComments(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	var items []domain.Comment
	if total > 0 {
		if items, err = repo.ListCommentsPage(ctx, s.DB, p.Offset(), p.Size); err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []domain.Comment{}
	}
	return &CommentPage{
		Comments: items,
		Pagination: Pagination{
			Page:       p.Number,
			Limit:      p.Size,
			Total:      total,
			TotalPages: p.TotalPages(total),
		},
	}, nil
}

// Search matches q against comment content and author names. A blank q yields
// ErrSearchTermMissing.
func (s *CommentService) Search(ctx context.Context, q string) ([]domain.Comment, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrSearchTermMissing
	}
	out, err := repo.SearchComments(ctx, s.DB, q)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Comment{}
	}
	return out, nil
}

// ByPost returns a post's comments, oldest first. A missing post yields
// ErrPostNotFound.
func (s *CommentService) ByPost(ctx context.Context, postID uint) ([]domain.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	out, err := repo.ListCommentsByPost(ctx, s.DB, postID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Comment{}
	}
	return out, nil
}

// DetailsByPost returns a post's comments with author and post summaries.
// An unknown post simply has no details.
func (s *CommentService) DetailsByPost(ctx context.Context, postID uint) ([]repo.CommentDetail, error) {
	return repo.ListCommentDetails(ctx, s.DB, postID)
}

// Get returns comment id or ErrCommentNotFound.
func (s *CommentService) Get(ctx context.Context, id uint) (*domain.Comment, error) {
	c, err := repo.GetComment(ctx, s.DB, id)
	if err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}
	return c, nil
}

// Update replaces the content of comment id.
func (s *CommentService) Update(ctx context.Context, id uint, content string) (*domain.Comment, error) {
	c, err := repo.UpdateComment(ctx, s.DB, id, content)
	if err != nil {
		return nil, notFoundAs(err, ErrCommentNotFound)
	}
	return c, nil
}

// Delete removes comment id.
func (s *CommentService) Delete(ctx context.Context, id uint) error {
	return notFoundAs(repo.DeleteComment(ctx, s.DB, id), ErrCommentNotFound)
}

func (s *CommentService) requirePost(ctx context.Context, postID uint) error {
	ok, err := repo.PostExists(ctx, s.DB, postID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPostNotFound
	}
	return nil
}
