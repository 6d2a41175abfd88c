package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/repo"
	"github.com/tbourn/go-board-backend/internal/utils"
)

// Post listing defaults.
const (
	DefaultPostPageSize = 10
	MaxPostPageSize     = 100
	DefaultPopularLimit = 5
)

// PostRepo defines the repository contract required by PostService.
type PostRepo interface {
	// CreatePost inserts a post.
	CreatePost(ctx context.Context, db *gorm.DB, p *domain.Post) error

	// GetPost fetches a post with author and comments.
	GetPost(ctx context.Context, db *gorm.DB, id uint) (*domain.Post, error)

	// ListPosts returns one page of posts and the matching total.
	ListPosts(ctx context.Context, db *gorm.DB, q repo.PostQuery) ([]domain.Post, int64, error)

	// SearchPosts matches titles and author names.
	SearchPosts(ctx context.Context, db *gorm.DB, term string) ([]domain.Post, error)

	// PopularPosts returns posts ordered by comment count.
	PopularPosts(ctx context.Context, db *gorm.DB, limit int) ([]domain.Post, error)

	// UpdatePost applies a partial update.
	UpdatePost(ctx context.Context, db *gorm.DB, id uint, fields map[string]any) (*domain.Post, error)

	// DeletePost removes a post.
	DeletePost(ctx context.Context, db *gorm.DB, id uint) error

	// PostsStats returns the row count and latest update for ETags.
	PostsStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error)

	// UserExists reports whether an author exists.
	UserExists(ctx context.Context, db *gorm.DB, id uint) (bool, error)
}

// PostService provides the post board operations.
type PostService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the post repository used by this service.
	Repo PostRepo
}

// NewPostService constructs a PostService.
func NewPostService(db *gorm.DB, r PostRepo) *PostService {
	return &PostService{DB: db, Repo: r}
}

// PostListParams are the raw list query parameters.
type PostListParams struct {
	Search string
	Sort   string // createdAt|updatedAt|title|id; default createdAt
	Order  string // asc|desc; default desc
	Page   int
	Limit  int
}

// PostPage is one page of posts with paging metadata.
type PostPage struct {
	Data        []domain.Post `json:"data"`
	Total       int64         `json:"total"`
	TotalPages  int           `json:"totalPages"`
	CurrentPage int           `json:"currentPage"`
}

// PostInput is the data needed to create a post.
type PostInput struct {
	Title     string
	Content   string
	Published bool
	AuthorID  uint
}

// PostUpdate holds optional replacements; nil fields are left as is.
type PostUpdate struct {
	Title     *string
	Content   *string
	Published *bool
}

// PostOrder resolves the sort field and direction of a post listing. Unknown
// sort fields yield ErrInvalidSort and unknown orders ErrInvalidOrder.
func PostOrder(sort, order string) (col string, desc bool, err error) {
	if sort == "" {
		sort = "createdAt"
	}
	col, ok := repo.PostSortColumn(sort)
	if !ok {
		return "", false, ErrInvalidSort
	}
	switch strings.ToLower(order) {
	case "", "desc":
		desc = true
	case "asc":
	default:
		return "", false, ErrInvalidOrder
	}
	return col, desc, nil
}

// List returns a page of posts ordered as PostOrder resolves it.
func (s *PostService) List(ctx context.Context, p PostListParams) (*PostPage, error) {
	col, desc, err := PostOrder(p.Sort, p.Order)
	if err != nil {
		return nil, err
	}

	page := utils.NewPage(p.Page, p.Limit, DefaultPostPageSize, MaxPostPageSize)
	items, total, err := s.Repo.ListPosts(ctx, s.DB, repo.PostQuery{
		Search: strings.TrimSpace(p.Search),
		Column: col,
		Desc:   desc,
		Offset: page.Offset(),
		Limit:  page.Size,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Post{}
	}
	return &PostPage{
		Data:        items,
		Total:       total,
		TotalPages:  page.TotalPages(total),
		CurrentPage: page.Number,
	}, nil
}

// Stats returns the number of posts and their latest update time.
func (s *PostService) Stats(ctx context.Context) (int64, *time.Time, error) {
	return s.Repo.PostsStats(ctx, s.DB)
}

// Get returns post id with author and comments, or ErrPostNotFound.
func (s *PostService) Get(ctx context.Context, id uint) (*domain.Post, error) {
	p, err := s.Repo.GetPost(ctx, s.DB, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	return p, nil
}

// Create inserts a post. A missing author yields ErrAuthorNotFound.
func (s *PostService) Create(ctx context.Context, in PostInput) (*domain.Post, error) {
	ok, err := s.Repo.UserExists(ctx, s.DB, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAuthorNotFound
	}
	p := &domain.Post{
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		Published: in.Published,
		AuthorID:  in.AuthorID,
	}
	if err := s.Repo.CreatePost(ctx, s.DB, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Update applies the non-nil fields of in to post id.
func (s *PostService) Update(ctx context.Context, id uint, in PostUpdate) (*domain.Post, error) {
	fields := map[string]any{}
	if in.Title != nil {
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.Published != nil {
		fields["published"] = *in.Published
	}
	p, err := s.Repo.UpdatePost(ctx, s.DB, id, fields)
	if err != nil {
		return nil, notFoundAs(err, ErrPostNotFound)
	}
	return p, nil
}

// Delete removes post id; its comments cascade.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	return notFoundAs(s.Repo.DeletePost(ctx, s.DB, id), ErrPostNotFound)
}

// Search matches q against titles and author names. A blank q yields
// ErrSearchTermMissing.
func (s *PostService) Search(ctx context.Context, q string) ([]domain.Post, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrSearchTermMissing
	}
	out, err := s.Repo.SearchPosts(ctx, s.DB, q)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Post{}
	}
	return out, nil
}

// Popular returns up to limit posts with the most comments. Non-positive
// limits use DefaultPopularLimit; limits are capped at MaxPostPageSize.
func (s *PostService) Popular(ctx context.Context, limit int) ([]domain.Post, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPostPageSize {
		limit = MaxPostPageSize
	}
	out, err := s.Repo.PopularPosts(ctx, s.DB, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Post{}
	}
	return out, nil
}
