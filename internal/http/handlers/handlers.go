// Package handlers provides the HTTP handlers of the board API.
//
// Every handler is a middleware.Step: it reads the already-validated payload
// and path IDs from the context, calls a service, and either writes the
// success response or returns an error for ErrorMapper to render. Handlers
// never write error bodies themselves.
package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-board-backend/internal/auth"
	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/i18n"
	"github.com/tbourn/go-board-backend/internal/repo"
	"github.com/tbourn/go-board-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// AuthService registers users and issues credential tokens.
type AuthService interface {
	SignUp(ctx context.Context, in services.SignUpInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error)
}

// UserService manages user accounts.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	Create(ctx context.Context, in services.CreateUserInput) (*domain.User, error)
	CreateWithPost(ctx context.Context, in services.CreateUserInput, first services.FirstPostInput) (*domain.User, *domain.Post, error)
	Update(ctx context.Context, id uint, in services.UpdateUserInput) (*domain.User, error)
	Delete(ctx context.Context, id uint) error
}

// PostService manages posts.
type PostService interface {
	List(ctx context.Context, p services.PostListParams) (*services.PostPage, error)
	// Stats returns the post count and latest update time, used for ETags.
	Stats(ctx context.Context) (int64, *time.Time, error)
	Get(ctx context.Context, id uint) (*domain.Post, error)
	Create(ctx context.Context, in services.PostInput) (*domain.Post, error)
	Update(ctx context.Context, id uint, in services.PostUpdate) (*domain.Post, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, q string) ([]domain.Post, error)
	Popular(ctx context.Context, limit int) ([]domain.Post, error)
}

// CommentService manages comments.
type CommentService interface {
	Create(ctx context.Context, in services.CommentInput) (*domain.Comment, error)
	List(ctx context.Context) ([]domain.Comment, error)
	ListPage(ctx context.Context, page, limit int) (*services.CommentPage, error)
	Search(ctx context.Context, q string) ([]domain.Comment, error)
	ByPost(ctx context.Context, postID uint) ([]domain.Comment, error)
	DetailsByPost(ctx context.Context, postID uint) ([]repo.CommentDetail, error)
	Get(ctx context.Context, id uint) (*domain.Comment, error)
	Update(ctx context.Context, id uint, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id uint) error
}

// TxService runs the multi-entity operations.
type TxService interface {
	CreatePostWithComment(ctx context.Context, in services.PostWithCommentInput) (*domain.Post, *domain.Comment, error)
	DeletePostWithComments(ctx context.Context, postID uint) (*services.PurgeResult, error)
}

//
// Handler wiring
//

// Deps are the collaborators of Handlers.
type Deps struct {
	Auth     AuthService
	Users    UserService
	Posts    PostService
	Comments CommentService
	Tx       TxService

	// Translator renders success messages such as "로그인 성공".
	Translator *i18n.Translator
	// Cookies are the attributes of the auth cookies.
	Cookies auth.CookieOptions
}

// Handlers groups the HTTP endpoints of the board.
type Handlers struct {
	auth     AuthService
	users    UserService
	posts    PostService
	comments CommentService
	tx       TxService

	tr      *i18n.Translator
	cookies auth.CookieOptions
}

// New constructs Handlers from d.
func New(d Deps) *Handlers {
	tr := d.Translator
	if tr == nil {
		tr = i18n.New("")
	}
	return &Handlers{
		auth:     d.Auth,
		users:    d.Users,
		posts:    d.Posts,
		comments: d.Comments,
		tx:       d.Tx,
		tr:       tr,
		cookies:  d.Cookies,
	}
}
