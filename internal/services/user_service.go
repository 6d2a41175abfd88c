package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/auth"
	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/repo"
)

// UserService manages user accounts. It also resolves identities for the
// authentication guard.
type UserService struct {
	DB     *gorm.DB
	Hasher auth.Hasher
}

// CreateUserInput is the data needed to create a user.
type CreateUserInput struct {
	Email    string
	Name     *string
	Password string
}

// UpdateUserInput holds optional replacements; nil fields are left as is.
type UpdateUserInput struct {
	Email    *string
	Name     *string
	Password *string
}

// FirstPostInput is the post created alongside a new user.
type FirstPostInput struct {
	Title     string
	Content   string
	Published bool
}

// List returns every user ordered by ID.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := repo.ListUsers(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

// Get returns user id or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return u, nil
}

// Create inserts a user with a hashed password. A taken email surfaces as the
// driver's unique-constraint error.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	u, err := s.newUser(in)
	if err != nil {
		return nil, err
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		return nil, err
	}
	return u, nil
}

// CreateWithPost inserts a user and their first post in one transaction.
func (s *UserService) CreateWithPost(ctx context.Context, in CreateUserInput, first FirstPostInput) (*domain.User, *domain.Post, error) {
	u, err := s.newUser(in)
	if err != nil {
		return nil, nil, err
	}
	p := &domain.Post{
		Title:     strings.TrimSpace(first.Title),
		Content:   first.Content,
		Published: first.Published,
	}
	if err := repo.CreateUserWithPost(ctx, s.DB, u, p); err != nil {
		return nil, nil, err
	}
	return u, p, nil
}

// Update applies the non-nil fields of in to user id.
func (s *UserService) Update(ctx context.Context, id uint, in UpdateUserInput) (*domain.User, error) {
	fields := map[string]any{}
	if in.Email != nil {
		fields["email"] = strings.TrimSpace(*in.Email)
	}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if in.Password != nil {
		digest, err := s.Hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = digest
	}
	u, err := repo.UpdateUser(ctx, s.DB, id, fields)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return u, nil
}

// Delete removes user id together with their posts and comments.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return notFoundAs(repo.DeleteUser(ctx, s.DB, id), ErrUserNotFound)
}

// FindIdentity resolves the caller behind an access token. A deleted user
// yields ErrUserNotFound.
func (s *UserService) FindIdentity(ctx context.Context, id uint) (*domain.Identity, error) {
	ident, err := repo.GetIdentity(ctx, s.DB, id)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return ident, nil
}

func (s *UserService) newUser(in CreateUserInput) (*domain.User, error) {
	digest, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	return &domain.User{
		Email:    strings.TrimSpace(in.Email),
		Name:     in.Name,
		Password: digest,
	}, nil
}
