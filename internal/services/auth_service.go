package services

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/auth"
	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/repo"
)

// AuthService implements sign-up, login and token refresh.
type AuthService struct {
	// DB is the GORM handle used for user lookups and inserts.
	DB *gorm.DB
	// Tokens issues and verifies the access/refresh pair.
	Tokens *auth.TokenManager
	// Hasher hashes and compares passwords.
	Hasher auth.Hasher
	// Limiter enables login lockout; nil disables it.
	Limiter LoginLimiter
}

// SignUpInput is the data needed to register a user.
type SignUpInput struct {
	Email    string
	Password string
	Name     *string
}

// SignUp registers a new user with a bcrypt-hashed password.
// A registered email yields ErrEmailInUse, also when the unique index
// rejects the insert.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*domain.User, error) {
	email := strings.TrimSpace(in.Email)
	exists, err := repo.EmailExists(ctx, s.DB, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailInUse
	}

	digest, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &domain.User{Email: email, Name: in.Name, Password: digest}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		// lost a race with a concurrent sign-up for the same email
		if _, dup := repo.ConflictField(err); dup {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	return u, nil
}

// Login checks credentials and issues a token pair.
//
// An unknown email and a wrong password both yield ErrInvalidCredentials. When
// a Limiter is configured, each such failure is counted and a locked email
// yields ErrAccountLocked before the password is even checked. Limiter outages
// are logged and do not block logins.
func (s *AuthService) Login(ctx context.Context, email, password string) (auth.TokenPair, error) {
	email = strings.TrimSpace(email)

	if s.Limiter != nil {
		locked, err := s.Limiter.IsLocked(ctx, email)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("login limiter unavailable")
		} else if locked {
			return auth.TokenPair{}, ErrAccountLocked
		}
	}

	u, err := repo.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return auth.TokenPair{}, s.fail(ctx, email)
		}
		return auth.TokenPair{}, err
	}

	ok, err := s.Hasher.Compare(password, u.Password)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if !ok {
		return auth.TokenPair{}, s.fail(ctx, email)
	}

	if s.Limiter != nil {
		if err := s.Limiter.ResetAttempts(ctx, email); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("login limiter reset failed")
		}
	}
	return s.Tokens.Issue(subjectOf(u))
}

// Refresh verifies a refresh token and issues a new pair for its user.
// Invalid tokens yield ErrInvalidCredentials; a deleted user yields
// ErrUnknownUser.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	if refreshToken == "" {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	claims, err := s.Tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return auth.TokenPair{}, ErrInvalidCredentials
	}
	u, err := repo.GetUser(ctx, s.DB, claims.UserID)
	if err != nil {
		return auth.TokenPair{}, notFoundAs(err, ErrUnknownUser)
	}
	return s.Tokens.Issue(subjectOf(u))
}

// fail records a failed login and returns ErrInvalidCredentials.
func (s *AuthService) fail(ctx context.Context, email string) error {
	if s.Limiter != nil {
		if err := s.Limiter.RecordFailure(ctx, email); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("login limiter record failed")
		}
	}
	return ErrInvalidCredentials
}

func subjectOf(u *domain.User) auth.Subject {
	sub := auth.Subject{UserID: u.ID, Email: u.Email}
	if u.Name != nil {
		sub.Name = *u.Name
	}
	return sub
}
