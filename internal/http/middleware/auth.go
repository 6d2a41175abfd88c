package middleware

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-board-backend/internal/apperr"
	"github.com/tbourn/go-board-backend/internal/auth"
	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/i18n"
)

const identityKey = "identity"

// AccessVerifier validates access tokens.
type AccessVerifier interface {
	VerifyAccess(token string) (*auth.AccessClaims, error)
}

// IdentityStore resolves the user behind a verified token. A missing user is
// reported as an apperr NotFound.
type IdentityStore interface {
	FindIdentity(ctx context.Context, id uint) (*domain.Identity, error)
}

// Authenticate requires a valid access-token cookie naming an existing user.
// On success the caller's identity is available through IdentityFrom and its
// ID is set as "userID" for rate limiting and logs.
func Authenticate(verifier AccessVerifier, store IdentityStore) Step {
	return func(c *gin.Context) error {
		token, err := c.Cookie(auth.AccessCookie)
		if err != nil || token == "" {
			metrics.auth.WithLabelValues("missing").Inc()
			return apperr.Unauthorized(i18n.MsgCredentialMissing)
		}

		claims, err := verifier.VerifyAccess(token)
		if err != nil {
			metrics.auth.WithLabelValues("invalid").Inc()
			return apperr.Unauthorized(i18n.MsgCredentialInvalid)
		}

		ident, err := store.FindIdentity(c.Request.Context(), claims.UserID)
		if err != nil {
			if apperr.IsKind(err, apperr.KindNotFound) {
				metrics.auth.WithLabelValues("unknown_user").Inc()
				return apperr.Unauthorized(i18n.MsgUnknownUser)
			}
			return err
		}

		c.Set(identityKey, *ident)
		c.Set("userID", strconv.FormatUint(uint64(ident.ID), 10))
		return nil
	}
}

// IdentityFrom returns the identity set by Authenticate.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	ident, ok := v.(domain.Identity)
	return ident, ok
}
