// Package services defines the business logic for users, posts, comments,
// authentication and multi-entity transactions. This file centralizes the
// service-level failures so they are returned consistently by service methods
// and can be checked with errors.Is by callers.
//
// Every sentinel is an *apperr.Error, so the HTTP error mapper renders it with
// the right status and a localized message without further translation here.
package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-board-backend/internal/apperr"
	"github.com/tbourn/go-board-backend/internal/i18n"
)

// Lookup failures.
var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = apperr.NotFound(i18n.MsgUserNotFound)

	// ErrPostNotFound indicates that the requested post does not exist.
	ErrPostNotFound = apperr.NotFound(i18n.MsgPostNotFound)

	// ErrCommentNotFound indicates that the requested comment does not exist.
	ErrCommentNotFound = apperr.NotFound(i18n.MsgCommentNotFound)

	// ErrAuthorNotFound is returned when content names an author that does
	// not exist.
	ErrAuthorNotFound = apperr.NotFound(i18n.MsgAuthorNotFound)
)

// Authentication failures.
var (
	// ErrEmailInUse is returned by sign-up for an already registered email.
	ErrEmailInUse = apperr.BadRequest(i18n.MsgEmailInUse)

	// ErrInvalidCredentials covers an unknown email, a wrong password and a
	// bad refresh token alike.
	ErrInvalidCredentials = apperr.Unauthorized(i18n.MsgCredentialInvalid)

	// ErrUnknownUser is returned when a valid token names a deleted user.
	ErrUnknownUser = apperr.Unauthorized(i18n.MsgUnknownUser)

	// ErrAccountLocked is returned while an email is locked out after too many
	// failed logins.
	ErrAccountLocked = apperr.Forbidden(i18n.MsgAccountLocked)
)

// Query failures.
var (
	// ErrSearchTermMissing is returned when a search is requested without a term.
	ErrSearchTermMissing = apperr.BadRequest(i18n.MsgSearchTermMissing)

	// ErrInvalidSort is returned for a sort field outside the whitelist.
	ErrInvalidSort = apperr.BadRequest(i18n.MsgInvalidSort)

	// ErrInvalidOrder is returned for an order other than asc/desc.
	ErrInvalidOrder = apperr.BadRequest(i18n.MsgInvalidOrder)
)

// notFoundAs maps gorm.ErrRecordNotFound to target and passes every other
// error through unchanged.
func notFoundAs(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}
