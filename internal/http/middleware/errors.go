// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements ErrorMapper, the single place where failures become
// HTTP responses. Handlers, guards and pipeline steps only record errors on
// the Gin context (c.Error); the mapper inspects the last one after the chain
// has run and writes the standard error envelope.
//
// Example error response:
//
//	HTTP/1.1 404 Not Found
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "not_found",
//	  "error": "게시글을 찾을 수 없습니다.",
//	  "statusCode": 404,
//	  "errors": ["게시글을 찾을 수 없습니다."]
//	}
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-board-backend/internal/apperr"
	"github.com/tbourn/go-board-backend/internal/i18n"
	"github.com/tbourn/go-board-backend/internal/repo"
)

// Codes used by the mapper beyond the apperr kinds.
const (
	CodeConflict    = "conflict"
	CodeRateLimited = "too_many_requests"
	CodeInternal    = "internal_error"
)

// errRateLimited is recorded by the rate limiter and rendered as 429.
var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse is the standard error envelope returned by all endpoints.
//
// Both Error/StatusCode and Errors are always populated, so clients written
// against either shape keep working.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code
	Code string `json:"code" example:"not_found"`
	// Localized, human-readable message
	Error string `json:"error" example:"게시글을 찾을 수 없습니다."`
	// HTTP status, repeated for clients that only see the body
	StatusCode int `json:"statusCode" example:"404"`
	// Field messages for validation failures, otherwise [error]
	Errors []string `json:"errors"`
}

// ErrorMapper renders the last error recorded on the context once the rest of
// the chain has returned. Nothing is written when no error was recorded or a
// response already went out.
//
// Dispatch order:
//  1. *apperr.Error: its own status and localized message
//  2. *ValidationError: 400 with every field message
//  3. unique-constraint violation: 409 naming the field
//  4. rate limit: 429
//  5. anything else: 500; the error is logged, never sent
func ErrorMapper(tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var (
			status  int
			code    string
			msg     string
			details []string
			vErr    *ValidationError
		)
		if appErr, ok := apperr.As(err); ok {
			status, code, msg = appErr.StatusCode(), appErr.Kind.String(), tr.Render(appErr.Msg)
		} else if errors.As(err, &vErr) {
			status, code, msg = http.StatusBadRequest, apperr.KindBadRequest.String(), tr.T(i18n.MsgValidationFailed)
			details = make([]string, 0, len(vErr.Violations))
			for _, v := range vErr.Violations {
				details = append(details, tr.Render(v))
			}
		} else if field, ok := repo.ConflictField(err); ok {
			status, code, msg = http.StatusConflict, CodeConflict, tr.T(i18n.MsgFieldInUse, i18n.Key(field))
		} else if errors.Is(err, errRateLimited) {
			status, code, msg = http.StatusTooManyRequests, CodeRateLimited, tr.T(i18n.MsgRateLimited)
		} else {
			LoggerFrom(c).Error().Err(err).Msg("unhandled error")
			status, code, msg = http.StatusInternalServerError, CodeInternal, tr.T(i18n.MsgInternal)
		}

		writeError(c, status, code, msg, details)
	}
}

// writeError emits the envelope and counts it.
func writeError(c *gin.Context, status int, code, msg string, details []string) {
	if len(details) == 0 {
		details = []string{msg}
	}
	metrics.errors.WithLabelValues(code).Inc()
	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID:  c.Writer.Header().Get(requestIDHeader),
		Code:       code,
		Error:      msg,
		StatusCode: status,
		Errors:     details,
	})
}
