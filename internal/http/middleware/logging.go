package middleware

import (
	"fmt"
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	maxLoggedQuery = 2048
)

// scrubbers run in order; the phone pattern is the loosest so it goes last.
var scrubbers = []struct {
	re   *regexp.Regexp
	mask string
}{
	{regexp.MustCompile(`(?i)\b[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}\b`), "[REDACTED:id]"},
	{regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`), "[REDACTED:email]"},
	{regexp.MustCompile(`\b(?:\+?\d{1,3}[ .-]?)?(?:\(?\d{2,4}\)?[ .-]?)?\d{3,4}[ .-]?\d{4}\b`), "[REDACTED:phone]"},
}

// secretHeaders are logged as a bare marker.
var secretHeaders = map[string]bool{
	"Authorization": true,
	"Cookie":        true,
	"Set-Cookie":    true,
}

// RequestID adopts the caller's X-Request-ID or mints a UUID, and echoes it
// back so clients can quote it in bug reports.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// Logger binds a request-scoped zerolog.Logger to the Gin context and the
// request context (zerolog.Ctx works in services), then writes one access
// line after the chain finishes. Mount it outside ErrorMapper: the logged
// status is the one the client received.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		began := time.Now()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := log.With().
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", route).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent())
		if span := trace.SpanContextFromContext(c.Request.Context()); span.IsValid() {
			fields = fields.Str("trace_id", span.TraceID().String())
		}
		reqLog := fields.Logger()
		c.Set(loggerKey, &reqLog)
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))

		// captured before handlers can rewrite the request
		query := clip(redact(c.Request.URL.RawQuery), maxLoggedQuery)
		headers := scrubHeaders(c.Request.Header)

		c.Next()

		status := c.Writer.Status()
		ev := reqLog.WithLevel(levelFor(status))
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		ev.Str("user_id", c.GetString("userID")).
			Str("query", query).
			Interface("headers", headers).
			Int64("bytes_in", c.Request.ContentLength).
			Int("status", status).
			Int("bytes_out", c.Writer.Size()).
			Dur("latency", time.Since(began)).
			Msg("request")
	}
}

func levelFor(status int) zerolog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	}
	return zerolog.InfoLevel
}

// Recovery records a panic as an error for ErrorMapper to render as 500 and
// logs the stack. Nothing is written when the handler already responded.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			_ = c.Error(fmt.Errorf("panic: %v", rec))
			c.Abort()
		}()
		c.Next()
	}
}

// LoggerFrom returns the logger bound by Logger, or the global logger.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(*zerolog.Logger); ok {
			return l
		}
	}
	return &log.Logger
}

func redact(s string) string {
	if s == "" {
		return s
	}
	for _, sc := range scrubbers {
		s = sc.re.ReplaceAllString(s, sc.mask)
	}
	return s
}

func scrubHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for name, values := range h {
		if secretHeaders[http.CanonicalHeaderKey(name)] {
			out[name] = "[REDACTED]"
			continue
		}
		out[name] = redact(strings.Join(values, ", "))
	}
	return out
}

// clip cuts s to limit bytes; limit <= 0 keeps s whole.
func clip(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	return s[:limit] + "…"
}
