// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file defines the request pipeline used by every route: an ordered list
// of Steps (guards, validators, the handler itself) that each either succeed
// or return an error. Errors are recorded on the Gin context and rendered by
// ErrorMapper, so no step ever writes an error body itself.
package middleware

import "github.com/gin-gonic/gin"

// Step is one stage of a route's pipeline. A non-nil error stops the
// pipeline and is rendered by ErrorMapper.
type Step func(c *gin.Context) error

// Run composes steps into a single Gin handler. Steps run in order until one
// returns an error, aborts the context, or writes a response.
func Run(steps ...Step) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, step := range steps {
			if err := step(c); err != nil {
				_ = c.Error(err)
				c.Abort()
				return
			}
			if c.IsAborted() || c.Writer.Written() {
				return
			}
		}
	}
}
