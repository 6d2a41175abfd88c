package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-board-backend/internal/apperr"
	"github.com/tbourn/go-board-backend/internal/i18n"
)

const paramKeyPrefix = "param."

// IDParam parses path parameter name as a positive base-10 integer and stores
// it for ParamID. Anything else fails with a 400 naming label, e.g.
// "올바른 게시글 ID를 입력해주세요.".
func IDParam(name string, label i18n.Key) Step {
	return func(c *gin.Context) error {
		n, err := strconv.ParseUint(c.Param(name), 10, 64)
		if err != nil || n == 0 || n > uint64(^uint(0)) {
			return apperr.BadRequest(i18n.MsgInvalidID, label)
		}
		c.Set(paramKeyPrefix+name, uint(n))
		return nil
	}
}

// ParamID returns the value IDParam stored for name, or 0 when the guard did
// not run.
func ParamID(c *gin.Context, name string) uint {
	v, _ := c.Get(paramKeyPrefix + name)
	id, _ := v.(uint)
	return id
}
