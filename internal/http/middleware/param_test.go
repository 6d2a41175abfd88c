package middleware

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/tbourn/go-board-backend/internal/i18n"
)

func TestIDParam_Valid(t *testing.T) {
	var got uint
	w := serve(t, http.MethodGet, "/posts/:id", "/posts/42", "",
		IDParam("id", i18n.LabelPost),
		func(c *gin.Context) error {
			got = ParamID(c, "id")
			c.Status(http.StatusNoContent)
			return nil
		},
	)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, uint(42), got)
}

func TestIDParam_RejectsNonPositiveIntegers(t *testing.T) {
	for _, raw := range []string{"abc", "0", "-1", "1.5", "+3", "99999999999999999999999"} {
		t.Run(raw, func(t *testing.T) {
			handled := false
			w := serve(t, http.MethodPut, "/api/posts/:id", "/api/posts/"+raw, "",
				IDParam("id", i18n.LabelPost),
				func(c *gin.Context) error { handled = true; return nil },
			)

			assert.False(t, handled)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeEnvelope(t, w)
			assert.Equal(t, "bad_request", body.Code)
			assert.Equal(t, http.StatusBadRequest, body.StatusCode)
			assert.Equal(t, []string{"올바른 게시글 ID를 입력해주세요."}, body.Errors)
			assert.Equal(t, "올바른 게시글 ID를 입력해주세요.", body.Error)
		})
	}
}

func TestIDParam_LabelFollowsResource(t *testing.T) {
	w := serve(t, http.MethodGet, "/api/users/:id", "/api/users/x", "", IDParam("id", i18n.LabelUser))
	assert.Equal(t, []string{"올바른 사용자 ID를 입력해주세요."}, decodeEnvelope(t, w).Errors)
}

func TestParamID_ZeroWithoutGuard(t *testing.T) {
	var got uint = 1
	serve(t, http.MethodGet, "/posts/:id", "/posts/5", "", func(c *gin.Context) error {
		got = ParamID(c, "id")
		return nil
	})
	assert.Zero(t, got)
}
