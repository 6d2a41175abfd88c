package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-board-backend/internal/i18n"
)

// MessageResponse is the body of endpoints that only confirm an action.
type MessageResponse struct {
	Message string `json:"message" example:"로그인 성공"`
}

// ok writes body as JSON with status.
func ok(c *gin.Context, status int, body any) error {
	c.JSON(status, body)
	return nil
}

// noContent writes 204 with no body.
func noContent(c *gin.Context) error {
	c.Status(http.StatusNoContent)
	return nil
}

// message writes 200 {"message": ...} in the configured locale.
func (h *Handlers) message(c *gin.Context, key i18n.Key) error {
	return ok(c, http.StatusOK, MessageResponse{Message: h.tr.T(key)})
}
