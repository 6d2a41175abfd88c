package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/http/middleware"
	"github.com/tbourn/go-board-backend/internal/i18n"
	"github.com/tbourn/go-board-backend/internal/services"
)

// PostWithCommentResponse is the body of POST /transactions/posts-with-comment.
type PostWithCommentResponse struct {
	Message string          `json:"message"`
	Post    *domain.Post    `json:"post"`
	Comment *domain.Comment `json:"comment"`
}

// PurgeResponse is the body of DELETE /transactions/posts/{id}.
type PurgeResponse struct {
	Message string `json:"message"`
	*services.PurgeResult
}

// CreatePostWithComment godoc
// @ID          createPostWithComment
// @Summary     Create a published post and its first comment atomically
// @Tags        Transactions
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreatePostWithCommentRequest  true  "Post and comment"
// @Success     201   {object}  handlers.PostWithCommentResponse
// @Failure     400   {object}  middleware.ErrorResponse
// @Failure     404   {object}  middleware.ErrorResponse  "Author not found"
// @Router      /transactions/posts-with-comment [post]
func (h *Handlers) CreatePostWithComment(c *gin.Context) error {
	req := middleware.Payload[CreatePostWithCommentRequest](c)
	p, cm, err := h.tx.CreatePostWithComment(c.Request.Context(), services.PostWithCommentInput{
		Title:          req.Title,
		Content:        req.Content,
		CommentContent: req.CommentContent,
		AuthorID:       req.AuthorID,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, PostWithCommentResponse{
		Message: h.tr.T(i18n.MsgPostWithComment),
		Post:    p,
		Comment: cm,
	})
}

// DeletePostWithComments godoc
// @ID          deletePostWithComments
// @Summary     Delete a post and all its comments atomically
// @Tags        Transactions
// @Produce     json
// @Param       id   path      int  true  "Post ID"
// @Success     200  {object}  handlers.PurgeResponse
// @Failure     404  {object}  middleware.ErrorResponse  "Post not found"
// @Router      /transactions/posts/{id} [delete]
func (h *Handlers) DeletePostWithComments(c *gin.Context) error {
	res, err := h.tx.DeletePostWithComments(c.Request.Context(), middleware.ParamID(c, "id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, PurgeResponse{
		Message:     h.tr.T(i18n.MsgPostPurged),
		PurgeResult: res,
	})
}
