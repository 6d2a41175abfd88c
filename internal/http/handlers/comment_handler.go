package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-board-backend/internal/http/middleware"
	"github.com/tbourn/go-board-backend/internal/i18n"
	"github.com/tbourn/go-board-backend/internal/services"
	"github.com/tbourn/go-board-backend/internal/utils"
)

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a post
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateCommentRequest  true  "Comment"
// @Success     201   {object}  domain.Comment
// @Failure     400   {object}  middleware.ErrorResponse
// @Failure     404   {object}  middleware.ErrorResponse  "Post or author not found"
// @Router      /comments [post]
func (h *Handlers) CreateComment(c *gin.Context) error {
	req := middleware.Payload[CreateCommentRequest](c)
	cm, err := h.comments.Create(c.Request.Context(), services.CommentInput{
		Content:  req.Content,
		PostID:   req.PostID,
		AuthorID: req.AuthorID,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, cm)
}

// ListComments godoc
// @ID          listComments
// @Summary     List comments
// @Description Without page and limit, returns every comment. With either,
// @Description returns {comments, pagination}.
// @Tags        Comments
// @Produce     json
// @Param       page   query  int  false  "Page number"     minimum(1)
// @Param       limit  query  int  false  "Items per page"  minimum(1) maximum(100)
// @Success     200  {object}  services.CommentPage
// @Router      /comments [get]
func (h *Handlers) ListComments(c *gin.Context) error {
	ctx := c.Request.Context()
	page, hasPage := c.GetQuery("page")
	limit, hasLimit := c.GetQuery("limit")
	if !hasPage && !hasLimit {
		all, err := h.comments.List(ctx)
		if err != nil {
			return err
		}
		return ok(c, http.StatusOK, all)
	}

	res, err := h.comments.ListPage(ctx, utils.QueryInt(page, 0), utils.QueryInt(limit, 0))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, res)
}

// SearchComments godoc
// @ID          searchComments
// @Summary     Search comments by content or author name
// @Tags        Comments
// @Produce     json
// @Param       q    query     string  true  "Search term"
// @Success     200  {array}   domain.Comment
// @Failure     400  {object}  middleware.ErrorResponse  "Missing search term"
// @Router      /comments/search [get]
func (h *Handlers) SearchComments(c *gin.Context) error {
	out, err := h.comments.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// CommentsByPost godoc
// @ID          commentsByPost
// @Summary     Comments of a post, oldest first
// @Tags        Comments
// @Produce     json
// @Param       postId  path      int  true  "Post ID"
// @Success     200     {array}   domain.Comment
// @Failure     404     {object}  middleware.ErrorResponse  "Post not found"
// @Router      /comments/post/{postId} [get]
func (h *Handlers) CommentsByPost(c *gin.Context) error {
	out, err := h.comments.ByPost(c.Request.Context(), middleware.ParamID(c, "postId"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// CommentDetails godoc
// @ID          commentDetails
// @Summary     Comments of a post with author and post summaries
// @Tags        Comments
// @Produce     json
// @Param       postId  path     int  true  "Post ID"
// @Success     200     {array}  repo.CommentDetail
// @Router      /comments/post/{postId}/details [get]
func (h *Handlers) CommentDetails(c *gin.Context) error {
	out, err := h.comments.DetailsByPost(c.Request.Context(), middleware.ParamID(c, "postId"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, out)
}

// GetComment godoc
// @ID          getComment
// @Summary     Get a comment
// @Tags        Comments
// @Produce     json
// @Param       id   path      int  true  "Comment ID"
// @Success     200  {object}  domain.Comment
// @Failure     404  {object}  middleware.ErrorResponse
// @Router      /comments/{id} [get]
func (h *Handlers) GetComment(c *gin.Context) error {
	cm, err := h.comments.Get(c.Request.Context(), middleware.ParamID(c, "id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, cm)
}

// UpdateComment godoc
// @ID          updateComment
// @Summary     Edit a comment
// @Tags        Comments
// @Accept      json
// @Produce     json
// @Param       id    path      int                            true  "Comment ID"
// @Param       body  body      handlers.UpdateCommentRequest  true  "New content"
// @Success     200   {object}  domain.Comment
// @Failure     400   {object}  middleware.ErrorResponse
// @Failure     404   {object}  middleware.ErrorResponse
// @Router      /comments/{id} [put]
func (h *Handlers) UpdateComment(c *gin.Context) error {
	req := middleware.Payload[UpdateCommentRequest](c)
	cm, err := h.comments.Update(c.Request.Context(), middleware.ParamID(c, "id"), req.Content)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, cm)
}

// DeleteComment godoc
// @ID          deleteComment
// @Summary     Delete a comment
// @Tags        Comments
// @Produce     json
// @Param       id   path      int  true  "Comment ID"
// @Success     200  {object}  handlers.MessageResponse
// @Failure     404  {object}  middleware.ErrorResponse
// @Router      /comments/{id} [delete]
func (h *Handlers) DeleteComment(c *gin.Context) error {
	if err := h.comments.Delete(c.Request.Context(), middleware.ParamID(c, "id")); err != nil {
		return err
	}
	return h.message(c, i18n.MsgCommentDeleted)
}
