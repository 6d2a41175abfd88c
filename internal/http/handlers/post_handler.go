package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-board-backend/internal/apperr"
	"github.com/tbourn/go-board-backend/internal/http/middleware"
	"github.com/tbourn/go-board-backend/internal/i18n"
	"github.com/tbourn/go-board-backend/internal/services"
	"github.com/tbourn/go-board-backend/internal/utils"
)

// ListPosts godoc
// @ID          listPosts
// @Summary     List posts (search, sort, paginate)
// @Description Supports a weak ETag via If-None-Match and may return 304.
// @Tags        Posts
// @Produce     json
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       search  query  string  false  "Title contains (case-insensitive)"
// @Param       sort    query  string  false  "createdAt|updatedAt|title|id"  default(createdAt)
// @Param       order   query  string  false  "asc|desc"                      default(desc)
// @Param       page    query  int     false  "Page number"     minimum(1) default(1)
// @Param       limit   query  int     false  "Items per page"  minimum(1) maximum(100) default(10)
// @Success     200  {object}  services.PostPage
// @Header      200  {string}  ETag  "Weak ETag for current result"
// @Success     304  {string}  string  "Not Modified"
// @Failure     400  {object}  middleware.ErrorResponse  "Unsupported sort or order"
// @Router      /posts [get]
func (h *Handlers) ListPosts(c *gin.Context) error {
	ctx := c.Request.Context()

	// A rejected query must not get an ETag it could replay for a 304.
	if _, _, err := services.PostOrder(c.Query("sort"), c.Query("order")); err != nil {
		return err
	}

	// ETag pre-check (best effort).
	if count, maxTS, err := h.posts.Stats(ctx); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		q := fnv.New32a()
		_, _ = q.Write([]byte(c.Request.URL.RawQuery))
		etag := fmt.Sprintf(`W/"posts:%d:%d:%x"`, count, ts, q.Sum32())
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return nil
		}
	} else {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("post stats unavailable; skipping etag")
	}

	page, err := h.posts.List(ctx, services.PostListParams{
		Search: c.Query("search"),
		Sort:   c.Query("sort"),
		Order:  c.Query("order"),
		Page:   utils.QueryInt(c.Query("page"), 0),
		Limit:  utils.QueryInt(c.Query("limit"), 0),
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, page)
}

// SearchPosts godoc
// @ID          searchPosts
// @Summary     Search posts by title or author name
// @Tags        Posts
// @Produce     json
// @Param       q    query     string  true  "Search term"
// @Success     200  {array}   domain.Post
// @Failure     400  {object}  middleware.ErrorResponse  "Missing search term"
// @Router      /posts/search [get]
func (h *Handlers) SearchPosts(c *gin.Context) error {
	posts, err := h.posts.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, posts)
}

// PopularPosts godoc
// @ID          popularPosts
// @Summary     Posts with the most comments
// @Tags        Posts
// @Produce     json
// @Param       limit  query  int  false  "How many"  default(5)
// @Success     200  {array}  domain.Post
// @Router      /posts/popular [get]
func (h *Handlers) PopularPosts(c *gin.Context) error {
	limit := utils.QueryInt(c.Query("limit"), services.DefaultPopularLimit)
	posts, err := h.posts.Popular(c.Request.Context(), limit)
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, posts)
}

// GetPost godoc
// @ID          getPost
// @Summary     Get a post with its author and comments
// @Tags        Posts
// @Produce     json
// @Param       id   path      int  true  "Post ID"
// @Success     200  {object}  domain.Post
// @Failure     400  {object}  middleware.ErrorResponse  "Invalid ID"
// @Failure     404  {object}  middleware.ErrorResponse  "Post not found"
// @Router      /posts/{id} [get]
func (h *Handlers) GetPost(c *gin.Context) error {
	p, err := h.posts.Get(c.Request.Context(), middleware.ParamID(c, "id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

// CreatePost godoc
// @ID          createPost
// @Summary     Create a post
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreatePostRequest  true  "Post"
// @Success     201   {object}  domain.Post
// @Failure     400   {object}  middleware.ErrorResponse
// @Failure     404   {object}  middleware.ErrorResponse  "Author not found"
// @Router      /posts [post]
func (h *Handlers) CreatePost(c *gin.Context) error {
	req := middleware.Payload[CreatePostRequest](c)
	in := services.PostInput{Title: req.Title, Content: req.Content, AuthorID: req.AuthorID}
	if req.Published != nil {
		in.Published = *req.Published
	}
	p, err := h.posts.Create(c.Request.Context(), in)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, p)
}

// UpdatePost godoc
// @ID          updatePost
// @Summary     Update a post
// @Tags        Posts
// @Accept      json
// @Produce     json
// @Param       id    path      int                         true  "Post ID"
// @Param       body  body      handlers.UpdatePostRequest  true  "Fields to change"
// @Success     200   {object}  domain.Post
// @Failure     400   {object}  middleware.ErrorResponse
// @Failure     404   {object}  middleware.ErrorResponse
// @Router      /posts/{id} [put]
func (h *Handlers) UpdatePost(c *gin.Context) error {
	req := middleware.Payload[UpdatePostRequest](c)
	if req.empty() {
		return apperr.BadRequest(i18n.MsgNothingToUpdate)
	}
	p, err := h.posts.Update(c.Request.Context(), middleware.ParamID(c, "id"), services.PostUpdate{
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, p)
}

// DeletePost godoc
// @ID          deletePost
// @Summary     Delete a post and its comments
// @Tags        Posts
// @Param       id   path  int  true  "Post ID"
// @Success     204
// @Failure     404  {object}  middleware.ErrorResponse
// @Router      /posts/{id} [delete]
func (h *Handlers) DeletePost(c *gin.Context) error {
	if err := h.posts.Delete(c.Request.Context(), middleware.ParamID(c, "id")); err != nil {
		return err
	}
	return noContent(c)
}
