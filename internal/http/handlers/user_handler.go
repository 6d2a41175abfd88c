package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-board-backend/internal/apperr"
	"github.com/tbourn/go-board-backend/internal/domain"
	"github.com/tbourn/go-board-backend/internal/http/middleware"
	"github.com/tbourn/go-board-backend/internal/i18n"
	"github.com/tbourn/go-board-backend/internal/services"
)

// UserWithPostResponse is the body of POST /users/with-post.
type UserWithPostResponse struct {
	User *domain.User `json:"user"`
	Post *domain.Post `json:"post"`
}

// ListUsers godoc
// @ID          listUsers
// @Summary     List users
// @Tags        Users
// @Produce     json
// @Success     200  {array}  domain.User
// @Router      /users [get]
func (h *Handlers) ListUsers(c *gin.Context) error {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, users)
}

// GetUser godoc
// @ID          getUser
// @Summary     Get a user
// @Tags        Users
// @Produce     json
// @Param       id   path      int  true  "User ID"
// @Success     200  {object}  domain.User
// @Failure     400  {object}  middleware.ErrorResponse  "Invalid ID"
// @Failure     404  {object}  middleware.ErrorResponse  "User not found"
// @Router      /users/{id} [get]
func (h *Handlers) GetUser(c *gin.Context) error {
	u, err := h.users.Get(c.Request.Context(), middleware.ParamID(c, "id"))
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, u)
}

// CreateUser godoc
// @ID          createUser
// @Summary     Create a user
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateUserRequest  true  "User"
// @Success     201   {object}  domain.User
// @Failure     400   {object}  middleware.ErrorResponse
// @Failure     409   {object}  middleware.ErrorResponse  "Email in use"
// @Router      /users [post]
func (h *Handlers) CreateUser(c *gin.Context) error {
	req := middleware.Payload[CreateUserRequest](c)
	u, err := h.users.Create(c.Request.Context(), userInput(req))
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, u)
}

// CreateUserWithPost godoc
// @ID          createUserWithPost
// @Summary     Create a user and their first post atomically
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.CreateUserWithPostRequest  true  "User and post"
// @Success     201   {object}  handlers.UserWithPostResponse
// @Failure     400   {object}  middleware.ErrorResponse
// @Failure     409   {object}  middleware.ErrorResponse  "Email in use"
// @Router      /users/with-post [post]
func (h *Handlers) CreateUserWithPost(c *gin.Context) error {
	req := middleware.Payload[CreateUserWithPostRequest](c)
	first := services.FirstPostInput{Title: req.Post.Title, Content: req.Post.Content}
	if req.Post.Published != nil {
		first.Published = *req.Post.Published
	}
	u, p, err := h.users.CreateWithPost(c.Request.Context(), userInput(req.User), first)
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, UserWithPostResponse{User: u, Post: p})
}

// UpdateUser godoc
// @ID          updateUser
// @Summary     Update a user
// @Tags        Users
// @Accept      json
// @Produce     json
// @Param       id    path      int                         true  "User ID"
// @Param       body  body      handlers.UpdateUserRequest  true  "Fields to change"
// @Success     200   {object}  domain.User
// @Failure     400   {object}  middleware.ErrorResponse
// @Failure     404   {object}  middleware.ErrorResponse
// @Router      /users/{id} [put]
func (h *Handlers) UpdateUser(c *gin.Context) error {
	req := middleware.Payload[UpdateUserRequest](c)
	if req.empty() {
		return apperr.BadRequest(i18n.MsgNothingToUpdate)
	}
	u, err := h.users.Update(c.Request.Context(), middleware.ParamID(c, "id"), services.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusOK, u)
}

// DeleteUser godoc
// @ID          deleteUser
// @Summary     Delete a user and, by cascade, their posts and comments
// @Tags        Users
// @Param       id   path  int  true  "User ID"
// @Success     204
// @Failure     404  {object}  middleware.ErrorResponse
// @Router      /users/{id} [delete]
func (h *Handlers) DeleteUser(c *gin.Context) error {
	if err := h.users.Delete(c.Request.Context(), middleware.ParamID(c, "id")); err != nil {
		return err
	}
	return noContent(c)
}

func userInput(r CreateUserRequest) services.CreateUserInput {
	return services.CreateUserInput{Email: r.Email, Name: r.Name, Password: r.Password}
}
