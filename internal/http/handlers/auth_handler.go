package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-board-backend/internal/apperr"
	"github.com/tbourn/go-board-backend/internal/auth"
	"github.com/tbourn/go-board-backend/internal/http/middleware"
	"github.com/tbourn/go-board-backend/internal/i18n"
	"github.com/tbourn/go-board-backend/internal/services"
)

// SignUp godoc
// @ID          signUp
// @Summary     Register a user
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.SignUpRequest  true  "Sign-up payload"
// @Success     201   {object}  domain.User
// @Failure     400   {object}  middleware.ErrorResponse  "Validation failed or email in use"
// @Router      /auth/signup [post]
func (h *Handlers) SignUp(c *gin.Context) error {
	req := middleware.Payload[SignUpRequest](c)
	u, err := h.auth.SignUp(c.Request.Context(), services.SignUpInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}
	return ok(c, http.StatusCreated, u)
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Sets the accessToken and refreshToken httpOnly cookies.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  handlers.MessageResponse
// @Failure     401   {object}  middleware.ErrorResponse  "Invalid credentials"
// @Failure     403   {object}  middleware.ErrorResponse  "Too many failed attempts"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) error {
	req := middleware.Payload[LoginRequest](c)
	pair, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case apperr.IsKind(err, apperr.KindForbidden):
			middleware.RecordAuthEvent("locked")
		case apperr.IsKind(err, apperr.KindUnauthorized):
			middleware.RecordAuthEvent("login_failed")
		}
		return err
	}
	middleware.RecordAuthEvent("login")
	auth.SetCookies(c, pair, h.cookies)
	return h.message(c, i18n.MsgLoginSucceeded)
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Description Clears both auth cookies. Tokens are not revoked server-side.
// @Tags        Auth
// @Produce     json
// @Success     200  {object}  handlers.MessageResponse
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) error {
	auth.ClearCookies(c, h.cookies)
	return h.message(c, i18n.MsgLogoutSucceeded)
}

// Refresh godoc
// @ID          refreshTokens
// @Summary     Re-issue the auth cookies from the refresh cookie
// @Tags        Auth
// @Produce     json
// @Success     200  {object}  handlers.MessageResponse
// @Failure     401  {object}  middleware.ErrorResponse
// @Router      /auth/refresh [post]
func (h *Handlers) Refresh(c *gin.Context) error {
	token, _ := c.Cookie(auth.RefreshCookie)
	pair, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		return err
	}
	middleware.RecordAuthEvent("refresh")
	auth.SetCookies(c, pair, h.cookies)
	return h.message(c, i18n.MsgTokenRefreshed)
}

// Me godoc
// @ID          me
// @Summary     The authenticated caller
// @Tags        Auth
// @Produce     json
// @Success     200  {object}  domain.Identity
// @Failure     401  {object}  middleware.ErrorResponse
// @Router      /auth/me [get]
func (h *Handlers) Me(c *gin.Context) error {
	ident, found := middleware.IdentityFrom(c)
	if !found {
		return apperr.Unauthorized(i18n.MsgCredentialMissing)
	}
	return ok(c, http.StatusOK, ident)
}
