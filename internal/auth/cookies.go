package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Cookie names carrying the credential tokens.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// CookieOptions control the attributes shared by both auth cookies.
type CookieOptions struct {
	// Secure is enabled in production only.
	Secure bool
}

// SetCookies writes both tokens as httpOnly cookies scoped to "/", with
// Max-Age equal to each token's lifetime.
func SetCookies(c *gin.Context, pair TokenPair, opt CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, pair.AccessToken, int(pair.AccessTTL.Seconds()), "/", "", opt.Secure, true)
	c.SetCookie(RefreshCookie, pair.RefreshToken, int(pair.RefreshTTL.Seconds()), "/", "", opt.Secure, true)
}

// ClearCookies expires both auth cookies.
func ClearCookies(c *gin.Context, opt CookieOptions) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookie, "", -1, "/", "", opt.Secure, true)
	c.SetCookie(RefreshCookie, "", -1, "/", "", opt.Secure, true)
}
