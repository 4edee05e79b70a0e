package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/polkiloo/secondfamilies/internal/pkg/auth"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	authCookieName   = "secondfamilies_token"
	// LoginPath is where unauthenticated visitors are sent.
	LoginPath = "/account/login"
)

// TokenParser resolves a session token into a user identifier.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// OptionalAuth records the signed-in user when a valid token is present and
// lets anonymous visitors through otherwise.
func OptionalAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}
		userID, err := parser.ParseToken(token)
		if err != nil {
			if !errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Next()
			return
		}
		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

// AuthRequired redirects visitors without a valid session to the login page,
// preserving the requested location in returnUrl.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetString(UserIDContextKey); id != "" {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			redirectToLogin(c)
			return
		}
		userID, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				redirectToLogin(c)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		c.Set(UserIDContextKey, userID)
		c.Next()
	}
}

func redirectToLogin(c *gin.Context) {
	target := LoginPath + "?" + url.Values{"returnUrl": {c.Request.URL.RequestURI()}}.Encode()
	c.Redirect(http.StatusFound, target)
	c.Abort()
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, 0, "/", "", secure, true)
}

// ClearAuthCookie removes the auth token cookie.
func ClearAuthCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, "", -1, "/", "", secure, true)
}
