package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionIDContextKey holds the visitor session identifier.
	SessionIDContextKey = "sessionID"
	sessionCookieName   = "secondfamilies_session"
)

// VisitorSession assigns every visitor a stable session identifier kept in a
// cookie. Hand-off state and staging scopes are keyed by it.
func VisitorSession(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookieName)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookieName, id, 0, "/", "", secure, true)
		}
		c.Set(SessionIDContextKey, id)
		c.Next()
	}
}

// SessionID returns the visitor session identifier, or "" outside
// VisitorSession.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDContextKey)
}
