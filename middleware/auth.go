package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Juli03-22/lookaly-fullstack/models"
	"github.com/Juli03-22/lookaly-fullstack/services"
)

const (
	// SessionCookie identifies a browser tab session.
	SessionCookie = "lookaly_sid"

	sessionIDKey = "session_id"
	sessionKey   = "session"
)

// SessionResolver restores the session for a tab, anonymous on any failure.
type SessionResolver interface {
	Current(ctx context.Context, sid string) (*models.Session, error)
}

// ResolveSession ensures every request carries a session id (issuing one
// for first-time visitors) and loads the stored session, if any. It never
// rejects: anonymous requests proceed as guests.
func ResolveSession(sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid := c.GetHeader("X-Session-ID")
		if sid == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				sid = cookie
			}
		}
		if sid == "" {
			sid = uuid.NewString()
			c.SetCookie(SessionCookie, sid, 0, "/", "", false, true)
		}
		c.Set(sessionIDKey, sid)

		session, _ := sessions.Current(c.Request.Context(), sid)
		if session != nil {
			c.Set(sessionKey, session)
		}

		c.Next()
	}
}

// RequireAuth aborts anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentSession(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts requests whose identity is not an administrator.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !session.User.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// RequireRole aborts requests whose identity carries none of the given
// roles. Admins always pass.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !session.User.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
			return
		}
		c.Next()
	}
}

// SessionID returns the request's tab session id.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// CurrentSession returns the authenticated session, or nil for guests.
func CurrentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionKey); ok {
		return v.(*models.Session)
	}
	return nil
}

// CartOwner returns the cart bucket for the request: the identity's id
// when authenticated, otherwise the guest bucket for this tab.
func CartOwner(c *gin.Context) string {
	if session := CurrentSession(c); session != nil {
		return session.User.ID
	}
	return services.GuestOwner(SessionID(c))
}
