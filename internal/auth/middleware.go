package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Context keys for caller identity
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyIsStaff  = "auth_is_staff"
)

// AnonymousUserID marks a request with no active session.
const AnonymousUserID = uint(0)

// Middleware resolves the caller's identity from the session and enforces
// authentication requirements per route.
type Middleware struct {
	sessionManager *SessionManager
}

// NewMiddleware creates a new authentication middleware.
func NewMiddleware(sessionManager *SessionManager) *Middleware {
	return &Middleware{sessionManager: sessionManager}
}

// Identify populates the Gin context with the caller's identity. It never
// aborts: anonymous requests proceed with AnonymousUserID so that
// explicitly permissive endpoints (wishlist listing) can serve them.
func (m *Middleware) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.sessionManager == nil {
			c.Set(ContextKeyUserID, AnonymousUserID)
			c.Next()
			return
		}

		userID := m.sessionManager.GetUserID(c.Request)
		c.Set(ContextKeyUserID, userID)
		if userID != AnonymousUserID {
			c.Set(ContextKeyUsername, m.sessionManager.GetUsername(c.Request))
			c.Set(ContextKeyIsStaff, m.sessionManager.GetIsStaff(c.Request))
		}
		c.Next()
	}
}

// RequireAuth aborts anonymous requests with 401.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == AnonymousUserID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireStaff aborts anonymous requests with 401 and non-staff users with 403.
func (m *Middleware) RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == AnonymousUserID {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		if !GetIsStaff(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "staff access required",
			})
			return
		}
		c.Next()
	}
}

// GetUserID extracts the caller's user ID from the Gin context.
// Returns AnonymousUserID when no session is active.
func GetUserID(c *gin.Context) uint {
	if v, exists := c.Get(ContextKeyUserID); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return AnonymousUserID
}

// GetIsStaff extracts the caller's staff flag from the Gin context.
func GetIsStaff(c *gin.Context) bool {
	if v, exists := c.Get(ContextKeyIsStaff); exists {
		if staff, ok := v.(bool); ok {
			return staff
		}
	}
	return false
}
