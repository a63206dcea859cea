// Package middleware provides HTTP middleware for the console API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sri-intel/console-service/internal/services/session"
)

// LoginPath is the route unauthenticated navigations are sent to.
const LoginPath = "/login"

// AuthMiddleware gates the protected console routes on the session store.
type AuthMiddleware struct {
	sessions *session.Store
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware(sessions *session.Store) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
	}
}

// Guard returns a gin middleware that re-evaluates the session on every
// request. Unauthenticated API calls get 401 JSON; unauthenticated browser
// navigations are redirected to the login route with caching disabled, so no
// protected content can be served from history.
func (m *AuthMiddleware) Guard() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.sessions.IsAuthenticated() {
			c.Next()
			return
		}

		if wantsHTML(c) {
			c.Header("Cache-Control", "no-store")
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"code":    "UNAUTHORIZED",
			"message": "login required",
		})
	}
}

// wantsHTML reports whether the request is a browser navigation.
func wantsHTML(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
