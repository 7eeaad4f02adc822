package auth

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// RequireAdminPage redirects anonymous visitors to the login form.
func (g *Guard) RequireAdminPage(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := g.RequireAuthenticated(sessions.Default(c)); err != nil {
			c.Redirect(http.StatusFound, loginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminAPI answers 401 JSON for anonymous API calls.
func (g *Guard) RequireAdminAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := g.RequireAuthenticated(sessions.Default(c)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.Next()
	}
}
