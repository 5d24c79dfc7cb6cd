package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cardfolio-backend/internal/shared/authz"
)

// AdminOnly rejects requests whose AuthContext lacks the admin role.
// Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := authz.FromGin(c)
		if err != nil || !actor.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Access denied: admin role required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
