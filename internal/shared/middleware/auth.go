package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cardfolio-backend/internal/shared/authz"
	pkgjwt "cardfolio-backend/pkg/jwt"
)

// Auth verifies the bearer token issued by the identity provider and stores
// the resolved AuthContext in the request context. Every protected route
// group mounts this first.
func Auth(jwtManager *pkgjwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		if claims.Email == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token missing email claim"})
			c.Abort()
			return
		}

		c.Set(authz.ContextKey, authz.AuthContext{
			ActorEmail: claims.Email,
			IsAdmin:    claims.Role == "admin",
		})

		c.Next()
	}
}
