package middleware

import (
	"net/http"

	"examhub/models"

	"github.com/gin-gonic/gin"
)

// RequireRole only lets callers with the given role through. It must run
// after AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthorized(c, "Not authenticated")
			return
		}
		if user.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"detail": "Access denied. Required role: " + string(role),
			})
			return
		}
		c.Next()
	}
}
