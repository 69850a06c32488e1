package middleware

import (
	"net/http"

	"leadmart/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminRequired gates the back-office surface. It assumes AuthRequired
// already ran; a missing role is treated the same as a non-admin one.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetRole(c) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
