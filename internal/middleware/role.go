package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel/internal/domain"
	"hotel/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has one of the given roles
func RequireRole(roles ...domain.UserRole) gin.HandlerFunc {
	allowed := make(map[domain.UserRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			return
		}

		if !allowed[domain.UserRole(role.(string))] {
			response.Abort(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// StaffOnly admits staff and admins.
func StaffOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleStaff, domain.RoleAdmin)
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}
