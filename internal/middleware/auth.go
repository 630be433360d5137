package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotel/internal/domain"
	"hotel/internal/pkg/jwt"
	"hotel/internal/pkg/response"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// JWTAuth validates the bearer token and stores the caller's id and role on
// the gin context.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// PrincipalFrom returns the caller stored by JWTAuth.
func PrincipalFrom(c *gin.Context) (domain.Principal, bool) {
	id := c.GetInt64(ctxUserID)
	if id <= 0 {
		return domain.Principal{}, false
	}
	return domain.Principal{UserID: id, Role: domain.UserRole(c.GetString(ctxRole))}, true
}

// MustPrincipal is PrincipalFrom for handlers mounted behind JWTAuth. It
// writes a 401 and returns false when no caller is present.
func MustPrincipal(c *gin.Context) (domain.Principal, bool) {
	p, ok := PrincipalFrom(c)
	if !ok {
		response.Abort(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
	}
	return p, ok
}
