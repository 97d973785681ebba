package middlewares

import (
	"net/http"
	"strings"

	"civicpulse-be/models"
	"civicpulse-be/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middlewares
const (
	CtxUserID   = "user_id"
	CtxUserRole = "user_role"
)

func bearerToken(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// Auth requires a valid bearer token and sets the user id and role on the
// request context.
func Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.Fail(c, http.StatusUnauthorized, "Missing or invalid authorization")
			c.Abort()
			return
		}

		userID, role, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Fail(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(CtxUserID, userID)
		c.Set(CtxUserRole, role)
		c.Next()
	}
}

// OptionalAuth sets the user id and role when a valid bearer token is
// present and passes the request through otherwise. Public endpoints use it
// to attach viewer-specific fields like userVoted.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString := bearerToken(c); tokenString != "" {
			if userID, role, err := utils.ParseToken(tokenString); err == nil {
				c.Set(CtxUserID, userID)
				c.Set(CtxUserRole, role)
			}
		}
		c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not in the allowed
// set. Must run after Auth.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, _ := c.Get(CtxUserRole)
		role, _ := roleVal.(string)

		for _, allowed := range roles {
			if models.UserRole(role) == allowed {
				c.Next()
				return
			}
		}

		utils.Fail(c, http.StatusForbidden, "Forbidden")
		c.Abort()
	}
}
