package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/unquiedeveloper/sg-store2/internal/presentation/http/dto/response"
	"github.com/unquiedeveloper/sg-store2/pkg/utils"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID = "user_id"
	ContextRole   = "user_role"
)

// TokenCookie is the cookie checked when no Authorization header is sent.
const TokenCookie = "token"

// AuthMiddleware reads a JWT from the Authorization header or the token
// cookie and stores the caller's identity in the context. Requests without
// a valid token continue anonymously with an empty role.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			tokenString, _ = c.Cookie(TokenCookie)
		}
		if tokenString == "" {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return parts[1]
}

// GetRole returns the caller's role, or "" for anonymous requests.
func GetRole(c *gin.Context) string {
	return c.GetString(ContextRole)
}

// RequireRole creates a middleware that requires a specific role
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := GetRole(c)
		for _, requiredRole := range roles {
			if userRole != "" && userRole == requiredRole {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}
