package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/592Darkness/ride-dispatch/pkg/common"
)

const (
	userIDKey   = "user_id"
	userRoleKey = "user_role"
)

// Claims are the JWT claims issued by the auth service
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token and stores the authenticated
// identity in the request context. The core services never read ambient
// state; handlers pass the extracted IDs down explicitly.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			common.ErrorResponse(c, http.StatusUnauthorized, "missing or malformed authorization header")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims := &Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			common.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userRoleKey, claims.Role)
		c.Next()
	}
}

// GetUserID extracts the authenticated user ID from the gin context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	raw, exists := c.Get(userIDKey)
	if !exists {
		return uuid.Nil, common.NewUnauthorizedError("not authenticated")
	}
	id, ok := raw.(string)
	if !ok {
		return uuid.Nil, common.NewUnauthorizedError("not authenticated")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, common.NewUnauthorizedError("invalid user identity")
	}
	return parsed, nil
}

// GetUserRole extracts the authenticated user role from the gin context
func GetUserRole(c *gin.Context) string {
	if role, exists := c.Get(userRoleKey); exists {
		if s, ok := role.(string); ok {
			return s
		}
	}
	return ""
}

// RequireRole aborts requests whose authenticated role does not match
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != role {
			common.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
