package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is issued by the external auth service; this middleware only
// consumes it. Tokens carry user_id or driver_id plus a role claim.
const (
	CtxUserIDKey   = "userID"
	CtxDriverIDKey = "driverID"
	CtxRoleKey     = "role"
)

const (
	RoleCustomer = "customer"
	RoleDriver   = "driver"
	RoleAdmin    = "admin"
)

func AuthMiddleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil || !token.Valid {
			c.Next()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			if uid, ok := claims["user_id"].(float64); ok {
				c.Set(CtxUserIDKey, int64(uid))
			}
			if did, ok := claims["driver_id"].(float64); ok {
				c.Set(CtxDriverIDKey, int64(did))
			}
			if role, ok := claims["role"].(string); ok {
				c.Set(CtxRoleKey, role)
			}
		}

		c.Next()
	}
}

// RequireRole aborts with 403 unless the request carries the given role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if r, ok := c.Get(CtxRoleKey); !ok || r != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func DriverIDFrom(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxDriverIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func UserIDFrom(c *gin.Context) (int64, bool) {
	v, ok := c.Get(CtxUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
