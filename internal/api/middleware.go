package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/propledger-dev/propledger/internal/models"
)

// ownerIDKey is the gin context key carrying the authenticated owner id.
const ownerIDKey = "ownerId"

// AuthMiddleware returns a Gin middleware that resolves the caller's owner
// id from a JWT bearer token. Every ledger operation downstream is scoped
// to this id; there is no cross-owner access path.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authentication required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "Invalid token format")
			return
		}

		jwtSecret := c.MustGet("jwtSecret").([]byte)
		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("invalid signing method")
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "Invalid token claims")
			return
		}

		ownerID, ok := claims["sub"].(string)
		if !ok || ownerID == "" {
			unauthorized(c, "Invalid owner ID in token")
			return
		}

		c.Set(ownerIDKey, ownerID)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, models.ErrorResponse{
		Status:  "error",
		Code:    "UNAUTHORIZED",
		Message: message,
	})
	c.Abort()
}

// ownerID returns the authenticated owner id set by AuthMiddleware.
func ownerID(c *gin.Context) string {
	return c.GetString(ownerIDKey)
}
