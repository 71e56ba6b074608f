package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

func validateJWT(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// RequireUser resolves the caller identity for protected routes. With a
// JWT secret configured it validates the bearer token; otherwise it trusts
// the X-User-ID header set by the gateway.
func RequireUser(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")

		if token := bearerToken(c); token != "" && secret != "" {
			claims, err := validateJWT(token, secret)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid token",
					"code":  "INVALID_TOKEN",
				})
				c.Abort()
				return
			}
			userID = claims.UserID
		}

		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
				"code":  "MISSING_USER_ID",
			})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
