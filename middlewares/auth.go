package middlewares

import (
	"net/http"
	"strings"
	"time"

	"github.com/bingoroyale/bingo-royale-backend/config"
	"github.com/bingoroyale/bingo-royale-backend/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func jwtKey() []byte {
	return []byte(config.Env("JWT_SECRET", "dev-secret-change-me"))
}

type Claims struct {
	UserID uint   `json:"user_id"`
	UUID   string `json:"uuid"`
	jwt.RegisteredClaims
}

// GenerateToken issues a 24h bearer token for a user.
func GenerateToken(user models.User) (string, error) {
	claims := &Claims{
		UserID: user.ID,
		UUID:   user.UUID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UUID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtKey())
}

// ParseToken validates a token string and returns the user ID.
func ParseToken(tokenString string) (uint, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtKey(), nil
	})
	if err != nil {
		return 0, err
	}
	if !token.Valid {
		return 0, jwt.ErrTokenInvalidClaims
	}
	return claims.UserID, nil
}

// RequireAuth reads the Bearer token and puts the user ID in the
// context under "userID".
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		userID, err := ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}

// UserID reads the authenticated user ID from the gin context.
func UserID(c *gin.Context) uint {
	if v, ok := c.Get("userID"); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}
