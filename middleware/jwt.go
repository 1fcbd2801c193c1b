package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"expense-tracker/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. Access and reset tokens share the signing secret but are
// scoped by the purpose claim; a token presented for the wrong purpose is
// rejected even when signature and expiry are valid.
const (
	PurposeAccess = "access"
	PurposeReset  = "reset"
)

var (
	jwtSecret []byte

	// ErrWrongPurpose token is valid but scoped to a different purpose
	ErrWrongPurpose = errors.New("token purpose mismatch")
)

// Claims JWT claims. Subject carries the user's email.
type Claims struct {
	UserID  uint   `json:"uid"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// InitJWT initializes the signing secret
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken issues a signed token for the given user and purpose
func GenerateToken(userID uint, email, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken verifies signature, expiry and purpose, returning the claims
func ParseToken(tokenString, wantPurpose string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Purpose != wantPurpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

// JWTAuth bearer-token middleware. Only access tokens pass; reset tokens are
// rejected here regardless of validity.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid authorization header"})
			c.Abort()
			return
		}

		claims, err := ParseToken(parts[1], PurposeAccess)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"status": "error", "message": "Invalid authentication credentials"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("userEmail", claims.Subject)
		c.Next()
	}
}

// GetCurrentUserID returns the authenticated user's id from the context
func GetCurrentUserID(c *gin.Context) uint {
	if v, exists := c.Get("userID"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetCurrentUserEmail returns the authenticated user's email from the context
func GetCurrentUserEmail(c *gin.Context) string {
	if v, exists := c.Get("userEmail"); exists {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}
