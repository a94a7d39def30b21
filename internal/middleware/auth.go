package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// Ключ подписи задаётся один раз на старте из конфига.
var jwtKey []byte

func SetSigningKey(secret string) { jwtKey = []byte(secret) }
func SigningKey() []byte          { return jwtKey }

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type UserClaims struct {
	UserID     int64  `json:"user_id"`
	Email      string `json:"email"`
	TelegramID string `json:"telegram_id,omitempty"`
	TokenType  string `json:"token_type"`
	jwt.RegisteredClaims
}

type AdminClaims struct {
	AdminID   int64  `json:"admin_id"`
	Username  string `json:"username"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func parseToken(c *gin.Context, claims jwt.Claims) bool {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return false
	}

	token, err := jwt.ParseWithClaims(strings.TrimSpace(parts[1]), claims, func(token *jwt.Token) (interface{}, error) {
		// принимаем только HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return jwtKey, nil
	}, jwt.WithLeeway(expiryLeeway))
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return false
	}
	return true
}

// Допуск на рассинхрон часов клиента; применяется парсером к exp/nbf/iat.
const expiryLeeway = 2 * time.Minute

// Токены без exp не принимаются: сам парсер отсутствие exp не считает ошибкой.
func hasExpiry(exp *jwt.NumericDate) bool { return exp != nil }

// UserAuth — bearer-guard пользовательских маршрутов.
func UserAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		claims := &UserClaims{}
		if !parseToken(c, claims) {
			return
		}
		if claims.TokenType != TokenTypeAccess || !hasExpiry(claims.ExpiresAt) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// AdminAuth — bearer-guard админских маршрутов; админский access-токен
// не открывает пользовательские ручки и наоборот.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		claims := &AdminClaims{}
		if !parseToken(c, claims) {
			return
		}
		if claims.TokenType != TokenTypeAccess || claims.AdminID == 0 || !hasExpiry(claims.ExpiresAt) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set("admin_id", claims.AdminID)
		c.Next()
	}
}
