package jwtmw

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthRequired.
const (
	ContextUserID   = "userID"
	ContextUsername = "username"
)

// tokenPrefixes lists the accepted Authorization schemes.
// "JWT " is what older clients send.
var tokenPrefixes = []string{"Bearer ", "JWT "}

// AuthRequired returns a Gin middleware that validates the request's token
// and restricts access to authenticated users only.
func AuthRequired(secret string) gin.HandlerFunc {
	key := []byte(secret)
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing bearer token"})
			return
		}

		if len(key) == 0 {
			slog.Error("jwt secret is not configured")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "server misconfigured"})
			return
		}

		claims, err := ParseToken(tokenStr, key)
		if err != nil {
			slog.Warn("token rejected", "error", err, "remote_addr", c.ClientIP())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	for _, prefix := range tokenPrefixes {
		if strings.HasPrefix(header, prefix) {
			token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
			return token, token != ""
		}
	}
	return "", false
}
