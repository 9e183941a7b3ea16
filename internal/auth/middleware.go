package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "imgdriveSession"

// AuthMiddleware accepts a session from the auth cookie or a bearer header.
func AuthMiddleware(service *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		claims, err := service.ValidateSession(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(sessionContextKey, claims)
		c.Next()
	}
}

// CurrentSession returns the validated session stored by AuthMiddleware.
func CurrentSession(c *gin.Context) (SessionClaims, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return SessionClaims{}, false
	}
	claims, ok := value.(SessionClaims)
	return claims, ok
}

func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie != "" {
		return cookie
	}
	return extractBearerToken(c.GetHeader("Authorization"))
}

func extractBearerToken(header string) string {
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
