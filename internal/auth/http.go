package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the login and logout endpoints.
func RegisterRoutes(router *gin.RouterGroup, service *Service) {
	handler := &httpHandler{service: service}
	router.POST("/login", handler.login)
	router.POST("/logout", handler.logout)
}

type httpHandler struct {
	service *Service
}

type loginRequest struct {
	Key string `json:"key" form:"key"`
}

func (h *httpHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	session, err := h.service.Login(req.Key)
	if err != nil {
		if err == ErrInvalidSecret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid key"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to authenticate"})
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, session.Token, maxAge, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"token":      session.Token,
		"expires_at": session.ExpiresAt.Unix(),
	})
}

func (h *httpHandler) logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
