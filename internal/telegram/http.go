package telegram

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterRoutes mounts the webhook receiver and the webhook registration helper.
func RegisterRoutes(router gin.IRoutes, bot *Bot) {
	handler := &httpHandler{bot: bot}
	router.POST("/webhook", handler.webhook)
	router.GET("/setWebhook", handler.setWebhook)
}

type httpHandler struct {
	bot *Bot
}

func (h *httpHandler) webhook(c *gin.Context) {
	var update Update
	if err := c.ShouldBindJSON(&update); err != nil {
		c.String(http.StatusBadRequest, "invalid update")
		return
	}

	if err := h.bot.HandleUpdate(c.Request.Context(), update); err != nil {
		if errors.Is(err, ErrChatNotAllowed) {
			c.String(http.StatusForbidden, "Unauthorized access")
			return
		}
		h.bot.logger.Error("telegram update failed", zap.Int64("update_id", update.UpdateID), zap.Error(err))
		c.String(http.StatusInternalServerError, "Error processing request")
		return
	}
	c.String(http.StatusOK, "OK")
}

func (h *httpHandler) setWebhook(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	url := scheme + "://" + c.Request.Host + "/webhook"

	if err := h.bot.Client().SetWebhook(c.Request.Context(), url); err != nil {
		h.bot.logger.Error("set webhook failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "Failed to set webhook")
		return
	}
	c.String(http.StatusOK, "Webhook set successfully to "+url)
}
