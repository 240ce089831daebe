package handlers

import (
	"encoding/json"
	"net/http"

	"oselya/utils"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler accepts Telegram webhook deliveries. The body is parsed,
// queued for processing, and acknowledged immediately; Telegram retries on
// anything but 200.
func (h *TelegramHandler) WebhookHandler(c *gin.Context) {
	var update tgbotapi.Update
	if err := json.NewDecoder(c.Request.Body).Decode(&update); err != nil {
		utils.GetLogger().Warn("malformed webhook body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed update"})
		return
	}

	h.HandleUpdate(update)
	c.Status(http.StatusOK)
}

// HealthHandler reports liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
