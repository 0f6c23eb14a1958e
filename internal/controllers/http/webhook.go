package http

import (
	"net/http"

	"cake-shop/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TelegramWebhook acknowledges every decodable update with {ok:true} so the
// bot platform does not redeliver it. Only an undecodable body or a panic
// produces a 500.
func (h *Handler) TelegramWebhook(c *gin.Context) {
	var u domain.BotUpdate
	if err := c.ShouldBindJSON(&u); err != nil {
		zap.L().Error("webhook body", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.lifecycle.HandleUpdate(c.Request.Context(), u)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// SendVerificationCode relays a code to the email provider and returns the
// provider's response body unchanged.
func (h *Handler) SendVerificationCode(c *gin.Context) {
	var req DispatchCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	raw, err := h.mailer.SendVerificationCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		zap.L().Error("send verification code", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
