package http

import (
	"errors"
	"net/http"

	"cake-shop/internal/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const tryAgainMessage = "Что-то пошло не так, попробуйте ещё раз"

// respondError maps the domain error taxonomy onto status codes.
func respondError(c *gin.Context, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrValidation.Error(), "fields": verr.Fields})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrMalformedCallback):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется вход в аккаунт"})
	case errors.Is(err, domain.ErrIdentifierNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Пользователь не найден"})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный пароль"})
	case errors.Is(err, domain.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Код истёк, запросите новый"})
	case errors.Is(err, domain.ErrCodeInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный код"})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Корзина пуста"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDispatchFailed):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Не удалось отправить письмо, попробуйте ещё раз"})
	default:
		zap.L().Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": tryAgainMessage})
	}
}
