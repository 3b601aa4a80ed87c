package api

import (
	"fmt"
	"net/http"
	"strings"

	"adiwals/cinegate-api/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type supportBody struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	TelegramUsername string `json:"telegram_username"`
	Message          string `json:"message"`
}

func (a *API) SupportCreate(c *gin.Context) {
	requestID := c.MustGet("requestID").(string)

	var data supportBody
	if err := c.ShouldBind(&data); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Invalid request body",
			"requestID": requestID,
		})

		zap.L().Error("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	data.Name = strings.TrimSpace(data.Name)
	data.Message = strings.TrimSpace(data.Message)

	if data.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Name field can't be empty",
			"requestID": requestID,
		})
		return
	}

	if data.Message == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
			"error":     "Message field can't be empty",
			"requestID": requestID,
		})
		return
	}

	msg := model.SupportMessage{
		Name:             data.Name,
		Email:            strings.TrimSpace(data.Email),
		TelegramUsername: strings.TrimSpace(data.TelegramUsername),
		Message:          data.Message,
		Status:           "pending",
		IP:               c.ClientIP(),
	}

	if err := a.DB.Create(&msg).Error; err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to store support message", zap.Error(err), zap.String("requestID", requestID))
		return
	}

	a.Bot.Notify(fmt.Sprintf("New support message from %s:\n%s", msg.Name, msg.Message))

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Your message has been sent successfully! We'll get back to you soon.",
	})
}
