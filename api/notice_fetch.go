package api

import (
	"net/http"

	"adiwals/cinegate-api/internal/model"

	"github.com/gin-gonic/gin"
)

// NoticeFetch returns the active site banner. Like the gate, it never
// errors to the caller: a missing or unreadable notice is just inactive.
func (a *API) NoticeFetch(c *gin.Context) {
	var notice model.Notice

	err := a.DB.Where("active = ?", true).First(&notice).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"active": false})
		return
	}

	if notice.Icon == "" {
		notice.Icon = "📢"
	}

	c.JSON(http.StatusOK, gin.H{
		"active":     true,
		"message":    notice.Message,
		"type":       notice.Type,
		"icon":       notice.Icon,
		"updated_at": notice.UpdatedAt,
	})
}
