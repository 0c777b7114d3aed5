// controllers/reminder.go
package controllers

import (
	"net/http"

	"github.com/DiomarGoncalves/julia-lashes-studio/config"
	"github.com/DiomarGoncalves/julia-lashes-studio/models"
	"github.com/DiomarGoncalves/julia-lashes-studio/utils"

	"github.com/gin-gonic/gin"
)

// GetReminderLogs lists the delivery log of appointment reminders,
// newest first, optionally filtered by status (sent/failed)
func GetReminderLogs(c *gin.Context) {
	query := config.DB.Order("sent_at desc").Limit(100)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var logs []models.ReminderLog
	if err := query.Find(&logs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reminder logs")
		return
	}

	c.JSON(http.StatusOK, logs)
}
