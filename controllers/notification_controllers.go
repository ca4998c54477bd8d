package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/utils"
)

type NotificationController struct {
	DB *gorm.DB
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

// GetNotifications lists staff notifications, newest first. Pass
// ?status=unread to filter.
func (nc *NotificationController) GetNotifications(c *gin.Context) {
	var notifications []models.Notification
	q := nc.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Limit(100).Find(&notifications).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notifications", notifications)
}

func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	var notification models.Notification
	if err := nc.DB.First(&notification, c.Param("notification_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("notification not found"))
		return
	}

	notification.Status = "read"
	if err := nc.DB.Save(&notification).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Notification marked as read", notification)
}

func (nc *NotificationController) MarkAllAsRead(c *gin.Context) {
	if err := nc.DB.Model(&models.Notification{}).
		Where("status = ?", "unread").
		Update("status", "read").Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "All notifications marked as read", nil)
}
