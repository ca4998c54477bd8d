package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/services"
	"github.com/phamtan/resort-app/utils"
)

type FeedbackController struct {
	DB *gorm.DB
}

func NewFeedbackController(db *gorm.DB) *FeedbackController {
	return &FeedbackController{DB: db}
}

type FeedbackRequest struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment"`
}

// CreateFeedback records a review for a confirmed booking the caller owns.
func (fc *FeedbackController) CreateFeedback(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := fc.DB.Where("id = ? AND user_id = ?", req.BookingID, userID).
		First(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}
	if booking.Status != services.BookingStatusConfirmed {
		utils.RespondError(c, http.StatusConflict, errors.New("feedback requires a confirmed booking"))
		return
	}

	var existing int64
	fc.DB.Model(&models.Feedback{}).
		Where("booking_id = ? AND user_id = ?", booking.ID, userID).
		Count(&existing)
	if existing > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("feedback already submitted for this booking"))
		return
	}

	feedback := models.Feedback{
		UserID:    userID,
		BookingID: booking.ID,
		RoomID:    booking.RoomID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := fc.DB.Create(&feedback).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Feedback submitted", feedback)
}

// GetRoomFeedback lists reviews for one room, public.
func (fc *FeedbackController) GetRoomFeedback(c *gin.Context) {
	var feedback []models.Feedback
	if err := fc.DB.Preload("User").
		Where("room_id = ?", c.Param("room_id")).
		Order("created_at DESC").
		Find(&feedback).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Room feedback", feedback)
}

// GetAllFeedback lists every review (admin).
func (fc *FeedbackController) GetAllFeedback(c *gin.Context) {
	var feedback []models.Feedback
	if err := fc.DB.Preload("User").Order("created_at DESC").Find(&feedback).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Feedback", feedback)
}

func (fc *FeedbackController) DeleteFeedback(c *gin.Context) {
	var feedback models.Feedback
	if err := fc.DB.First(&feedback, c.Param("feedback_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("feedback not found"))
		return
	}
	if err := fc.DB.Delete(&feedback).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Feedback deleted", nil)
}
