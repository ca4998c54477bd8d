package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/services"
	"github.com/phamtan/resort-app/utils"
)

type RoomController struct {
	DB *gorm.DB
}

func NewRoomController(db *gorm.DB) *RoomController {
	return &RoomController{DB: db}
}

// GetAllRooms lists rooms. With check_in/check_out query params it filters
// out rooms already booked inside the window.
func (rc *RoomController) GetAllRooms(c *gin.Context) {
	var rooms []models.Room
	q := rc.DB.Where("status = ?", "available")

	checkIn, errIn := time.Parse("2006-01-02", c.Query("check_in"))
	checkOut, errOut := time.Parse("2006-01-02", c.Query("check_out"))
	if errIn == nil && errOut == nil {
		sub := rc.DB.Model(&models.Booking{}).
			Select("room_id").
			Where("status <> ?", services.BookingStatusCancelled).
			Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn)
		q = q.Where("id NOT IN (?)", sub)
	}

	if roomType := c.Query("type"); roomType != "" {
		q = q.Where("type = ?", roomType)
	}

	if err := q.Order("price ASC").Find(&rooms).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Rooms", rooms)
}

func (rc *RoomController) GetRoomByID(c *gin.Context) {
	var room models.Room
	if err := rc.DB.First(&room, c.Param("room_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("room not found"))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Room detail", room)
}

type RoomRequest struct {
	Name        string  `json:"name" binding:"required"`
	Type        string  `json:"type" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Capacity    int     `json:"capacity" binding:"required,gt=0"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
}

func (rc *RoomController) CreateRoom(c *gin.Context) {
	var req RoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	room := models.Room{
		Name:        req.Name,
		Type:        req.Type,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Status:      "available",
	}
	if err := rc.DB.Create(&room).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Room created", room)
}

func (rc *RoomController) UpdateRoom(c *gin.Context) {
	var room models.Room
	if err := rc.DB.First(&room, c.Param("room_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("room not found"))
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	allowed := map[string]bool{
		"name": true, "type": true, "price": true, "capacity": true,
		"description": true, "image_url": true, "status": true,
	}
	updates := make(map[string]interface{})
	for k, v := range req {
		if allowed[k] {
			updates[k] = v
		}
	}

	if err := rc.DB.Model(&room).Updates(updates).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Room updated", room)
}

func (rc *RoomController) DeleteRoom(c *gin.Context) {
	if err := rc.DB.Delete(&models.Room{}, c.Param("room_id")).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Room deleted", nil)
}
