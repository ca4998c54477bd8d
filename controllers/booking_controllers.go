package controllers

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/realtime"
	"github.com/phamtan/resort-app/services"
	"github.com/phamtan/resort-app/utils"
)

type BookingController struct {
	DB *gorm.DB
}

func NewBookingController(db *gorm.DB) *BookingController {
	return &BookingController{DB: db}
}

type BookingServiceRequest struct {
	ServiceID uint      `json:"service_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date" binding:"required"`
}

type BookingRequest struct {
	RoomID       uint                    `json:"room_id" binding:"required"`
	CheckInDate  time.Time               `json:"check_in_date" binding:"required"`
	CheckOutDate time.Time               `json:"check_out_date" binding:"required"`
	Capacity     int                     `json:"capacity" binding:"required,gt=0"`
	VoucherCode  string                  `json:"voucher_code"`
	ComboID      *uint                   `json:"combo_id"`
	Services     []BookingServiceRequest `json:"services"`
}

// CreateBooking prices and stores a new stay. Services requested together
// with the booking are written with the booking's creation timestamp: the
// settlement flow later relies on that equality to tell them apart from
// add-ons.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !req.CheckOutDate.After(req.CheckInDate) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("check_out_date must be after check_in_date"))
		return
	}

	var room models.Room
	if err := bc.DB.First(&room, req.RoomID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("room not found"))
		return
	}
	if room.Status != "available" {
		utils.RespondError(c, http.StatusConflict, errors.New("room is not available"))
		return
	}
	if req.Capacity > room.Capacity {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("room holds at most %d guests", room.Capacity))
		return
	}

	var overlapping int64
	bc.DB.Model(&models.Booking{}).
		Where("room_id = ? AND status <> ?", room.ID, services.BookingStatusCancelled).
		Where("check_in_date < ? AND check_out_date > ?", req.CheckOutDate, req.CheckInDate).
		Count(&overlapping)
	if overlapping > 0 {
		utils.RespondError(c, http.StatusConflict, errors.New("room is already booked for these dates"))
		return
	}

	nights := int(req.CheckOutDate.Sub(req.CheckInDate).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	total := float64(nights) * room.Price

	now := time.Now()
	booking := models.Booking{
		UserID:       userID,
		RoomID:       room.ID,
		Status:       services.BookingStatusPending,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		Capacity:     req.Capacity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Services booked up front share the booking's creation timestamp.
	for _, s := range req.Services {
		var svc models.Service
		if err := bc.DB.First(&svc, s.ServiceID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound,
				fmt.Errorf("service %d not found", s.ServiceID))
			return
		}
		bs := models.BookingService{
			ServiceID: svc.ID,
			Quantity:  s.Quantity,
			StartDate: s.StartDate,
			EndDate:   s.EndDate,
			Status:    services.ServiceStatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		total += float64(s.Quantity) * float64(bs.Days()) * svc.Price
		booking.BookingServices = append(booking.BookingServices, bs)
	}

	if req.ComboID != nil {
		var combo models.Combo
		if err := bc.DB.Preload("Services").First(&combo, *req.ComboID).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("combo not found"))
			return
		}
		total += combo.Price
		for _, cs := range combo.Services {
			booking.BookingServices = append(booking.BookingServices, models.BookingService{
				ServiceID: cs.ServiceID,
				ComboID:   &combo.ID,
				Quantity:  cs.Quantity,
				StartDate: req.CheckInDate,
				EndDate:   req.CheckOutDate,
				Status:    services.ServiceStatusPending,
				CreatedAt: now,
				UpdatedAt: now,
			})
		}
	}

	// Discounts: voucher first, then loyalty tier on the discounted total.
	if req.VoucherCode != "" {
		var voucher models.Voucher
		if err := bc.DB.Where("code = ?", req.VoucherCode).First(&voucher).Error; err != nil {
			utils.RespondError(c, http.StatusNotFound, errors.New("voucher not found"))
			return
		}
		if !voucher.Usable(now) {
			utils.RespondError(c, http.StatusConflict, errors.New("voucher is no longer usable"))
			return
		}
		total -= total * voucher.DiscountPercent / 100
		booking.VoucherID = &voucher.ID
	}

	var user models.User
	if err := bc.DB.Preload("Tier").First(&user, userID).Error; err == nil && user.Tier != nil {
		total -= total * user.Tier.DiscountPercent / 100
	}

	booking.TotalPrice = math.Round(total*100) / 100

	tx := bc.DB.Begin()
	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if booking.VoucherID != nil {
		if err := tx.Model(&models.Voucher{}).
			Where("id = ? AND quantity > 0", *booking.VoucherID).
			Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}
	contract := models.Contract{
		ContractNumber: "CT-" + uuid.New().String()[:8],
		BookingID:      booking.ID,
		UserID:         userID,
		Content: fmt.Sprintf("Accommodation contract for booking #%d, %s to %s, total %s.",
			booking.ID,
			booking.CheckInDate.Format("2006-01-02"),
			booking.CheckOutDate.Format("2006-01-02"),
			utils.FormatUSD(booking.TotalPrice)),
		Status: "unsigned",
	}
	if err := tx.Create(&contract).Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	booking.Contract = &contract
	go realtime.BroadcastBookingUpdate(booking)

	utils.RespondJSON(c, http.StatusCreated, "Booking created", booking)
}

// GetMyBookings lists the caller's bookings.
func (bc *BookingController) GetMyBookings(c *gin.Context) {
	userID := c.GetUint("user_id")

	var bookings []models.Booking
	if err := bc.DB.Preload("Room").
		Preload("Contract").
		Preload("BookingServices.Service").
		Preload("Payments").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Bookings", bookings)
}

func (bc *BookingController) GetBookingByID(c *gin.Context) {
	userID := c.GetUint("user_id")
	role := c.GetString("role")

	var booking models.Booking
	q := bc.DB.Preload("Room").
		Preload("User").
		Preload("Contract").
		Preload("BookingServices.Service").
		Preload("Payments")
	if role != "admin" {
		q = q.Where("user_id = ?", userID)
	}
	if err := q.First(&booking, c.Param("booking_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Booking detail", booking)
}

// AddService attaches a service to an existing booking after the fact.
// The add-on keeps its own creation timestamp and is billed with the
// final payment.
func (bc *BookingController) AddService(c *gin.Context) {
	userID := c.GetUint("user_id")

	var booking models.Booking
	if err := bc.DB.Where("id = ? AND user_id = ?", c.Param("booking_id"), userID).
		First(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}
	if booking.Status == services.BookingStatusCancelled {
		utils.RespondError(c, http.StatusConflict, errors.New("booking is cancelled"))
		return
	}

	var req BookingServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var svc models.Service
	if err := bc.DB.First(&svc, req.ServiceID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("service not found"))
		return
	}

	bs := models.BookingService{
		BookingID: booking.ID,
		ServiceID: svc.ID,
		Quantity:  req.Quantity,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Status:    services.ServiceStatusConfirmed,
	}
	if err := bc.DB.Create(&bs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Service added to booking", bs)
}

// CancelBooking cancels a pending booking.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	userID := c.GetUint("user_id")

	var booking models.Booking
	if err := bc.DB.Where("id = ? AND user_id = ?", c.Param("booking_id"), userID).
		First(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}

	if booking.Status != services.BookingStatusPending {
		utils.RespondError(c, http.StatusConflict, errors.New("only pending bookings can be cancelled"))
		return
	}

	booking.Status = services.BookingStatusCancelled
	if err := bc.DB.Save(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	go realtime.BroadcastBookingUpdate(booking)
	utils.RespondJSON(c, http.StatusOK, "Booking cancelled", booking)
}

// GetAllBookings lists every booking (admin).
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	var bookings []models.Booking
	q := bc.DB.Preload("Room").Preload("User").Preload("Payments").Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&bookings).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Bookings", bookings)
}

// ConfirmBooking lets staff confirm a deposit-paid booking, opening the
// final-payment stage.
func (bc *BookingController) ConfirmBooking(c *gin.Context) {
	var booking models.Booking
	if err := bc.DB.Preload("Payments").First(&booking, c.Param("booking_id")).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}

	if booking.Status != services.BookingStatusPending {
		utils.RespondError(c, http.StatusConflict, errors.New("booking is not pending"))
		return
	}
	if !services.HasSuccessfulStagePayment(booking.Payments, services.PrefixDeposit) {
		utils.RespondError(c, http.StatusConflict, errors.New("deposit has not been paid"))
		return
	}

	booking.Status = services.BookingStatusConfirmed
	if err := bc.DB.Save(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	go realtime.BroadcastBookingUpdate(booking)
	utils.RespondJSON(c, http.StatusOK, "Booking confirmed", booking)
}
