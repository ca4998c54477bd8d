package Controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/controllers"
	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/services"
)

func setupTestDBForBookings(t *testing.T) *gorm.DB {
	db := openTestDB(t, "bookingtest")

	db.Create(&models.User{ID: 1, Name: "Alice Nguyen", Email: "alice@example.com", Password: "x", Role: "customer"})
	db.Create(&models.Room{ID: 1, Name: "Ocean View 101", Type: "Deluxe", Price: 150, Capacity: 2, Status: "available"})
	db.Create(&models.Service{ID: 1, Name: "Spa", Price: 30, Status: "active"})

	now := time.Now()
	db.Create(&models.Voucher{
		ID: 1, Code: "SUMMER10", DiscountPercent: 10, Quantity: 5,
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(30 * 24 * time.Hour),
		Status:    "active",
	})

	return db
}

func setupBookingRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	bc := controllers.NewBookingController(db)
	router := gin.New()
	router.Use(authAs(userID, role))
	router.POST("/bookings", bc.CreateBooking)
	router.GET("/bookings", bc.GetMyBookings)
	router.GET("/bookings/:booking_id", bc.GetBookingByID)
	router.POST("/bookings/:booking_id/services", bc.AddService)
	router.POST("/bookings/:booking_id/cancel", bc.CancelBooking)
	router.POST("/bookings/:booking_id/confirm", bc.ConfirmBooking)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", path, bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func bookingDates() (string, string) {
	checkIn := time.Now().Add(7 * 24 * time.Hour).UTC().Truncate(time.Hour)
	checkOut := checkIn.Add(3 * 24 * time.Hour)
	return checkIn.Format(time.RFC3339), checkOut.Format(time.RFC3339)
}

func TestCreateBookingWithVoucher(t *testing.T) {
	db := setupTestDBForBookings(t)
	router := setupBookingRouter(db, 1, "customer")
	checkIn, checkOut := bookingDates()

	w := postJSON(t, router, "/bookings", map[string]interface{}{
		"room_id":        1,
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"capacity":       2,
		"voucher_code":   "SUMMER10",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "Booking created", resp["message"])
	data := resp["data"].(map[string]interface{})

	// 3 nights x 150 = 450, minus the 10% voucher.
	assert.Equal(t, 405.0, data["total_price"])
	assert.Equal(t, "pending", data["status"])

	contract := data["contract"].(map[string]interface{})
	assert.Equal(t, "unsigned", contract["status"])
	assert.NotEmpty(t, contract["contract_number"])

	var voucher models.Voucher
	db.First(&voucher, 1)
	assert.Equal(t, 4, voucher.Quantity)
}

func TestCreateBookingWithServices(t *testing.T) {
	db := setupTestDBForBookings(t)
	router := setupBookingRouter(db, 1, "customer")
	checkIn, checkOut := bookingDates()

	w := postJSON(t, router, "/bookings", map[string]interface{}{
		"room_id":        1,
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"capacity":       2,
		"services": []map[string]interface{}{
			{"service_id": 1, "quantity": 2, "start_date": checkIn, "end_date": checkIn},
		},
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	resp := decodeResponse(t, w)
	data := resp["data"].(map[string]interface{})
	// 450 room + 2 x 1 day x 30 spa = 510.
	assert.Equal(t, 510.0, data["total_price"])

	bookingID := uint(data["id"].(float64))
	var booking models.Booking
	assert.NoError(t, db.Preload("BookingServices").First(&booking, bookingID).Error)
	assert.Len(t, booking.BookingServices, 1)

	// Original services share the booking's creation timestamp.
	bs := booking.BookingServices[0]
	assert.True(t, bs.CreatedAt.Equal(booking.CreatedAt))
	assert.Equal(t, services.ServiceStatusPending, bs.Status)
}

func TestCreateBookingOverlap(t *testing.T) {
	db := setupTestDBForBookings(t)
	router := setupBookingRouter(db, 1, "customer")
	checkIn, checkOut := bookingDates()

	payload := map[string]interface{}{
		"room_id":        1,
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"capacity":       2,
	}

	w := postJSON(t, router, "/bookings", payload)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/bookings", payload)
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "room is already booked for these dates", resp["message"])
}

func TestCreateBookingOverCapacity(t *testing.T) {
	db := setupTestDBForBookings(t)
	router := setupBookingRouter(db, 1, "customer")
	checkIn, checkOut := bookingDates()

	w := postJSON(t, router, "/bookings", map[string]interface{}{
		"room_id":        1,
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"capacity":       5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBookingBadDates(t *testing.T) {
	db := setupTestDBForBookings(t)
	router := setupBookingRouter(db, 1, "customer")
	checkIn, checkOut := bookingDates()

	w := postJSON(t, router, "/bookings", map[string]interface{}{
		"room_id":        1,
		"check_in_date":  checkOut,
		"check_out_date": checkIn,
		"capacity":       2,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddServiceToBooking(t *testing.T) {
	db := setupTestDBForBookings(t)
	router := setupBookingRouter(db, 1, "customer")
	checkIn, checkOut := bookingDates()

	w := postJSON(t, router, "/bookings", map[string]interface{}{
		"room_id":        1,
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"capacity":       2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	bookingID := int(data["id"].(float64))

	w = postJSON(t, router, fmt.Sprintf("/bookings/%d/services", bookingID), map[string]interface{}{
		"service_id": 1,
		"quantity":   1,
		"start_date": checkIn,
		"end_date":   checkIn,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Add-ons are billed at final payment; they arrive already confirmed.
	addon := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, services.ServiceStatusConfirmed, addon["status"])
}

func TestCancelBooking(t *testing.T) {
	db := setupTestDBForBookings(t)
	router := setupBookingRouter(db, 1, "customer")
	checkIn, checkOut := bookingDates()

	w := postJSON(t, router, "/bookings", map[string]interface{}{
		"room_id":        1,
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"capacity":       2,
	})
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	bookingID := int(data["id"].(float64))

	w = postJSON(t, router, fmt.Sprintf("/bookings/%d/cancel", bookingID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var booking models.Booking
	db.First(&booking, bookingID)
	assert.Equal(t, services.BookingStatusCancelled, booking.Status)

	// Cancelled bookings cannot be cancelled again.
	w = postJSON(t, router, fmt.Sprintf("/bookings/%d/cancel", bookingID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestConfirmBookingRequiresDeposit(t *testing.T) {
	db := setupTestDBForBookings(t)
	customer := setupBookingRouter(db, 1, "customer")
	admin := setupBookingRouter(db, 2, "admin")
	checkIn, checkOut := bookingDates()

	w := postJSON(t, customer, "/bookings", map[string]interface{}{
		"room_id":        1,
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"capacity":       2,
	})
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	bookingID := int(data["id"].(float64))

	w = postJSON(t, admin, fmt.Sprintf("/bookings/%d/confirm", bookingID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "deposit has not been paid", decodeResponse(t, w)["message"])

	db.Create(&models.Payment{
		TransactionRef: fmt.Sprintf("%d20260301100000", bookingID),
		BookingID:      uint(bookingID),
		Amount:         90,
		Status:         services.PaymentStatusSuccess,
		OrderInfo:      fmt.Sprintf("DP-%d20260301100000", bookingID),
	})

	w = postJSON(t, admin, fmt.Sprintf("/bookings/%d/confirm", bookingID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var booking models.Booking
	db.First(&booking, bookingID)
	assert.Equal(t, services.BookingStatusConfirmed, booking.Status)
}

func TestGetMyBookingsOwnership(t *testing.T) {
	db := setupTestDBForBookings(t)
	owner := setupBookingRouter(db, 1, "customer")
	stranger := setupBookingRouter(db, 99, "customer")
	checkIn, checkOut := bookingDates()

	w := postJSON(t, owner, "/bookings", map[string]interface{}{
		"room_id":        1,
		"check_in_date":  checkIn,
		"check_out_date": checkOut,
		"capacity":       2,
	})
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	bookingID := int(data["id"].(float64))

	req, _ := http.NewRequest("GET", fmt.Sprintf("/bookings/%d", bookingID), nil)
	rec := httptest.NewRecorder()
	stranger.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	owner.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
