package Controllers_test

import (
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

func setupTestDBForContracts(t *testing.T) *gorm.DB {
	db := openTestDB(t, "contracttest")

	db.Create(&models.User{ID: 1, Name: "Alice Nguyen", Email: "alice@example.com", Password: "x", Role: "customer"})
	db.Create(&models.Room{ID: 1, Name: "Ocean View 101", Type: "Deluxe", Price: 150, Capacity: 2, Status: "available"})

	now := time.Now()
	db.Create(&models.Booking{
		ID: 1, UserID: 1, RoomID: 1,
		Status:       services.BookingStatusPending,
		CheckInDate:  now.Add(48 * time.Hour),
		CheckOutDate: now.Add(120 * time.Hour),
		Capacity:     2,
		TotalPrice:   450,
	})
	db.Create(&models.Contract{
		ContractNumber: "CT-contract1",
		BookingID:      1,
		UserID:         1,
		Content:        "Accommodation contract for booking #1",
		Status:         "unsigned",
	})
	return db
}

func setupContractRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cc := controllers.NewContractController(db)
	router := gin.New()
	router.Use(authAs(userID, role))
	router.GET("/bookings/:booking_id/contract", cc.GetContract)
	router.POST("/bookings/:booking_id/contract/sign", cc.SignContract)
	return router
}

func TestSignContract(t *testing.T) {
	db := setupTestDBForContracts(t)
	router := setupContractRouter(db, 1, "customer")

	req, _ := http.NewRequest("POST", "/bookings/1/contract/sign", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var contract models.Contract
	db.First(&contract, "booking_id = ?", 1)
	assert.Equal(t, "signed", contract.Status)
	assert.NotNil(t, contract.SignedAt)

	// Signing twice is rejected.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "contract is already signed", decodeResponse(t, w)["message"])
}

func TestSignContractOwnershipCheck(t *testing.T) {
	db := setupTestDBForContracts(t)
	router := setupContractRouter(db, 99, "customer")

	req, _ := http.NewRequest("POST", "/bookings/1/contract/sign", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetContract(t *testing.T) {
	db := setupTestDBForContracts(t)

	owner := setupContractRouter(db, 1, "customer")
	req, _ := http.NewRequest("GET", "/bookings/1/contract", nil)
	w := httptest.NewRecorder()
	owner.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "CT-contract1", data["contract_number"])

	// Admins can read any contract.
	admin := setupContractRouter(db, 50, "admin")
	w = httptest.NewRecorder()
	admin.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	stranger := setupContractRouter(db, 99, "customer")
	w = httptest.NewRecorder()
	stranger.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
