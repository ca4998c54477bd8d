package Controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/utils"
)

// fixedRateConverter replaces the FX API in tests with a constant rate.
type fixedRateConverter struct {
	rate float64
	err  error
}

func (f fixedRateConverter) ConvertUSDToVND(amount float64) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return amount * f.rate, nil
}

// openTestDB opens a named in-memory database and migrates every model.
// Each test file uses its own name so state does not leak between files.
func openTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.Tier{},
		&models.User{},
		&models.Room{},
		&models.Service{},
		&models.Combo{},
		&models.ComboService{},
		&models.Voucher{},
		&models.Booking{},
		&models.BookingService{},
		&models.Contract{},
		&models.Payment{},
		&models.Invoice{},
		&models.Feedback{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	for _, table := range []string{
		"notifications", "feedbacks", "invoices", "payments", "contracts",
		"booking_services", "bookings", "vouchers", "combo_services", "combos",
		"services", "rooms", "users", "tiers",
	} {
		db.Exec("DELETE FROM " + table)
	}
	return db
}

// authAs fakes the auth middleware for a known user.
func authAs(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return resp
}
