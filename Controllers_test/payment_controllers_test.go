package Controllers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/controllers"
	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/services"
)

func setupTestDBForPayments(t *testing.T) *gorm.DB {
	db := openTestDB(t, "paymenttest")

	user := models.User{ID: 1, Name: "Alice Nguyen", Email: "alice@example.com", Password: "x", Role: "customer"}
	db.Create(&user)
	room := models.Room{ID: 1, Name: "Ocean View 101", Type: "Deluxe", Price: 150, Capacity: 2, Status: "available"}
	db.Create(&room)

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	booking := models.Booking{
		ID:           42,
		UserID:       1,
		RoomID:       1,
		Status:       services.BookingStatusPending,
		CheckInDate:  base.Add(24 * time.Hour),
		CheckOutDate: base.Add(96 * time.Hour),
		Capacity:     2,
		TotalPrice:   500,
		CreatedAt:    base,
		UpdatedAt:    base,
	}
	db.Create(&booking)

	signedAt := base.Add(time.Hour)
	db.Create(&models.Contract{
		ContractNumber: "CT-payment1",
		BookingID:      42,
		UserID:         1,
		Status:         "signed",
		SignedAt:       &signedAt,
	})

	return db
}

func newPaymentController(db *gorm.DB, converter services.CurrencyConverter, dir string) *controllers.PaymentController {
	docs := services.NewDocumentService(db)
	docs.OutputDir = dir
	return &controllers.PaymentController{
		DB: db,
		VNPay: services.NewVNPayService(&services.VNPayConfig{
			TmnCode:    "TESTTMN1",
			HashSecret: "TESTSECRET0123456789",
			PayURL:     "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html",
			ReturnURL:  "http://localhost:8080/payment/vnpay-return",
		}),
		Converter: converter,
		Docs:      docs,
	}
}

func setupPaymentRouter(pc *controllers.PaymentController, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(authAs(userID, "customer"))
	router.POST("/payment/pay", pc.CreatePayment)
	router.GET("/payment/receipts", pc.GetReceipts)
	return router
}

func postPay(t *testing.T, router *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	assert.NoError(t, err)
	req, err := http.NewRequest("POST", "/payment/pay", bytes.NewBuffer(body))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateDepositPayment(t *testing.T) {
	db := setupTestDBForPayments(t)
	pc := newPaymentController(db, fixedRateConverter{rate: 25000}, t.TempDir())
	router := setupPaymentRouter(pc, 1)

	w := postPay(t, router, map[string]interface{}{
		"booking_id":    42,
		"payment_stage": "deposit_payment",
		"bank_code":     "VNBANK",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	assert.Equal(t, "Payment URL created", resp["message"])

	payURL, ok := resp["data"].(string)
	assert.True(t, ok)
	parsed, err := url.Parse(payURL)
	assert.NoError(t, err)
	q := parsed.Query()

	// Deposit is 20% of 500 = 100 USD; 100 x 25000 VND, scaled by 100.
	assert.Equal(t, "250000000", q.Get("vnp_Amount"))
	assert.Equal(t, "VNBANK", q.Get("vnp_BankCode"))
	assert.True(t, strings.HasPrefix(q.Get("vnp_TxnRef"), "42"))
	assert.True(t, strings.HasPrefix(q.Get("vnp_OrderInfo"), "DP-"))
	assert.NotEmpty(t, q.Get("vnp_SecureHash"))

	var payment models.Payment
	err = db.First(&payment, "transaction_ref = ?", q.Get("vnp_TxnRef")).Error
	assert.NoError(t, err)
	assert.Equal(t, services.PaymentStatusPending, payment.Status)
	assert.Equal(t, 100.0, payment.Amount)
	assert.Equal(t, uint(42), payment.BookingID)
}

func TestCreateDepositPaymentTwice(t *testing.T) {
	db := setupTestDBForPayments(t)
	db.Create(&models.Payment{
		TransactionRef: "4220260301100000",
		BookingID:      42,
		Amount:         100,
		Status:         services.PaymentStatusSuccess,
		OrderInfo:      "DP-4220260301100000",
	})

	pc := newPaymentController(db, fixedRateConverter{rate: 25000}, t.TempDir())
	router := setupPaymentRouter(pc, 1)

	w := postPay(t, router, map[string]interface{}{
		"booking_id":    42,
		"payment_stage": "deposit_payment",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "Deposit payment already exists for this booking", resp["message"])
}

func TestCreatePaymentUnsignedContract(t *testing.T) {
	db := setupTestDBForPayments(t)
	db.Model(&models.Contract{}).Where("booking_id = ?", 42).Update("status", "unsigned")

	pc := newPaymentController(db, fixedRateConverter{rate: 25000}, t.TempDir())
	router := setupPaymentRouter(pc, 1)

	w := postPay(t, router, map[string]interface{}{
		"booking_id":    42,
		"payment_stage": "deposit_payment",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "contract must be signed before payment", resp["message"])
}

func TestCreateFinalPaymentOnPendingBooking(t *testing.T) {
	db := setupTestDBForPayments(t)
	pc := newPaymentController(db, fixedRateConverter{rate: 25000}, t.TempDir())
	router := setupPaymentRouter(pc, 1)

	w := postPay(t, router, map[string]interface{}{
		"booking_id":    42,
		"payment_stage": "final_payment",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "booking is not confirmed", resp["message"])
}

func TestCreateFinalPaymentBeforeCheckout(t *testing.T) {
	db := setupTestDBForPayments(t)
	db.Model(&models.Booking{}).Where("id = ?", 42).Updates(map[string]interface{}{
		"status":         services.BookingStatusConfirmed,
		"check_out_date": time.Now().Add(72 * time.Hour),
	})

	pc := newPaymentController(db, fixedRateConverter{rate: 25000}, t.TempDir())
	router := setupPaymentRouter(pc, 1)

	w := postPay(t, router, map[string]interface{}{
		"booking_id":    42,
		"payment_stage": "final_payment",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "final payment is not due before check-out", resp["message"])
}

func TestCreateFinalPaymentAfterCheckout(t *testing.T) {
	db := setupTestDBForPayments(t)
	db.Model(&models.Booking{}).Where("id = ?", 42).Updates(map[string]interface{}{
		"status":         services.BookingStatusConfirmed,
		"check_out_date": time.Now().Add(-2 * time.Hour),
	})

	pc := newPaymentController(db, fixedRateConverter{rate: 25000}, t.TempDir())
	router := setupPaymentRouter(pc, 1)

	w := postPay(t, router, map[string]interface{}{
		"booking_id":    42,
		"payment_stage": "final_payment",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	payURL := resp["data"].(string)
	parsed, err := url.Parse(payURL)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(parsed.Query().Get("vnp_OrderInfo"), "FP-"))
	// Final amount is the full 500 USD with no add-ons.
	assert.Equal(t, "1250000000", parsed.Query().Get("vnp_Amount"))
}

func TestCreatePaymentConversionFailure(t *testing.T) {
	db := setupTestDBForPayments(t)
	pc := newPaymentController(db, fixedRateConverter{err: errors.New("fx down")}, t.TempDir())
	router := setupPaymentRouter(pc, 1)

	w := postPay(t, router, map[string]interface{}{
		"booking_id":    42,
		"payment_stage": "deposit_payment",
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "currency conversion failed", resp["message"])

	// No half-created payment row may survive a conversion failure.
	var count int64
	db.Model(&models.Payment{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCreatePaymentForeignBooking(t *testing.T) {
	db := setupTestDBForPayments(t)
	pc := newPaymentController(db, fixedRateConverter{rate: 25000}, t.TempDir())
	router := setupPaymentRouter(pc, 99) // not the booking owner

	w := postPay(t, router, map[string]interface{}{
		"booking_id":    42,
		"payment_stage": "deposit_payment",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetReceipts(t *testing.T) {
	db := setupTestDBForPayments(t)
	db.Create(&models.Payment{
		TransactionRef: "4220260301100000",
		BookingID:      42,
		Amount:         100,
		Status:         services.PaymentStatusSuccess,
		OrderInfo:      "DP-4220260301100000",
		ReceiptPath:    "uploads/DP-4220260301100000_Receipt.pdf",
	})
	db.Create(&models.Payment{
		TransactionRef: "4220260302100000",
		BookingID:      42,
		Amount:         400,
		Status:         services.PaymentStatusFailed,
		OrderInfo:      "FP-4220260302100000",
	})

	pc := newPaymentController(db, fixedRateConverter{rate: 25000}, t.TempDir())
	router := setupPaymentRouter(pc, 1)

	req, _ := http.NewRequest("GET", "/payment/receipts?booking_id=42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, w)
	paths := resp["data"].([]interface{})
	assert.Len(t, paths, 1)
	assert.Equal(t, "uploads/DP-4220260301100000_Receipt.pdf", paths[0])
}
