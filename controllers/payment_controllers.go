package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/realtime"
	"github.com/phamtan/resort-app/services"
	"github.com/phamtan/resort-app/utils"
)

type PaymentController struct {
	DB        *gorm.DB
	VNPay     *services.VNPayService
	Converter services.CurrencyConverter
	Docs      *services.DocumentService
}

func NewPaymentController(db *gorm.DB) *PaymentController {
	return &PaymentController{
		DB:        db,
		VNPay:     services.GetVNPayService(),
		Converter: services.GetCurrencyService(),
		Docs:      services.NewDocumentService(db),
	}
}

// PayRequest is the body of POST /payment/pay.
type PayRequest struct {
	BookingID    uint   `json:"booking_id" binding:"required"`
	PaymentStage string `json:"payment_stage" binding:"required,oneof=deposit_payment final_payment"`
	BankCode     string `json:"bank_code"`
}

// CreatePayment validates a booking for the requested stage, computes the
// owed amount, converts it to the settlement currency and answers with a
// signed gateway redirect URL. A pending Payment row is written before the
// URL is returned.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	userID := c.GetUint("user_id")

	var req PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var booking models.Booking
	if err := pc.DB.Preload("Contract").
		Preload("Payments").
		Preload("BookingServices.Service").
		Preload("Room").
		Preload("User").
		Where("id = ? AND user_id = ?", req.BookingID, userID).
		First(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}

	switch req.PaymentStage {
	case services.StageDeposit:
		if booking.Status != services.BookingStatusPending {
			utils.RespondError(c, http.StatusBadRequest, errors.New("booking is not awaiting a deposit"))
			return
		}
	case services.StageFinal:
		if booking.Status != services.BookingStatusConfirmed {
			utils.RespondError(c, http.StatusBadRequest, errors.New("booking is not confirmed"))
			return
		}
	}

	if booking.Contract == nil || booking.Contract.Status != "signed" {
		utils.RespondError(c, http.StatusConflict, errors.New("contract must be signed before payment"))
		return
	}

	prefix := services.StagePrefix(req.PaymentStage)
	if services.HasSuccessfulStagePayment(booking.Payments, prefix) {
		if prefix == services.PrefixDeposit {
			utils.RespondError(c, http.StatusConflict, errors.New("Deposit payment already exists for this booking"))
		} else {
			utils.RespondError(c, http.StatusConflict, errors.New("Final payment already exists for this booking"))
		}
		return
	}

	if req.PaymentStage == services.StageFinal && time.Now().Before(booking.CheckOutDate) {
		utils.RespondError(c, http.StatusConflict, errors.New("final payment is not due before check-out"))
		return
	}

	amount, err := services.StageAmount(&booking, req.PaymentStage)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	vnpAmount, err := services.SettlementAmount(pc.Converter, amount)
	if err != nil {
		utils.ErrorLogger.Printf("Currency conversion failed for booking %d: %v", booking.ID, err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("currency conversion failed"))
		return
	}

	now := time.Now()
	txnRef := services.NewTransactionRef(booking.ID, now)
	orderInfo := prefix + "-" + txnRef

	payment := models.Payment{
		TransactionRef: txnRef,
		BookingID:      booking.ID,
		Amount:         amount,
		Status:         services.PaymentStatusPending,
		OrderInfo:      orderInfo,
		BankCode:       req.BankCode,
	}

	tx := pc.DB.Begin()
	if err := tx.Create(&payment).Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("Failed to create payment %s: %v", txnRef, err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	payURL := pc.VNPay.BuildPaymentURL(services.PaymentURLRequest{
		TxnRef:     txnRef,
		OrderInfo:  orderInfo,
		Amount:     vnpAmount,
		BankCode:   req.BankCode,
		IPAddr:     c.ClientIP(),
		CreateDate: now,
	})

	utils.InfoLogger.Printf("Payment %s created for booking %d (%s, %.2f USD)",
		txnRef, booking.ID, req.PaymentStage, amount)
	go realtime.BroadcastPaymentPending(payment)

	utils.RespondJSON(c, http.StatusOK, "Payment URL created", payURL)
}

// GetReceipts lists receipt file paths for the successful payments of a
// booking owned by the caller.
func (pc *PaymentController) GetReceipts(c *gin.Context) {
	userID := c.GetUint("user_id")

	bookingID, err := strconv.Atoi(c.Query("booking_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid booking_id"))
		return
	}

	var booking models.Booking
	if err := pc.DB.Where("id = ? AND user_id = ?", bookingID, userID).
		First(&booking).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("booking not found"))
		return
	}

	var payments []models.Payment
	if err := pc.DB.Where("booking_id = ? AND status = ?", booking.ID, services.PaymentStatusSuccess).
		Order("created_at DESC").
		Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	paths := make([]string, 0, len(payments))
	for _, p := range payments {
		if p.ReceiptPath != "" {
			paths = append(paths, p.ReceiptPath)
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Receipts", paths)
}

// GetPayments lists payments, optionally filtered by booking (admin).
func (pc *PaymentController) GetPayments(c *gin.Context) {
	bookingID := c.Query("booking_id")

	var payments []models.Payment
	q := pc.DB.Preload("Booking").Order("created_at DESC")
	if bookingID != "" {
		q = q.Where("booking_id = ?", bookingID)
	}
	if err := q.Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payments", payments)
}

// GetPayment shows a single payment by transaction reference (admin).
func (pc *PaymentController) GetPayment(c *gin.Context) {
	ref := c.Param("txn_ref")

	var payment models.Payment
	if err := pc.DB.Preload("Booking").
		First(&payment, "transaction_ref = ?", ref).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, fmt.Errorf("payment not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}
