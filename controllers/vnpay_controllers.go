package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/phamtan/resort-app/models"
	"github.com/phamtan/resort-app/realtime"
	"github.com/phamtan/resort-app/services"
	"github.com/phamtan/resort-app/utils"
)

// VNPayController owns the gateway-facing endpoints: the server-to-server
// IPN callback (the authoritative state change) and the browser return
// page (pure presentation).
type VNPayController struct {
	DB        *gorm.DB
	VNPay     *services.VNPayService
	Converter services.CurrencyConverter
	Docs      *services.DocumentService
}

func NewVNPayController(db *gorm.DB) *VNPayController {
	return &VNPayController{
		DB:        db,
		VNPay:     services.GetVNPayService(),
		Converter: services.GetCurrencyService(),
		Docs:      services.NewDocumentService(db),
	}
}

// ipnResponse is the tiny vocabulary the gateway understands. Always HTTP
// 200; the RspCode carries the verdict.
func ipnResponse(c *gin.Context, code, message string) {
	c.JSON(http.StatusOK, gin.H{"RspCode": code, "Message": message})
}

// HandleIPN processes a gateway callback. Checks run cheapest-first:
// signature, then lookup, then amount, then the idempotency gate. The
// state mutation and the derived documents happen inside one transaction.
func (vc *VNPayController) HandleIPN(c *gin.Context) {
	params := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	if !vc.VNPay.VerifySignature(params) {
		utils.ErrorLogger.Printf("IPN checksum failed for txn ref %q", params["vnp_TxnRef"])
		ipnResponse(c, services.RspChecksumFailed, "Checksum failed")
		return
	}

	txnRef := params["vnp_TxnRef"]
	var payment models.Payment
	if err := vc.DB.Preload("Booking").
		Preload("Booking.User").
		Preload("Booking.Room").
		Preload("Booking.Voucher").
		Preload("Booking.BookingServices.Service").
		Preload("Booking.Payments").
		First(&payment, "transaction_ref = ?", txnRef).Error; err != nil {
		ipnResponse(c, services.RspOrderNotFound, "Order not found")
		return
	}

	// Recompute the settlement amount from the stored USD amount rather
	// than trusting the callback: a valid signature over stale data must
	// not move money it never covered.
	expectedAmount, err := services.SettlementAmount(vc.Converter, payment.Amount)
	if err != nil {
		utils.ErrorLogger.Printf("IPN currency conversion failed for %s: %v", txnRef, err)
		ipnResponse(c, services.RspUnknownError, "Unknown error")
		return
	}

	claimedAmount, err := strconv.ParseInt(params["vnp_Amount"], 10, 64)
	if err != nil || claimedAmount != expectedAmount {
		utils.ErrorLogger.Printf("IPN amount mismatch for %s: claimed %q, expected %d",
			txnRef, params["vnp_Amount"], expectedAmount)
		ipnResponse(c, services.RspInvalidAmount, "Invalid amount")
		return
	}

	if payment.Status != services.PaymentStatusPending {
		ipnResponse(c, services.RspAlreadyUpdated, "Order already updated")
		return
	}

	resultCode := params["vnp_ResponseCode"]
	newStatus := services.PaymentStatusFailed
	if resultCode == services.RspSuccess {
		newStatus = services.PaymentStatusSuccess
	}

	// Reconciliation record: the raw payload minus the hash fields.
	record := make(map[string]string, len(params))
	for k, v := range params {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		record[k] = v
	}
	payload, err := json.Marshal(record)
	if err != nil {
		utils.ErrorLogger.Printf("IPN payload marshal failed for %s: %v", txnRef, err)
		ipnResponse(c, services.RspUnknownError, "Unknown error")
		return
	}

	now := time.Now()
	tx := vc.DB.Begin()

	// Conditional update is the atomic idempotency gate: two callbacks
	// racing on the same reference cannot both pass it.
	res := tx.Model(&models.Payment{}).
		Where("transaction_ref = ? AND status = ?", txnRef, services.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":           newStatus,
			"transaction_code": params["vnp_TransactionNo"],
			"gateway_response": string(payload),
			"payment_date":     now,
		})
	if res.Error != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("IPN status update failed for %s: %v", txnRef, res.Error)
		ipnResponse(c, services.RspUnknownError, "Unknown error")
		return
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		ipnResponse(c, services.RspAlreadyUpdated, "Order already updated")
		return
	}

	payment.Status = newStatus
	payment.TransactionCode = params["vnp_TransactionNo"]
	payment.GatewayResponse = string(payload)
	payment.PaymentDate = &now

	var invoice *models.Invoice
	if newStatus == services.PaymentStatusSuccess {
		receiptPath, err := vc.Docs.GenerateReceipt(&payment)
		if err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Receipt generation failed for %s: %v", txnRef, err)
			ipnResponse(c, services.RspUnknownError, "Unknown error")
			return
		}
		if err := tx.Model(&models.Payment{}).
			Where("transaction_ref = ?", txnRef).
			Update("receipt_path", receiptPath).Error; err != nil {
			tx.Rollback()
			utils.ErrorLogger.Printf("Receipt path update failed for %s: %v", txnRef, err)
			ipnResponse(c, services.RspUnknownError, "Unknown error")
			return
		}
		payment.ReceiptPath = receiptPath

		if strings.HasPrefix(payment.OrderInfo, services.PrefixFinal) {
			invoice, err = vc.Docs.GenerateInvoice(tx, &payment)
			if err != nil {
				tx.Rollback()
				utils.ErrorLogger.Printf("Invoice generation failed for %s: %v", txnRef, err)
				ipnResponse(c, services.RspUnknownError, "Unknown error")
				return
			}

			if err := tx.Model(&models.Booking{}).
				Where("id = ?", payment.BookingID).
				Update("status", services.BookingStatusConfirmed).Error; err != nil {
				tx.Rollback()
				utils.ErrorLogger.Printf("Booking confirm failed for %s: %v", txnRef, err)
				ipnResponse(c, services.RspUnknownError, "Unknown error")
				return
			}

			if err := services.PromoteOriginalServices(tx, &payment.Booking); err != nil {
				tx.Rollback()
				utils.ErrorLogger.Printf("Service promotion failed for %s: %v", txnRef, err)
				ipnResponse(c, services.RspUnknownError, "Unknown error")
				return
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		utils.ErrorLogger.Printf("IPN commit failed for %s: %v", txnRef, err)
		ipnResponse(c, services.RspUnknownError, "Unknown error")
		return
	}

	vc.notifySettlement(&payment, invoice)

	if resultCode == services.RspSuccess {
		ipnResponse(c, services.RspSuccess, "Success")
	} else {
		ipnResponse(c, resultCode, "Failed")
	}
}

// notifySettlement records a staff notification and pushes realtime
// events. Runs after commit; failures here never affect the settlement.
func (vc *VNPayController) notifySettlement(payment *models.Payment, invoice *models.Invoice) {
	notification := models.Notification{
		Title:   "Payment Status Update",
		Message: fmt.Sprintf("Payment %s for booking %d is %s", payment.TransactionRef, payment.BookingID, payment.Status),
		Type:    "payment",
		Status:  "unread",
	}
	if err := vc.DB.Create(&notification).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to store settlement notification: %v", err)
	}

	if payment.Status == services.PaymentStatusSuccess {
		realtime.BroadcastPaymentSuccess(*payment)
		realtime.BroadcastStaffNotification(
			fmt.Sprintf("Payment received for booking #%d", payment.BookingID))
		if invoice != nil {
			realtime.BroadcastInvoiceCreated(*invoice)
		}
	} else {
		realtime.BroadcastPaymentFailed(*payment)
	}
}

const returnPageTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>%s</title>
  <style>
    body { font-family: sans-serif; text-align: center; padding-top: 10%%; color: #333; }
    h1 { color: %s; }
    a { color: #0066cc; }
  </style>
</head>
<body>
  <h1>%s</h1>
  <p>%s</p>
  <p><a href="%s">Back to Serenity Bay Resort</a></p>
</body>
</html>`

// HandleReturn renders the browser-facing result page after the gateway
// redirects back. No state access, no authority.
func (vc *VNPayController) HandleReturn(c *gin.Context) {
	frontend := os.Getenv("FRONTEND_URL")
	if frontend == "" {
		frontend = "http://localhost:5173"
	}

	var page string
	if c.Query("vnp_ResponseCode") == services.RspSuccess {
		page = fmt.Sprintf(returnPageTemplate,
			"Payment successful", "#2e7d32", "Payment successful",
			"Your payment has been received. A receipt will be available in your booking shortly.",
			frontend)
	} else {
		page = fmt.Sprintf(returnPageTemplate,
			"Payment failed", "#c62828", "Payment failed",
			"The payment was not completed. No charge was made; you can retry from your booking.",
			frontend)
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
