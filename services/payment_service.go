package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/phamtan/resort-app/models"
	"gorm.io/gorm"
)

// Payment status
const (
	PaymentStatusPending = "pending"
	PaymentStatusSuccess = "success"
	PaymentStatusFailed  = "failed"
)

// Booking status
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking service status
const (
	ServiceStatusPending   = "pending"
	ServiceStatusConfirmed = "confirmed"
)

// DepositRate is the fraction of the booking total owed as deposit.
const DepositRate = 0.20

// PaymentService computes settlement amounts and applies the booking side
// of a successful settlement.
type PaymentService struct {
	db *gorm.DB
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// DepositAmount is 20% of the booking total, in USD.
func DepositAmount(booking *models.Booking) float64 {
	return math.Round(booking.TotalPrice*DepositRate*100) / 100
}

// FinalAmount is the booking total plus the surcharge for every confirmed
// service added after the original booking. Services created together with
// the booking share its creation timestamp and are already covered by the
// total; combo services are billed through the combo price.
func FinalAmount(booking *models.Booking) float64 {
	amount := booking.TotalPrice
	for i := range booking.BookingServices {
		bs := &booking.BookingServices[i]
		if bs.CreatedAt.Equal(booking.CreatedAt) {
			continue
		}
		if bs.Status != ServiceStatusConfirmed || bs.ComboID != nil {
			continue
		}
		amount += float64(bs.Quantity) * float64(bs.Days()) * bs.Service.Price
	}
	return math.Round(amount*100) / 100
}

// StageAmount dispatches on the payment stage.
func StageAmount(booking *models.Booking, stage string) (float64, error) {
	switch stage {
	case StageDeposit:
		return DepositAmount(booking), nil
	case StageFinal:
		return FinalAmount(booking), nil
	default:
		return 0, fmt.Errorf("unknown payment stage %q", stage)
	}
}

// SettlementAmount converts a stored USD amount into the gateway integer
// convention: ceil to whole VND, then scale by 100.
func SettlementAmount(converter CurrencyConverter, usd float64) (int64, error) {
	vnd, err := converter.ConvertUSDToVND(usd)
	if err != nil {
		return 0, err
	}
	return int64(math.Ceil(vnd)) * 100, nil
}

// NewTransactionRef builds the gateway transaction reference:
// booking id followed by a 14-digit timestamp.
func NewTransactionRef(bookingID uint, t time.Time) string {
	return fmt.Sprintf("%d%s", bookingID, t.Format("20060102150405"))
}

// StagePrefix maps a payment stage to its order-info prefix.
func StagePrefix(stage string) string {
	if stage == StageFinal {
		return PrefixFinal
	}
	return PrefixDeposit
}

// HasSuccessfulStagePayment reports whether a successful payment with the
// given order-info prefix already exists among the booking's payments.
func HasSuccessfulStagePayment(payments []models.Payment, prefix string) bool {
	for i := range payments {
		p := &payments[i]
		if p.Status == PaymentStatusSuccess && strings.HasPrefix(p.OrderInfo, prefix) {
			return true
		}
	}
	return false
}

// PromoteOriginalServices confirms the booking services that were created
// together with the booking (same creation timestamp) and are still
// pending. Later add-ons are left untouched.
func PromoteOriginalServices(tx *gorm.DB, booking *models.Booking) error {
	for i := range booking.BookingServices {
		bs := &booking.BookingServices[i]
		if !bs.CreatedAt.Equal(booking.CreatedAt) || bs.Status != ServiceStatusPending {
			continue
		}
		if err := tx.Model(&models.BookingService{}).
			Where("id = ?", bs.ID).
			Update("status", ServiceStatusConfirmed).Error; err != nil {
			return fmt.Errorf("failed to confirm booking service %d: %w", bs.ID, err)
		}
	}
	return nil
}
