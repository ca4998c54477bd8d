package models

import "time"

// Payment represents one payment attempt against the gateway. It is keyed by
// the gateway transaction reference, not a surrogate id: the IPN handler
// looks rows up by the reference the gateway echoes back. Rows are created
// pending at redirect-build time, flipped to success/failed exactly once by
// the IPN handler, and never deleted.
type Payment struct {
	TransactionRef  string     `gorm:"primaryKey;type:varchar(64)" json:"transaction_ref"`
	BookingID       uint       `gorm:"not null;index" json:"booking_id"`
	Booking         Booking    `gorm:"foreignKey:BookingID" json:"booking"`
	Amount          float64    `gorm:"type:decimal(12,2);not null" json:"amount"` // USD, pre-conversion
	Status          string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending|success|failed
	OrderInfo       string     `gorm:"type:varchar(100);not null" json:"order_info"` // DP-/FP- prefixed
	BankCode        string     `gorm:"type:varchar(20)" json:"bank_code"`
	TransactionCode string     `gorm:"type:varchar(64)" json:"transaction_code"`
	GatewayResponse string     `gorm:"type:text" json:"gateway_response"` // raw callback payload, reconciliation record
	ReceiptPath     string     `gorm:"type:varchar(255)" json:"receipt_path"`
	PaymentDate     *time.Time `json:"payment_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
