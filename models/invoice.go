package models

import "time"

// Invoice is created once per successful final payment, inside the same
// transaction as the payment state update.
type Invoice struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	InvoiceNumber  string    `gorm:"type:varchar(16);uniqueIndex;not null" json:"invoice_number"` // zero-padded, 8 digits
	BookingID      uint      `gorm:"not null;index" json:"booking_id"`
	TransactionRef string    `gorm:"type:varchar(64);not null" json:"transaction_ref"`
	SubTotalAmount float64   `gorm:"type:decimal(12,2);not null" json:"sub_total_amount"`
	DiscountAmount float64   `gorm:"type:decimal(12,2);not null;default:0" json:"discount_amount"`
	TotalAmount    float64   `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	FilePath       string    `gorm:"type:varchar(255)" json:"file_path"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
