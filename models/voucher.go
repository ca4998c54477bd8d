package models

import "time"

type Voucher struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Code            string    `gorm:"type:varchar(50);unique;not null" json:"code"`
	DiscountPercent float64   `gorm:"type:decimal(5,2);not null" json:"discount_percent"`
	Quantity        int       `gorm:"not null;default:0" json:"quantity"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	Status          string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Usable reports whether the voucher can still be redeemed at t.
func (v *Voucher) Usable(t time.Time) bool {
	return v.Status == "active" && v.Quantity > 0 &&
		!t.Before(v.StartDate) && !t.After(v.EndDate)
}
