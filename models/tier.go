package models

import "time"

// Tier is a loyalty level. DiscountPercent is applied when pricing a booking.
type Tier struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"type:varchar(50);unique;not null" json:"name"`
	MinPoints       int       `gorm:"not null;default:0" json:"min_points"`
	DiscountPercent float64   `gorm:"type:decimal(5,2);not null;default:0" json:"discount_percent"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
