package models

import "time"

type Contract struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ContractNumber string     `gorm:"type:varchar(64);unique;not null" json:"contract_number"`
	BookingID      uint       `gorm:"not null;uniqueIndex" json:"booking_id"`
	UserID         uint       `gorm:"not null;index" json:"user_id"`
	Content        string     `gorm:"type:text" json:"content"`
	Status         string     `gorm:"type:varchar(20);not null;default:'unsigned'" json:"status"` // unsigned|signed
	SignedAt       *time.Time `json:"signed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
