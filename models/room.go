package models

import "time"

type Room struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Name        string  `gorm:"type:varchar(100);not null" json:"name"`
	Type        string  `gorm:"type:varchar(50);not null" json:"type"`
	Price       float64 `gorm:"type:decimal(10,2);not null" json:"price"` // per night, USD
	Capacity    int     `gorm:"not null;default:2" json:"capacity"`
	Description string  `gorm:"type:text" json:"description"`
	ImageURL    string  `gorm:"type:varchar(255)" json:"image_url"`
	Status      string  `gorm:"type:varchar(20);not null;default:'available'" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
