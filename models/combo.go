package models

import "time"

type Combo struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"type:varchar(100);not null" json:"name"`
	Price       float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	Services    []ComboService `gorm:"foreignKey:ComboID" json:"services"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type ComboService struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ComboID   uint    `gorm:"not null;index" json:"combo_id"`
	ServiceID uint    `gorm:"not null" json:"service_id"`
	Service   Service `gorm:"foreignKey:ServiceID" json:"service"`
	Quantity  int     `gorm:"not null;default:1" json:"quantity"`
}
