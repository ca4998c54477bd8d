package models

import "time"

type Booking struct {
	ID              uint             `gorm:"primaryKey" json:"id"`
	UserID          uint             `gorm:"not null;index" json:"user_id"`
	User            User             `gorm:"foreignKey:UserID" json:"user"`
	RoomID          uint             `gorm:"not null;index" json:"room_id"`
	Room            Room             `gorm:"foreignKey:RoomID" json:"room"`
	Status          string           `gorm:"type:varchar(20);not null;default:'pending'" json:"status"` // pending|confirmed|cancelled
	CheckInDate     time.Time        `gorm:"not null" json:"check_in_date"`
	CheckOutDate    time.Time        `gorm:"not null" json:"check_out_date"`
	Capacity        int              `gorm:"not null;default:1" json:"capacity"`
	TotalPrice      float64          `gorm:"type:decimal(12,2);not null;default:0" json:"total_price"` // USD
	VoucherID       *uint            `json:"voucher_id,omitempty"`
	Voucher         *Voucher         `gorm:"foreignKey:VoucherID" json:"voucher,omitempty"`
	Contract        *Contract        `gorm:"foreignKey:BookingID" json:"contract,omitempty"`
	BookingServices []BookingService `gorm:"foreignKey:BookingID" json:"booking_services"`
	Payments        []Payment        `gorm:"foreignKey:BookingID" json:"payments"`
	CreatedAt       time.Time        `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"not null" json:"updated_at"`
}

// Nights returns the length of the stay in nights, never below 1.
func (b *Booking) Nights() int {
	n := int(b.CheckOutDate.Sub(b.CheckInDate).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}
