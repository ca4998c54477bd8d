package models

import "time"

// BookingService attaches a service to a booking. Rows created together with
// the booking share its creation timestamp; that equality is what the
// settlement flow uses to tell original services from later add-ons.
type BookingService struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookingID uint      `gorm:"not null;index" json:"booking_id"`
	ServiceID uint      `gorm:"not null" json:"service_id"`
	Service   Service   `gorm:"foreignKey:ServiceID" json:"service"`
	ComboID   *uint     `json:"combo_id,omitempty"`
	Quantity  int       `gorm:"not null;default:1" json:"quantity"`
	StartDate time.Time `gorm:"not null" json:"start_date"`
	EndDate   time.Time `gorm:"not null" json:"end_date"`
	Status    string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// Days returns the service duration in days, inclusive of both endpoints.
func (bs *BookingService) Days() int {
	d := int(bs.EndDate.Sub(bs.StartDate).Hours()/24) + 1
	if d < 1 {
		d = 1
	}
	return d
}
