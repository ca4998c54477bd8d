package models

import "time"

type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"type:varchar(255); not null"`
	Email     string `gorm:"type:varchar(255); unique;not null"`
	Password  string `gorm:"type:varchar(255); not null" json:"-"`
	Phone     string `gorm:"type:varchar(20)"`
	Role      string `gorm:"type:varchar(255); not null;default:'customer'"`
	Points    int    `gorm:"default:0"`
	TierID    *uint  `gorm:"index"`
	Tier      *Tier  `gorm:"foreignKey:TierID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
