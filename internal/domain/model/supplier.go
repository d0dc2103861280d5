package model

import "time"

type Supplier struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Description string    `gorm:"type:varchar(255);not null" json:"description"`
	City        string    `gorm:"type:varchar(255)" json:"city"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
