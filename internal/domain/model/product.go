package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Description    string          `gorm:"type:varchar(255);not null" json:"description"`
	UnitPrice      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	QuantityOnHand int64           `gorm:"not null;default:0" json:"quantity_on_hand"`
	SupplierID     *int64          `gorm:"index" json:"supplier_id"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
