package model

import "github.com/shopspring/decimal"

type SaleItem struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID       int64           `gorm:"not null;index" json:"sale_id"`
	ProductID    int64           `gorm:"not null;index" json:"product_id"`
	Quantity     int64           `gorm:"not null" json:"quantity"`
	LineSubtotal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_subtotal"`
}
