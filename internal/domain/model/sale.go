package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 売上のヘッダ行。明細（SaleItem）と同じトランザクションで作られる。
// 途中状態では存在しない：作成がcommitされた後だけ存在し、
// キャンセルで明細ごと消える。
type Sale struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SoldAt        time.Time       `gorm:"not null;index" json:"sold_at"`
	DeclaredTotal decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"declared_total"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
