package model

import "time"

// 在庫増減の理由
type MovementReason string

const (
	//売上作成による減算
	MovementReasonSale MovementReason = "SALE"
	//売上キャンセルによる戻し
	MovementReasonCancel MovementReason = "CANCEL"
	//管理者の在庫調整
	MovementReasonAdjustment MovementReason = "ADJUSTMENT"
)

// 在庫増減の履歴。売上作成・キャンセル・在庫調整と同じトランザクションで書く。
type StockMovement struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64          `gorm:"not null;index" json:"product_id"`
	SaleID    *int64         `gorm:"index" json:"sale_id"`
	Delta     int64          `gorm:"not null" json:"delta"`
	Reason    MovementReason `gorm:"type:varchar(20);not null" json:"reason"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
}
