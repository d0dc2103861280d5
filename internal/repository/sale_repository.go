package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// 一覧・レポート用：売上ヘッダ＋明細の集計値。
type SaleWithTotals struct {
	model.Sale
	ItemCount     int64 `json:"item_count"`
	TotalQuantity int64 `json:"total_quantity"`
}

type SaleRepository interface {
	FindByID(ctx context.Context, saleID int64) (model.Sale, error)
	Create(ctx context.Context, sale model.Sale) (int64, error)
	Delete(ctx context.Context, saleID int64) error

	//集計付きで1件取得
	FindWithTotals(ctx context.Context, saleID int64) (SaleWithTotals, error)
	//集計付きで全件（新しい順）
	ListWithTotals(ctx context.Context) ([]SaleWithTotals, error)
	//期間指定（両端含む）で集計付き一覧（新しい順）
	QueryRange(ctx context.Context, start, end time.Time) ([]SaleWithTotals, error)
}
