package repository

import (
	"context"

	"app/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 売上詳細用：明細＋商品・仕入先の表示情報。
type SaleItemDetail struct {
	model.SaleItem
	ProductDescription string          `json:"product_description"`
	ProductUnitPrice   decimal.Decimal `json:"product_unit_price"`
	SupplierName       string          `json:"supplier_name"`
}

type SaleItemRepository interface {
	Create(ctx context.Context, item model.SaleItem) error
	ListBySaleID(ctx context.Context, saleID int64) ([]model.SaleItem, error)
	//商品・仕入先をJOINした明細（削除済み商品も表示する）
	ListDetailsBySaleID(ctx context.Context, saleID int64) ([]SaleItemDetail, error)
	DeleteBySaleID(ctx context.Context, saleID int64) error
}
