package repository

import "context"

type InventoryRepository interface {
	// 在庫の現在値を設定
	SetStock(ctx context.Context, productID int64, newStock int64) error

	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセルなど）。削除済み商品の行が残っていれば戻す。
	// 行が無いときは ErrNotFound。
	IncreaseStock(ctx context.Context, productID int64, qty int64) error
}
