package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Sales() SaleRepository
	SaleItems() SaleItemRepository
	Products() ProductRepository
	Suppliers() SupplierRepository
	Inventory() InventoryRepository
	StockMovements() StockMovementRepository
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがerrorを返したら全体をrollbackする。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
