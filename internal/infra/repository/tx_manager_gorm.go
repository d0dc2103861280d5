package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	sales          repo.SaleRepository
	saleItems      repo.SaleItemRepository
	products       repo.ProductRepository
	suppliers      repo.SupplierRepository
	inventory      repo.InventoryRepository
	stockMovements repo.StockMovementRepository
	auditLogs      repo.AuditLogRepository
}

func (r *txReposGorm) Sales() repo.SaleRepository                   { return r.sales }
func (r *txReposGorm) SaleItems() repo.SaleItemRepository           { return r.saleItems }
func (r *txReposGorm) Products() repo.ProductRepository             { return r.products }
func (r *txReposGorm) Suppliers() repo.SupplierRepository           { return r.suppliers }
func (r *txReposGorm) Inventory() repo.InventoryRepository          { return r.inventory }
func (r *txReposGorm) StockMovements() repo.StockMovementRepository { return r.stockMovements }
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository           { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			sales:          NewSaleGormRepository(tx),
			saleItems:      NewSaleItemGormRepository(tx),
			products:       NewProductGormRepository(tx),
			suppliers:      NewSupplierGormRepository(tx),
			inventory:      NewInventoryGormRepository(tx),
			stockMovements: NewStockMovementGormRepository(tx),
			auditLogs:      NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
