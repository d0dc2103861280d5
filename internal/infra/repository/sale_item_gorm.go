package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type SaleItemGormRepository struct {
	db *gorm.DB
}

func NewSaleItemGormRepository(db *gorm.DB) *SaleItemGormRepository {
	return &SaleItemGormRepository{db: db}
}

func (r *SaleItemGormRepository) Create(ctx context.Context, item model.SaleItem) error {
	return r.db.WithContext(ctx).Create(&item).Error
}

func (r *SaleItemGormRepository) ListBySaleID(ctx context.Context, saleID int64) ([]model.SaleItem, error) {
	var items []model.SaleItem
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return []model.SaleItem{}, err
	}
	return items, nil
}

// 商品・仕入先をJOINした明細。削除済み商品も表示したいのでJOINはソフトデリートを無視する。
func (r *SaleItemGormRepository) ListDetailsBySaleID(ctx context.Context, saleID int64) ([]repo.SaleItemDetail, error) {
	var items []repo.SaleItemDetail
	err := r.db.WithContext(ctx).
		Model(&model.SaleItem{}).
		Select("sale_items.*, products.description as product_description, products.unit_price as product_unit_price, COALESCE(suppliers.description, '') as supplier_name").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Joins("LEFT JOIN suppliers ON suppliers.id = products.supplier_id").
		Where("sale_items.sale_id = ?", saleID).
		Order("sale_items.id").
		Find(&items).Error
	if err != nil {
		return []repo.SaleItemDetail{}, err
	}
	return items, nil
}

func (r *SaleItemGormRepository) DeleteBySaleID(ctx context.Context, saleID int64) error {
	return r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Delete(&model.SaleItem{}).Error
}
