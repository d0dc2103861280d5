package repository

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

func (r *SaleGormRepository) FindByID(ctx context.Context, saleID int64) (model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).Where("id = ?", saleID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sale{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SaleGormRepository) Create(ctx context.Context, sale model.Sale) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&sale).Error; err != nil {
		return 0, err
	}
	return sale.ID, nil
}

func (r *SaleGormRepository) Delete(ctx context.Context, saleID int64) error {
	res := r.db.WithContext(ctx).Where("id = ?", saleID).Delete(&model.Sale{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 集計付きのベースクエリ。明細が無い売上も0件で返す。
func (r *SaleGormRepository) withTotals(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Select("sales.*, COALESCE(COUNT(sale_items.id), 0) as item_count, COALESCE(SUM(sale_items.quantity), 0) as total_quantity").
		Joins("LEFT JOIN sale_items ON sale_items.sale_id = sales.id").
		Group("sales.id")
}

func (r *SaleGormRepository) FindWithTotals(ctx context.Context, saleID int64) (repo.SaleWithTotals, error) {
	var s repo.SaleWithTotals
	err := r.withTotals(ctx).Where("sales.id = ?", saleID).Take(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repo.SaleWithTotals{}, repo.ErrNotFound
	}
	if err != nil {
		return repo.SaleWithTotals{}, err
	}
	return s, nil
}

func (r *SaleGormRepository) ListWithTotals(ctx context.Context) ([]repo.SaleWithTotals, error) {
	var items []repo.SaleWithTotals
	err := r.withTotals(ctx).Order("sales.sold_at desc").Find(&items).Error
	if err != nil {
		return []repo.SaleWithTotals{}, err
	}
	return items, nil
}

// 期間は両端を含む
func (r *SaleGormRepository) QueryRange(ctx context.Context, start, end time.Time) ([]repo.SaleWithTotals, error) {
	var items []repo.SaleWithTotals
	err := r.withTotals(ctx).
		Where("sales.sold_at >= ? AND sales.sold_at <= ?", start, end).
		Order("sales.sold_at desc").
		Find(&items).Error
	if err != nil {
		return []repo.SaleWithTotals{}, err
	}
	return items, nil
}
