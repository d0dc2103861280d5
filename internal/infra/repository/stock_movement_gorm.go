package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type StockMovementGormRepository struct {
	db *gorm.DB
}

func NewStockMovementGormRepository(db *gorm.DB) *StockMovementGormRepository {
	return &StockMovementGormRepository{db: db}
}

func (r *StockMovementGormRepository) Create(ctx context.Context, m model.StockMovement) error {
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *StockMovementGormRepository) ListByProductID(ctx context.Context, productID int64) ([]model.StockMovement, error) {
	var items []model.StockMovement
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.StockMovement{}, err
	}
	return items, nil
}
