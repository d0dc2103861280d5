package repository

import (
	"context"

	"app/internal/domain/model"
)

type StockMovementRepository interface {
	Create(ctx context.Context, m model.StockMovement) error
	ListByProductID(ctx context.Context, productID int64) ([]model.StockMovement, error)
}
