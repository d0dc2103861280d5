package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
}

// DI
func NewProductUsecase(tx repo.TransactionManager, productRepo repo.ProductRepository) *ProductUsecase {
	return &ProductUsecase{tx: tx, productRepo: productRepo}
}

func (u *ProductUsecase) List(ctx context.Context, actor Actor) ([]model.Product, error) {
	if err := actor.require(model.PermProductsRead); err != nil {
		return nil, err
	}

	items, err := u.productRepo.List(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return items, nil
}

func (u *ProductUsecase) Get(ctx context.Context, actor Actor, productID int64) (model.Product, error) {
	if err := actor.require(model.PermProductsRead); err != nil {
		return model.Product{}, err
	}
	if productID <= 0 {
		return model.Product{}, NewValidationError("product_id", "required")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Product{}, NewNotFoundError("product", productID)
	}
	if err != nil {
		return model.Product{}, wrapStoreErr(err)
	}
	return p, nil
}

type ProductInput struct {
	Description string
	UnitPrice   decimal.Decimal
	Quantity    int64
	SupplierID  *int64
}

func (u *ProductUsecase) Create(ctx context.Context, actor Actor, in ProductInput) (model.Product, error) {
	if err := actor.require(model.PermProductsWrite); err != nil {
		return model.Product{}, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return model.Product{}, NewValidationError("description", "required")
	}
	if in.UnitPrice.IsNegative() {
		return model.Product{}, NewValidationError("unit_price", "must be >= 0")
	}
	if in.Quantity < 0 {
		return model.Product{}, NewValidationError("quantity", "must be >= 0")
	}

	now := time.Now()
	p, err := u.productRepo.Create(ctx, model.Product{
		Description:    strings.TrimSpace(in.Description),
		UnitPrice:      in.UnitPrice,
		QuantityOnHand: in.Quantity,
		SupplierID:     in.SupplierID,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return model.Product{}, wrapStoreErr(err)
	}
	return p, nil
}

func (u *ProductUsecase) Update(ctx context.Context, actor Actor, productID int64, in ProductInput) error {
	if err := actor.require(model.PermProductsWrite); err != nil {
		return err
	}
	if productID <= 0 {
		return NewValidationError("product_id", "required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return NewValidationError("description", "required")
	}
	if in.UnitPrice.IsNegative() {
		return NewValidationError("unit_price", "must be >= 0")
	}

	err := u.productRepo.Update(ctx, model.Product{
		ID:          productID,
		Description: strings.TrimSpace(in.Description),
		UnitPrice:   in.UnitPrice,
		SupplierID:  in.SupplierID,
		UpdatedAt:   time.Now(),
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("product", productID)
	}
	if err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (u *ProductUsecase) Delete(ctx context.Context, actor Actor, productID int64) error {
	if err := actor.require(model.PermProductsWrite); err != nil {
		return err
	}
	if productID <= 0 {
		return NewValidationError("product_id", "required")
	}

	err := u.productRepo.SoftDelete(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("product", productID)
	}
	if err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

// SetStockは在庫の現在値を直接設定する（棚卸しなど）。
// 在庫増減履歴と監査ログを同じトランザクションで書く。
func (u *ProductUsecase) SetStock(ctx context.Context, actor Actor, productID int64, newStock int64, reason string) error {
	if err := actor.require(model.PermProductsWrite); err != nil {
		return err
	}
	if productID <= 0 {
		return NewValidationError("product_id", "required")
	}
	if newStock < 0 {
		return NewValidationError("quantity", "must be >= 0")
	}
	if strings.TrimSpace(reason) == "" {
		return NewValidationError("reason", "required")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//変更前の在庫（before）
		p, err := r.Products().FindByIDForUpdate(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewNotFoundError("product", productID)
		}
		if err != nil {
			return wrapStoreErr(err)
		}

		if err := r.Inventory().SetStock(ctx, productID, newStock); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewNotFoundError("product", productID)
			}
			return wrapStoreErr(err)
		}

		if err := r.StockMovements().Create(ctx, model.StockMovement{
			ProductID: productID,
			Delta:     newStock - p.QuantityOnHand,
			Reason:    model.MovementReasonAdjustment,
		}); err != nil {
			return wrapStoreErr(err)
		}

		beforeJSON := fmt.Sprintf(`{"quantity_on_hand":%d}`, p.QuantityOnHand)
		afterJSON := fmt.Sprintf(`{"quantity_on_hand":%d,"reason":%q}`, newStock, strings.TrimSpace(reason))
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actor.UserID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    time.Now(),
		}); err != nil {
			return wrapStoreErr(err)
		}

		return nil
	})

	if err != nil {
		return wrapStoreErr(err)
	}
	return nil
}
