package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type SupplierUsecase struct {
	supplierRepo repo.SupplierRepository
}

// DI
func NewSupplierUsecase(supplierRepo repo.SupplierRepository) *SupplierUsecase {
	return &SupplierUsecase{supplierRepo: supplierRepo}
}

func (u *SupplierUsecase) List(ctx context.Context, actor Actor) ([]model.Supplier, error) {
	if err := actor.require(model.PermSuppliersRead); err != nil {
		return nil, err
	}

	items, err := u.supplierRepo.List(ctx)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return items, nil
}

func (u *SupplierUsecase) Get(ctx context.Context, actor Actor, supplierID int64) (model.Supplier, error) {
	if err := actor.require(model.PermSuppliersRead); err != nil {
		return model.Supplier{}, err
	}
	if supplierID <= 0 {
		return model.Supplier{}, NewValidationError("supplier_id", "required")
	}

	s, err := u.supplierRepo.FindByID(ctx, supplierID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Supplier{}, NewNotFoundError("supplier", supplierID)
	}
	if err != nil {
		return model.Supplier{}, wrapStoreErr(err)
	}
	return s, nil
}

type SupplierInput struct {
	Description string
	City        string
}

func (u *SupplierUsecase) Create(ctx context.Context, actor Actor, in SupplierInput) (model.Supplier, error) {
	if err := actor.require(model.PermSuppliersWrite); err != nil {
		return model.Supplier{}, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return model.Supplier{}, NewValidationError("description", "required")
	}

	now := time.Now()
	s, err := u.supplierRepo.Create(ctx, model.Supplier{
		Description: strings.TrimSpace(in.Description),
		City:        strings.TrimSpace(in.City),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return model.Supplier{}, wrapStoreErr(err)
	}
	return s, nil
}

func (u *SupplierUsecase) Update(ctx context.Context, actor Actor, supplierID int64, in SupplierInput) error {
	if err := actor.require(model.PermSuppliersWrite); err != nil {
		return err
	}
	if supplierID <= 0 {
		return NewValidationError("supplier_id", "required")
	}
	if strings.TrimSpace(in.Description) == "" {
		return NewValidationError("description", "required")
	}

	err := u.supplierRepo.Update(ctx, model.Supplier{
		ID:          supplierID,
		Description: strings.TrimSpace(in.Description),
		City:        strings.TrimSpace(in.City),
		UpdatedAt:   time.Now(),
	})
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("supplier", supplierID)
	}
	if err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (u *SupplierUsecase) Delete(ctx context.Context, actor Actor, supplierID int64) error {
	if err := actor.require(model.PermSuppliersWrite); err != nil {
		return err
	}
	if supplierID <= 0 {
		return NewValidationError("supplier_id", "required")
	}

	err := u.supplierRepo.Delete(ctx, supplierID)
	if errors.Is(err, repo.ErrNotFound) {
		return NewNotFoundError("supplier", supplierID)
	}
	if err != nil {
		return wrapStoreErr(err)
	}
	return nil
}
