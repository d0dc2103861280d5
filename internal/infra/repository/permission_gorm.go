package repository

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type permissionGormRepository struct {
	db *gorm.DB
}

func NewPermissionGormRepository(db *gorm.DB) repo.PermissionRepository {
	return &permissionGormRepository{db: db}
}

// グループ経由の権限とユーザー直付けの権限の和集合を返す。
func (r *permissionGormRepository) ResolveForUser(ctx context.Context, userID int64) ([]string, error) {
	var names []string

	err := r.db.WithContext(ctx).
		Model(&model.Permission{}).
		Distinct("permissions.name").
		Joins("JOIN group_permissions gp ON gp.permission_id = permissions.id").
		Joins("JOIN user_groups ug ON ug.group_id = gp.group_id").
		Where("ug.user_id = ?", userID).
		Pluck("permissions.name", &names).Error
	if err != nil {
		return nil, err
	}

	var direct []string
	err = r.db.WithContext(ctx).
		Model(&model.Permission{}).
		Distinct("permissions.name").
		Joins("JOIN user_permissions up ON up.permission_id = permissions.id").
		Where("up.user_id = ?", userID).
		Pluck("permissions.name", &direct).Error
	if err != nil {
		return nil, err
	}

	//重複を除いてまとめる
	seen := make(map[string]bool, len(names)+len(direct))
	merged := make([]string, 0, len(names)+len(direct))
	for _, n := range append(names, direct...) {
		if seen[n] {
			continue
		}
		seen[n] = true
		merged = append(merged, n)
	}
	return merged, nil
}
