package repository

import "context"

// 権限解決だけを約束。
// グループ経由の権限とユーザー直付けの権限の和集合を返す。
type PermissionRepository interface {
	ResolveForUser(ctx context.Context, userID int64) ([]string, error)
}
