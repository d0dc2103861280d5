package model

// グループ（営業・管理者など）。権限はグループ経由とユーザー直付けの両方がある。
type Group struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

// 権限（sales.create / products.write など）。
type Permission struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

// ユーザーとグループの対応。
type UserGroup struct {
	UserID  int64 `gorm:"primaryKey"`
	GroupID int64 `gorm:"primaryKey"`
}

// グループに付く権限。
type GroupPermission struct {
	GroupID      int64 `gorm:"primaryKey"`
	PermissionID int64 `gorm:"primaryKey"`
}

// ユーザーに直接付く権限。
type UserPermission struct {
	UserID       int64 `gorm:"primaryKey"`
	PermissionID int64 `gorm:"primaryKey"`
}

// 権限名の定数。ルート登録とusecaseの事前条件の両方で使う。
const (
	PermSalesCreate    = "sales.create"
	PermSalesCancel    = "sales.cancel"
	PermSalesRead      = "sales.read"
	PermReportsRead    = "reports.read"
	PermProductsRead   = "products.read"
	PermProductsWrite  = "products.write"
	PermSuppliersRead  = "suppliers.read"
	PermSuppliersWrite = "suppliers.write"
	PermSystemBackup   = "system.backup"
)
