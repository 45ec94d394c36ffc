package model

const (
	RoleLevelSuperAdmin uint8 = 1
	RoleLevelAdmin      uint8 = 2
	RoleLevelStaff      uint8 = 3
)

type Role struct {
	Common
	Name        string `json:"name,omitempty" gorm:"size:50"`
	Code        string `json:"code,omitempty" gorm:"uniqueIndex;size:50"`
	Level       uint8  `json:"level,omitempty"` // 越小权限越高
	Description string `json:"description,omitempty" gorm:"size:200"`
	Status      string `json:"status,omitempty" gorm:"size:10;default:active"`
	Sort        int    `json:"sort,omitempty"`
}

// IsPrivileged 超级管理员与管理员拥有全量权限
func (r *Role) IsPrivileged() bool {
	return r.Level <= RoleLevelAdmin
}

type UserRole struct {
	Common
	UserID uint64 `json:"user_id,omitempty" gorm:"uniqueIndex:idx_user_role"`
	RoleID uint64 `json:"role_id,omitempty" gorm:"uniqueIndex:idx_user_role"`
}

type RolePermission struct {
	Common
	RoleID       uint64 `json:"role_id,omitempty" gorm:"uniqueIndex:idx_role_perm"`
	PermissionID uint64 `json:"permission_id,omitempty" gorm:"uniqueIndex:idx_role_perm"`
}
