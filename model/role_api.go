package model

type RoleForm struct {
	Name        string `json:"name,omitempty"`
	Code        string `json:"code,omitempty"`
	Level       uint8  `json:"level,omitempty"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Sort        int    `json:"sort,omitempty"`
}

type UserRoleForm struct {
	UserID uint64 `json:"user_id,omitempty"`
	RoleID uint64 `json:"role_id,omitempty"`
}

// RolePermissionForm 整体覆盖角色的权限绑定
type RolePermissionForm struct {
	PermissionIDs []uint64 `json:"permission_ids"`
}
