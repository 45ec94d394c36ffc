package model

type StaffPermissionForm struct {
	MenuIDs      []uint64 `json:"menu_ids"`
	ServerIDs    []uint64 `json:"server_ids"`
	OperationIDs []uint64 `json:"operation_ids"`
}

type StaffPermissionResponse struct {
	MenuIDs      []uint64 `json:"menu_ids"`
	ServerIDs    []uint64 `json:"server_ids"`
	OperationIDs []uint64 `json:"operation_ids"`
}

// UserPermissionResponse /user-permission 的响应：角色 + 解析后的授权范围
type UserPermissionResponse struct {
	Role        *Role                 `json:"role,omitempty"`
	Permissions ScopedPermissionsData `json:"permissions"`
}

type ScopedPermissionsData struct {
	Menus        []*Menu                `json:"menus"`
	Servers      []*GameServer          `json:"servers"`
	Operations   []*OperationPermission `json:"operations"`
	IsFullAccess bool                   `json:"is_full_access"`
}
