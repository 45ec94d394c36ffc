package model

// OperationPermission 操作权限目录：view/create/edit/delete/import/export/audit
type OperationPermission struct {
	Common
	Name        string `json:"name,omitempty" gorm:"size:50"`
	Code        string `json:"code,omitempty" gorm:"uniqueIndex;size:50"`
	Description string `json:"description,omitempty" gorm:"size:200"`
}
