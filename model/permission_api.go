package model

type PermissionForm struct {
	Name        string  `json:"name,omitempty"`
	Code        string  `json:"code,omitempty"`
	Type        string  `json:"type,omitempty"`
	ParentID    *uint64 `json:"parent_id,omitempty"`
	Path        string  `json:"path,omitempty"`
	Component   string  `json:"component,omitempty"`
	Icon        string  `json:"icon,omitempty"`
	Sort        int     `json:"sort,omitempty"`
	Status      string  `json:"status,omitempty"`
	Description string  `json:"description,omitempty"`
}
