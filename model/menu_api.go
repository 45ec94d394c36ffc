package model

type MenuForm struct {
	Name      string  `json:"name,omitempty"`
	Code      string  `json:"code,omitempty"`
	Path      string  `json:"path,omitempty"`
	Component string  `json:"component,omitempty"`
	Icon      string  `json:"icon,omitempty"`
	ParentID  *uint64 `json:"parent_id,omitempty"`
	Sort      int     `json:"sort,omitempty"`
	Status    string  `json:"status,omitempty"`
}
