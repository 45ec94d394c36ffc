package model

const (
	PermissionTypeMenu   = "menu"
	PermissionTypeButton = "button"
	PermissionTypeAPI    = "api"
)

type Permission struct {
	Common
	Name        string  `json:"name,omitempty" gorm:"size:50"`
	Code        string  `json:"code,omitempty" gorm:"uniqueIndex;size:100"`
	Type        string  `json:"type,omitempty" gorm:"size:10"` // menu/button/api
	ParentID    *uint64 `json:"parent_id,omitempty"`
	Path        string  `json:"path,omitempty" gorm:"size:200"`
	Component   string  `json:"component,omitempty" gorm:"size:200"`
	Icon        string  `json:"icon,omitempty" gorm:"size:50"`
	Sort        int     `json:"sort,omitempty"`
	Status      string  `json:"status,omitempty" gorm:"size:10;default:active"`
	Description string  `json:"description,omitempty" gorm:"size:200"`

	Children []*Permission `json:"children" gorm:"-"`
}

func (p *Permission) GetID() uint64 {
	return p.ID
}

func (p *Permission) GetParentID() uint64 {
	if p.ParentID == nil {
		return 0
	}
	return *p.ParentID
}

func (p *Permission) GetSort() int {
	return p.Sort
}

func (p *Permission) SetChildren(children []*Permission) {
	p.Children = children
}
