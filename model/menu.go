package model

// DashboardMenuID 仪表盘菜单，任何登录用户都可见
const DashboardMenuID uint64 = 1

type Menu struct {
	Common
	Name      string  `json:"name,omitempty" gorm:"size:50"`
	Code      string  `json:"code,omitempty" gorm:"uniqueIndex;size:100"`
	Path      string  `json:"path,omitempty" gorm:"size:200"`
	Component string  `json:"component,omitempty" gorm:"size:200"`
	Icon      string  `json:"icon,omitempty" gorm:"size:50"`
	ParentID  *uint64 `json:"parent_id,omitempty"`
	Sort      int     `json:"sort,omitempty"`
	Status    string  `json:"status,omitempty" gorm:"size:10;default:active"`

	Children []*Menu `json:"children" gorm:"-"`
}

func (m *Menu) GetID() uint64 {
	return m.ID
}

func (m *Menu) GetParentID() uint64 {
	if m.ParentID == nil {
		return 0
	}
	return *m.ParentID
}

func (m *Menu) GetSort() int {
	return m.Sort
}

func (m *Menu) SetChildren(children []*Menu) {
	m.Children = children
}
