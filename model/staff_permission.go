package model

import (
	"gorm.io/datatypes"

	"github.com/gmboard/gmboard/pkg/utils"
)

// StaffPermission 普通员工的授权范围，一人一行，管理员配置时整行覆盖。
// 三个 ID 数组存 JSON 列；历史数据存在字符串二次编码的形式，读取走
// Decode 系列方法兜底。
type StaffPermission struct {
	Common
	UserID       uint64         `json:"user_id,omitempty" gorm:"uniqueIndex"`
	MenuIDs      datatypes.JSON `json:"menu_ids,omitempty"`
	ServerIDs    datatypes.JSON `json:"server_ids,omitempty"`
	OperationIDs datatypes.JSON `json:"operation_ids,omitempty"`
	CreatedBy    uint64         `json:"created_by,omitempty"`
}

func (sp *StaffPermission) DecodeMenuIDs() []uint64 {
	return utils.GjsonParseUint64Array(sp.MenuIDs)
}

func (sp *StaffPermission) DecodeServerIDs() []uint64 {
	return utils.GjsonParseUint64Array(sp.ServerIDs)
}

func (sp *StaffPermission) DecodeOperationIDs() []uint64 {
	return utils.GjsonParseUint64Array(sp.OperationIDs)
}
