package utils

import (
	"github.com/tidwall/gjson"
)

// GjsonParseUint64Array 解析 JSON 数组，兼容字符串二次编码的历史数据。
// 解析失败时返回空数组，绝不报错。
func GjsonParseUint64Array(raw []byte) []uint64 {
	if len(raw) == 0 {
		return []uint64{}
	}

	// MySQL JSON 字段可能返回 "[1,2,3]" 的字符串形式
	if result := gjson.ParseBytes(raw); result.Type == gjson.String {
		raw = []byte(result.String())
	}

	var ids []uint64
	if err := Json.Unmarshal(raw, &ids); err != nil {
		return []uint64{}
	}
	if ids == nil {
		return []uint64{}
	}
	return ids
}
