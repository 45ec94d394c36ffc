package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"

	"github.com/gmboard/gmboard/pkg/utils"
)

func TestStaffPermissionDecodeRoundTrip(t *testing.T) {
	menuIDs, err := utils.Json.Marshal([]uint64{1, 2, 3})
	assert.NoError(t, err)
	serverIDs, err := utils.Json.Marshal([]uint64{1, 2})
	assert.NoError(t, err)
	operationIDs, err := utils.Json.Marshal([]uint64{1, 2, 3})
	assert.NoError(t, err)

	sp := StaffPermission{
		UserID:       7,
		MenuIDs:      datatypes.JSON(menuIDs),
		ServerIDs:    datatypes.JSON(serverIDs),
		OperationIDs: datatypes.JSON(operationIDs),
	}

	assert.Equal(t, []uint64{1, 2, 3}, sp.DecodeMenuIDs())
	assert.Equal(t, []uint64{1, 2}, sp.DecodeServerIDs())
	assert.Equal(t, []uint64{1, 2, 3}, sp.DecodeOperationIDs())
}

func TestStaffPermissionDecodeStringEncoded(t *testing.T) {
	// 历史数据：JSON 列里存的是数组的字符串编码
	sp := StaffPermission{
		MenuIDs:   datatypes.JSON(`"[1,2,3]"`),
		ServerIDs: datatypes.JSON(`"[]"`),
	}

	assert.Equal(t, []uint64{1, 2, 3}, sp.DecodeMenuIDs())
	assert.Equal(t, []uint64{}, sp.DecodeServerIDs())
}

func TestStaffPermissionDecodeMalformed(t *testing.T) {
	sp := StaffPermission{
		MenuIDs:      datatypes.JSON(`[1,2`),
		ServerIDs:    nil,
		OperationIDs: datatypes.JSON(`{"oops":true}`),
	}

	assert.Equal(t, []uint64{}, sp.DecodeMenuIDs())
	assert.Equal(t, []uint64{}, sp.DecodeServerIDs())
	assert.Equal(t, []uint64{}, sp.DecodeOperationIDs())
}
