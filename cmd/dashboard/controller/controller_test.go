package controller

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestPagination(t *testing.T) {
	tests := []struct {
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"", 1, defaultPageSize},
		{"page=3&page_size=50", 3, 50},
		{"page=0&page_size=0", 1, defaultPageSize},
		{"page=-1&page_size=-5", 1, defaultPageSize},
		{"page=2&page_size=10000", 2, maxPageSize},
		{"page=abc&page_size=xyz", 1, defaultPageSize},
	}
	for _, tc := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+tc.query, nil)
		page, pageSize := pagination(c)
		assert.Equal(t, tc.wantPage, page, tc.query)
		assert.Equal(t, tc.wantPageSize, pageSize, tc.query)
	}
}

func TestIntersectServerFilter(t *testing.T) {
	allow := []string{"Server-A", "Server-B"}

	// 不传过滤条件就是整个白名单
	assert.Equal(t, allow, intersectServerFilter(allow, ""))
	// 白名单内的过滤条件收窄到单个区服
	assert.Equal(t, []string{"Server-B"}, intersectServerFilter(allow, "Server-B"))
	// 白名单外的过滤条件不能放宽可见范围
	assert.Equal(t, []string{}, intersectServerFilter(allow, "Server-C"))
	// 空白名单怎么过滤都是空
	assert.Equal(t, []string{}, intersectServerFilter([]string{}, "Server-A"))
}

func TestGormErrorHidesDetail(t *testing.T) {
	err := newGormError("%v", assert.AnError)
	var gErr *gormError
	assert.ErrorAs(t, err, &gErr)
	assert.Equal(t, assert.AnError.Error(), err.Error())
}
