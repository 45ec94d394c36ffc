package model

import "time"

// CtxKeyAuthorizedUser ..
const CtxKeyAuthorizedUser = "ckau"

// CtxKeyRealIPStr ..
const CtxKeyRealIPStr = "ckrip"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Common ..
type Common struct {
	ID        uint64     `gorm:"primary_key" json:"id,omitempty"`
	CreatedAt time.Time  `json:"created_at,omitempty"`
	UpdatedAt time.Time  `json:"updated_at,omitempty"`
	DeletedAt *time.Time `sql:"index" json:"-"`
}

type CommonResponse[T any] struct {
	Success bool   `json:"success,omitempty"`
	Data    T      `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

type LoginResponse struct {
	Token  string `json:"token,omitempty"`
	Expire string `json:"expire,omitempty"`
}

// Paginated 分页响应，Total 为过滤后的总行数
type Paginated[T any] struct {
	List       []T   `json:"list"`
	Current    int   `json:"current"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

func NewPaginated[T any](list []T, current, pageSize int, total int64) Paginated[T] {
	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	return Paginated[T]{
		List:       list,
		Current:    current,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
