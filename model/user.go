package model

import "time"

type User struct {
	Common
	Username    string     `json:"username,omitempty" gorm:"uniqueIndex;size:50"`
	Email       string     `json:"email,omitempty" gorm:"uniqueIndex;size:100"`
	Password    string     `json:"-" gorm:"type:char(60)"` // bcrypt
	Status      string     `json:"status,omitempty" gorm:"size:10;default:active"`
	Avatar      string     `json:"avatar,omitempty" gorm:"size:255"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

type Profile struct {
	User
	Role        *Role    `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}
