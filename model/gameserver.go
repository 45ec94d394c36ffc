package model

import "time"

// GameServer 区服，排行榜数据按 server_name 归属到区服
type GameServer struct {
	Common
	Name        string     `json:"name,omitempty" gorm:"uniqueIndex;size:50"`
	Code        string     `json:"code,omitempty" gorm:"size:50"`
	Region      string     `json:"region,omitempty" gorm:"size:50"`
	Status      string     `json:"status,omitempty" gorm:"size:10;default:active"`
	Sort        int        `json:"sort,omitempty"`
	Description string     `json:"description,omitempty" gorm:"size:200"`
	MaxPlayers  int        `json:"max_players,omitempty"`
	OpenTime    *time.Time `json:"open_time,omitempty"`
}
