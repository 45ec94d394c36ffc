package model

// RankedPlayer 玩家战力排行数据
type RankedPlayer struct {
	Common
	RoleName    string `json:"role_name,omitempty" gorm:"size:50;index"`
	Profession  string `json:"profession,omitempty" gorm:"size:50"`
	CombatPower int64  `json:"combat_power,omitempty" gorm:"index"`
	ServerName  string `json:"server_name,omitempty" gorm:"size:50;index"`
}

func (RankedPlayer) TableName() string {
	return "rank_list"
}

// RankedGuild 公会战力排行数据
type RankedGuild struct {
	Common
	Name       string `json:"name,omitempty" gorm:"size:50;index"`
	ServerName string `json:"server_name,omitempty" gorm:"size:50;index"`
	Power      int64  `json:"power,omitempty" gorm:"index"`
	MasterName string `json:"master_name,omitempty" gorm:"size:50"`
}

func (RankedGuild) TableName() string {
	return "guild_rank"
}
