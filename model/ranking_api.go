package model

type RankedPlayerForm struct {
	RoleName    string `json:"role_name,omitempty"`
	Profession  string `json:"profession,omitempty"`
	CombatPower *int64 `json:"combat_power,omitempty"`
	ServerName  string `json:"server_name,omitempty"`
}

type RankedGuildForm struct {
	Name       string `json:"name,omitempty"`
	ServerName string `json:"server_name,omitempty"`
	Power      *int64 `json:"power,omitempty"`
	MasterName string `json:"master_name,omitempty"`
}

// RankedPlayerItem 带名次的列表项，名次是全表名次而非当前页内名次
type RankedPlayerItem struct {
	RankedPlayer
	Ranking int64 `json:"ranking"`
}

type RankedGuildItem struct {
	RankedGuild
	Ranking int64 `json:"ranking"`
}

type RankingStats struct {
	TotalPlayers     int64            `json:"total_players"`
	TotalGuilds      int64            `json:"total_guilds"`
	TotalServers     int64            `json:"total_servers"`
	TotalProfessions int64            `json:"total_professions"`
	MaxCombatPower   int64            `json:"max_combat_power"`
	MaxGuildPower    int64            `json:"max_guild_power"`
	PlayersPerServer map[string]int64 `json:"players_per_server"`
	GuildsPerServer  map[string]int64 `json:"guilds_per_server"`
}
