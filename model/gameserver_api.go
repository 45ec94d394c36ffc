package model

type GameServerForm struct {
	Name        string `json:"name,omitempty"`
	Code        string `json:"code,omitempty"`
	Region      string `json:"region,omitempty"`
	Status      string `json:"status,omitempty"`
	Sort        int    `json:"sort,omitempty"`
	Description string `json:"description,omitempty"`
	MaxPlayers  int    `json:"max_players,omitempty"`
}
