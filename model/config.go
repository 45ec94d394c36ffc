package model

import (
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config ..
type Config struct {
	Debug    bool
	Listen   string // HTTP 监听地址
	SiteName string

	JWTSecretKey string
	RealIPHeader string // 反代场景下的真实 IP 头，留空则直接取对端地址

	Database struct {
		DSN string // sqlite 文件路径或 mysql DSN
	}

	AdminUsername string // 初始化管理员账号
}

// ReadInConfig ..
func ReadInConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}
	var c Config

	err = viper.Unmarshal(&c)
	if err != nil {
		return nil, err
	}

	if c.Listen == "" {
		c.Listen = ":8008"
	}
	if c.SiteName == "" {
		c.SiteName = "GMBoard"
	}
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}

	viper.OnConfigChange(func(in fsnotify.Event) {
		viper.Unmarshal(&c)
	})

	go viper.WatchConfig()
	return &c, nil
}
