package singleton

import (
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gmboard/gmboard/model"
)

var Version = "v0.2.1"

var (
	Conf  *model.Config
	Cache *cache.Cache
	DB    *gorm.DB
	Loc   *time.Location
)

// Init 初始化 singleton
func Init() {
	var err error
	Loc, err = time.LoadLocation("Asia/Shanghai")
	if err != nil {
		panic(err)
	}

	Cache = cache.New(5*time.Minute, 10*time.Minute)
}

// InitConfigFromPath 从给出的文件路径中加载配置
func InitConfigFromPath(path string) {
	var err error
	Conf, err = model.ReadInConfig(path)
	if err != nil {
		panic(err)
	}
}

// InitDBFromDSN 打开数据库。mysql:// 前缀走 MySQL，其余按 SQLite 文件路径处理
func InitDBFromDSN(dsn string) {
	var err error
	if strings.HasPrefix(dsn, "mysql://") {
		DB, err = gorm.Open(mysql.Open(strings.TrimPrefix(dsn, "mysql://")), &gorm.Config{
			CreateBatchSize: 200,
		})
	} else {
		if dsn == "" {
			dsn = "data/gmboard.db"
		}
		DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
			CreateBatchSize: 200,
		})
	}
	if err != nil {
		panic(err)
	}
	if Conf.Debug {
		DB = DB.Debug()
	}
	err = DB.AutoMigrate(
		model.User{}, model.Role{}, model.UserRole{},
		model.Permission{}, model.RolePermission{},
		model.Menu{}, model.GameServer{}, model.OperationPermission{},
		model.StaffPermission{},
		model.RankedPlayer{}, model.RankedGuild{},
		model.WAF{},
	)
	if err != nil {
		panic(err)
	}
}
