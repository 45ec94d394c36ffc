package singleton

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/pkg/utils"
)

// LoadData 空库时写入角色、菜单、区服、操作权限目录和初始管理员
func LoadData() {
	var count int64
	if err := DB.Model(&model.Role{}).Count(&count).Error; err != nil {
		panic(err)
	}
	if count == 0 {
		if err := seedCatalogs(DB); err != nil {
			panic(err)
		}
	}
	if err := seedAdmin(DB); err != nil {
		panic(err)
	}
}

func seedCatalogs(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		roles := []model.Role{
			{Name: "超级管理员", Code: "super_admin", Level: model.RoleLevelSuperAdmin, Description: "系统超级管理员，拥有所有权限", Status: model.StatusActive, Sort: 1},
			{Name: "管理员", Code: "admin", Level: model.RoleLevelAdmin, Description: "管理员，可以管理员工权限", Status: model.StatusActive, Sort: 2},
			{Name: "普通员工", Code: "staff", Level: model.RoleLevelStaff, Description: "普通员工，权限受限", Status: model.StatusActive, Sort: 3},
		}
		if err := tx.Create(&roles).Error; err != nil {
			return err
		}

		servers := []model.GameServer{
			{Name: "测试服", Code: "test", Region: "测试区", Status: model.StatusActive, Sort: 1},
			{Name: "体验服", Code: "beta", Region: "测试区", Status: model.StatusActive, Sort: 2},
			{Name: "正式服1区", Code: "server1", Region: "华东", Status: model.StatusActive, Sort: 3},
			{Name: "正式服2区", Code: "server2", Region: "华南", Status: model.StatusActive, Sort: 4},
			{Name: "正式服3区", Code: "server3", Region: "华北", Status: model.StatusActive, Sort: 5},
		}
		if err := tx.Create(&servers).Error; err != nil {
			return err
		}

		// 仪表盘必须拿到 id 1，其余菜单的 parent 才能按序引用
		menus := []model.Menu{
			{Name: "仪表盘", Code: "dashboard", Path: "/dashboard", Component: "DashboardView", Icon: "DashboardOutlined", Sort: 1, Status: model.StatusActive},
			{Name: "排行榜管理", Code: "ranking", Path: "/ranking", Icon: "TrophyOutlined", Sort: 2, Status: model.StatusActive},
			{Name: "玩家排行", Code: "ranking:player", Path: "/ranking/player", Component: "PlayerRankingView", Sort: 1, Status: model.StatusActive},
			{Name: "公会排行", Code: "ranking:guild", Path: "/ranking/guild", Component: "GuildRankingView", Sort: 2, Status: model.StatusActive},
			{Name: "系统管理", Code: "system", Path: "/system", Icon: "SettingOutlined", Sort: 3, Status: model.StatusActive},
			{Name: "用户管理", Code: "system:users", Path: "/system/users", Component: "UsersView", Sort: 1, Status: model.StatusActive},
			{Name: "权限管理", Code: "system:permissions", Path: "/system/permissions", Component: "PermissionsView", Sort: 2, Status: model.StatusActive},
			{Name: "区服管理", Code: "system:servers", Path: "/system/servers", Component: "ServersView", Sort: 3, Status: model.StatusActive},
		}
		for i := range menus {
			if err := tx.Create(&menus[i]).Error; err != nil {
				return err
			}
		}
		parents := map[string]uint64{
			"ranking:player":     menus[1].ID,
			"ranking:guild":      menus[1].ID,
			"system:users":       menus[4].ID,
			"system:permissions": menus[4].ID,
			"system:servers":     menus[4].ID,
		}
		for code, pid := range parents {
			parent := pid
			if err := tx.Model(&model.Menu{}).Where("code = ?", code).
				Update("parent_id", parent).Error; err != nil {
				return err
			}
		}

		operations := []model.OperationPermission{
			{Name: "查看", Code: "view", Description: "查看数据权限"},
			{Name: "新增", Code: "create", Description: "新增数据权限"},
			{Name: "编辑", Code: "edit", Description: "编辑数据权限"},
			{Name: "删除", Code: "delete", Description: "删除数据权限"},
			{Name: "导入", Code: "import", Description: "数据导入权限"},
			{Name: "导出", Code: "export", Description: "数据导出权限"},
			{Name: "审核", Code: "audit", Description: "数据审核权限"},
		}
		return tx.Create(&operations).Error
	})
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("username = ?", Conf.AdminUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password, err := utils.GenerateRandomString(16)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		admin := model.User{
			Username: Conf.AdminUsername,
			Email:    Conf.AdminUsername + "@localhost",
			Password: string(hash),
			Status:   model.StatusActive,
		}
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		var superAdmin model.Role
		if err := tx.First(&superAdmin, "code = ?", "super_admin").Error; err != nil {
			return err
		}
		if err := tx.Create(&model.UserRole{UserID: admin.ID, RoleID: superAdmin.ID}).Error; err != nil {
			return err
		}
		log.Printf("GMB>> 初始管理员 %s 密码：%s（仅此一次，请立即修改）", admin.Username, password)
		return nil
	})
}
