// Package rbac 权限解析：角色权限码、员工授权范围、区服过滤。
// 每次调用都直读数据库，不做任何跨请求缓存，管理员改完权限下一次请求即生效。
package rbac

import (
	"sort"

	"gorm.io/gorm"

	"github.com/gmboard/gmboard/model"
)

// Scope 员工的授权范围
type Scope struct {
	MenuIDs      []uint64 `json:"menu_ids"`
	ServerIDs    []uint64 `json:"server_ids"`
	OperationIDs []uint64 `json:"operation_ids"`
	IsFullAccess bool     `json:"is_full_access"`
}

// UserRole 取用户的生效角色，未分配时返回 nil 而非错误
func UserRole(db *gorm.DB, userID uint64) (*model.Role, error) {
	var role model.Role
	err := db.Model(&model.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Where("roles.status = ?", model.StatusActive).
		Order("roles.level ASC").
		First(&role).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}

// ResolvePermissions 经典 RBAC：生效角色的生效权限码并集，去重。
// 未分配角色返回空集，存储错误原样上抛，不给半截结果。
func ResolvePermissions(db *gorm.DB, userID uint64) ([]string, error) {
	var codes []string
	err := db.Model(&model.Permission{}).
		Distinct().
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Where("roles.status = ?", model.StatusActive).
		Where("permissions.status = ?", model.StatusActive).
		Pluck("permissions.code", &codes).Error
	if err != nil {
		return nil, err
	}
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

// ResolveScope 员工授权范围。管理层（level ≤ 2）全量放行；
// 员工取 staff_permissions 单行配置，仪表盘菜单永远在内。
func ResolveScope(db *gorm.DB, userID uint64) (*Scope, error) {
	role, err := UserRole(db, userID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return &Scope{
			MenuIDs:      []uint64{model.DashboardMenuID},
			ServerIDs:    []uint64{},
			OperationIDs: []uint64{},
		}, nil
	}

	if role.IsPrivileged() {
		return fullScope(db)
	}

	var sp model.StaffPermission
	err = db.First(&sp, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return &Scope{
			MenuIDs:      []uint64{model.DashboardMenuID},
			ServerIDs:    []uint64{},
			OperationIDs: []uint64{},
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &Scope{
		MenuIDs:      withDashboard(sp.DecodeMenuIDs()),
		ServerIDs:    sp.DecodeServerIDs(),
		OperationIDs: sp.DecodeOperationIDs(),
	}, nil
}

func fullScope(db *gorm.DB) (*Scope, error) {
	scope := &Scope{
		MenuIDs:      []uint64{},
		ServerIDs:    []uint64{},
		OperationIDs: []uint64{},
		IsFullAccess: true,
	}
	if err := db.Model(&model.Menu{}).Where("status = ?", model.StatusActive).
		Order("sort, id").Pluck("id", &scope.MenuIDs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.GameServer{}).Where("status = ?", model.StatusActive).
		Order("sort, id").Pluck("id", &scope.ServerIDs).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.OperationPermission{}).
		Order("id").Pluck("id", &scope.OperationIDs).Error; err != nil {
		return nil, err
	}
	return scope, nil
}

func withDashboard(menuIDs []uint64) []uint64 {
	for _, id := range menuIDs {
		if id == model.DashboardMenuID {
			return menuIDs
		}
	}
	return append([]uint64{model.DashboardMenuID}, menuIDs...)
}

// AllowedServers 排行榜查询的区服白名单。fail-closed：
// 空名单就是一行都看不到，任何存储错误直接中止，绝不放宽。
func AllowedServers(db *gorm.DB, userID uint64) ([]string, error) {
	role, err := UserRole(db, userID)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return []string{}, nil
	}

	if role.IsPrivileged() {
		return allServerNames(db)
	}

	scope, err := ResolveScope(db, userID)
	if err != nil {
		return nil, err
	}
	if len(scope.ServerIDs) == 0 {
		return []string{}, nil
	}

	var names []string
	err = db.Model(&model.GameServer{}).
		Where("id IN (?)", scope.ServerIDs).
		Where("status = ?", model.StatusActive).
		Order("name").
		Pluck("name", &names).Error
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

// allServerNames 管理层看到排行数据里出现过的全部区服名
func allServerNames(db *gorm.DB) ([]string, error) {
	var players, guilds []string
	if err := db.Model(&model.RankedPlayer{}).Distinct().
		Pluck("server_name", &players).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.RankedGuild{}).Distinct().
		Pluck("server_name", &guilds).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(players)+len(guilds))
	names := make([]string, 0, len(players)+len(guilds))
	for _, n := range append(players, guilds...) {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// ResolveScopeData 把 Scope 展开成完整的菜单/区服/操作记录，给前端一次拉全
func ResolveScopeData(db *gorm.DB, userID uint64) (*model.UserPermissionResponse, error) {
	role, err := UserRole(db, userID)
	if err != nil {
		return nil, err
	}

	scope, err := ResolveScope(db, userID)
	if err != nil {
		return nil, err
	}

	resp := &model.UserPermissionResponse{
		Role: role,
		Permissions: model.ScopedPermissionsData{
			Menus:        []*model.Menu{},
			Servers:      []*model.GameServer{},
			Operations:   []*model.OperationPermission{},
			IsFullAccess: scope.IsFullAccess,
		},
	}

	if len(scope.MenuIDs) > 0 {
		if err := db.Where("id IN (?)", scope.MenuIDs).
			Where("status = ?", model.StatusActive).
			Order("sort, id").Find(&resp.Permissions.Menus).Error; err != nil {
			return nil, err
		}
	}
	if len(scope.ServerIDs) > 0 {
		if err := db.Where("id IN (?)", scope.ServerIDs).
			Where("status = ?", model.StatusActive).
			Order("sort, id").Find(&resp.Permissions.Servers).Error; err != nil {
			return nil, err
		}
	}
	if len(scope.OperationIDs) > 0 {
		if err := db.Where("id IN (?)", scope.OperationIDs).
			Order("id").Find(&resp.Permissions.Operations).Error; err != nil {
			return nil, err
		}
	}
	return resp, nil
}

// UserMenus 用户可见菜单树
func UserMenus(db *gorm.DB, userID uint64) ([]*model.Menu, error) {
	scope, err := ResolveScope(db, userID)
	if err != nil {
		return nil, err
	}

	var menus []*model.Menu
	query := db.Where("status = ?", model.StatusActive)
	if !scope.IsFullAccess {
		query = query.Where("id IN (?)", scope.MenuIDs)
	}
	if err := query.Find(&menus).Error; err != nil {
		return nil, err
	}
	return model.BuildTree(menus), nil
}
