package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gmboard/gmboard/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		model.User{}, model.Role{}, model.UserRole{},
		model.Permission{}, model.RolePermission{},
		model.Menu{}, model.GameServer{}, model.OperationPermission{},
		model.StaffPermission{},
		model.RankedPlayer{}, model.RankedGuild{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@x", Status: model.StatusActive}
	require.NoError(t, db.Create(u).Error)
	return u
}

func createRole(t *testing.T, db *gorm.DB, code string, level uint8, status string) *model.Role {
	t.Helper()
	r := &model.Role{Name: code, Code: code, Level: level, Status: status}
	require.NoError(t, db.Create(r).Error)
	return r
}

func assignRole(t *testing.T, db *gorm.DB, userID, roleID uint64) {
	t.Helper()
	require.NoError(t, db.Create(&model.UserRole{UserID: userID, RoleID: roleID}).Error)
}

func createPermission(t *testing.T, db *gorm.DB, code, status string) *model.Permission {
	t.Helper()
	p := &model.Permission{Name: code, Code: code, Type: model.PermissionTypeAPI, Status: status}
	require.NoError(t, db.Create(p).Error)
	return p
}

func grantPermission(t *testing.T, db *gorm.DB, roleID, permID uint64) {
	t.Helper()
	require.NoError(t, db.Create(&model.RolePermission{RoleID: roleID, PermissionID: permID}).Error)
}

func TestResolvePermissionsNoRole(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "nobody")

	codes, err := ResolvePermissions(db, u.ID)

	assert.NoError(t, err)
	assert.Equal(t, []string{}, codes)
}

func TestResolvePermissionsUnion(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "worker")

	active := createRole(t, db, "ops", model.RoleLevelStaff, model.StatusActive)
	disabled := createRole(t, db, "legacy", model.RoleLevelStaff, model.StatusInactive)
	assignRole(t, db, u.ID, active.ID)
	assignRole(t, db, u.ID, disabled.ID)

	view := createPermission(t, db, "ranking:view", model.StatusActive)
	edit := createPermission(t, db, "ranking:edit", model.StatusActive)
	retired := createPermission(t, db, "ranking:retired", model.StatusInactive)
	secret := createPermission(t, db, "system:secret", model.StatusActive)

	grantPermission(t, db, active.ID, view.ID)
	grantPermission(t, db, active.ID, edit.ID)
	grantPermission(t, db, active.ID, retired.ID) // 权限已停用，装载时剔除
	grantPermission(t, db, disabled.ID, secret.ID)

	codes, err := ResolvePermissions(db, u.ID)

	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"ranking:view", "ranking:edit"}, codes)
}

func seedScopeCatalogs(t *testing.T, db *gorm.DB) {
	t.Helper()
	menus := []model.Menu{
		{Name: "仪表盘", Code: "dashboard", Sort: 1, Status: model.StatusActive},
		{Name: "排行榜", Code: "ranking", Sort: 2, Status: model.StatusActive},
		{Name: "停用菜单", Code: "legacy", Sort: 3, Status: model.StatusInactive},
	}
	for i := range menus {
		require.NoError(t, db.Create(&menus[i]).Error)
	}
	servers := []model.GameServer{
		{Name: "Server-A", Code: "a", Status: model.StatusActive, Sort: 1},
		{Name: "Server-B", Code: "b", Status: model.StatusActive, Sort: 2},
		{Name: "Server-C", Code: "c", Status: model.StatusInactive, Sort: 3},
	}
	for i := range servers {
		require.NoError(t, db.Create(&servers[i]).Error)
	}
	ops := []model.OperationPermission{
		{Name: "查看", Code: "view"},
		{Name: "编辑", Code: "edit"},
	}
	for i := range ops {
		require.NoError(t, db.Create(&ops[i]).Error)
	}
}

func TestResolveScopePrivileged(t *testing.T) {
	db := newTestDB(t)
	seedScopeCatalogs(t, db)
	u := createUser(t, db, "boss")
	admin := createRole(t, db, "admin", model.RoleLevelAdmin, model.StatusActive)
	assignRole(t, db, u.ID, admin.ID)

	scope, err := ResolveScope(db, u.ID)

	assert.NoError(t, err)
	assert.True(t, scope.IsFullAccess)
	assert.Equal(t, []uint64{1, 2}, scope.MenuIDs)     // 停用菜单不在内
	assert.Equal(t, []uint64{1, 2}, scope.ServerIDs)   // 停用区服不在内
	assert.Equal(t, []uint64{1, 2}, scope.OperationIDs)
}

func TestResolveScopeStaffWithoutGrantRow(t *testing.T) {
	db := newTestDB(t)
	seedScopeCatalogs(t, db)
	u := createUser(t, db, "newbie")
	staff := createRole(t, db, "staff", model.RoleLevelStaff, model.StatusActive)
	assignRole(t, db, u.ID, staff.ID)

	scope, err := ResolveScope(db, u.ID)

	assert.NoError(t, err)
	assert.False(t, scope.IsFullAccess)
	assert.Equal(t, []uint64{model.DashboardMenuID}, scope.MenuIDs)
	assert.Equal(t, []uint64{}, scope.ServerIDs)
	assert.Equal(t, []uint64{}, scope.OperationIDs)
}

func TestResolveScopeStaffGrant(t *testing.T) {
	db := newTestDB(t)
	seedScopeCatalogs(t, db)
	u := createUser(t, db, "worker")
	staff := createRole(t, db, "staff", model.RoleLevelStaff, model.StatusActive)
	assignRole(t, db, u.ID, staff.ID)

	require.NoError(t, db.Create(&model.StaffPermission{
		UserID:       u.ID,
		MenuIDs:      datatypes.JSON(`[2]`),
		ServerIDs:    datatypes.JSON(`"[2]"`), // 字符串二次编码的历史行
		OperationIDs: datatypes.JSON(`[1,2`),  // 脏数据
	}).Error)

	scope, err := ResolveScope(db, u.ID)

	assert.NoError(t, err)
	assert.False(t, scope.IsFullAccess)
	// 仪表盘永远在内
	assert.Equal(t, []uint64{model.DashboardMenuID, 2}, scope.MenuIDs)
	assert.Equal(t, []uint64{2}, scope.ServerIDs)
	assert.Equal(t, []uint64{}, scope.OperationIDs)
}

func TestResolveScopeNoRole(t *testing.T) {
	db := newTestDB(t)
	seedScopeCatalogs(t, db)
	u := createUser(t, db, "ghost")

	scope, err := ResolveScope(db, u.ID)

	assert.NoError(t, err)
	assert.False(t, scope.IsFullAccess)
	assert.Equal(t, []uint64{model.DashboardMenuID}, scope.MenuIDs)
}

func seedRankingRows(t *testing.T, db *gorm.DB) {
	t.Helper()
	players := []model.RankedPlayer{
		{RoleName: "p1", ServerName: "Server-A", CombatPower: 100},
		{RoleName: "p2", ServerName: "Server-B", CombatPower: 90},
	}
	for i := range players {
		require.NoError(t, db.Create(&players[i]).Error)
	}
	guilds := []model.RankedGuild{
		{Name: "g1", ServerName: "Server-B", Power: 500},
		{Name: "g2", ServerName: "Server-D", Power: 300},
	}
	for i := range guilds {
		require.NoError(t, db.Create(&guilds[i]).Error)
	}
}

func TestAllowedServersNoRole(t *testing.T) {
	db := newTestDB(t)
	seedScopeCatalogs(t, db)
	seedRankingRows(t, db)
	u := createUser(t, db, "ghost")

	names, err := AllowedServers(db, u.ID)

	assert.NoError(t, err)
	assert.Equal(t, []string{}, names)
}

func TestAllowedServersPrivileged(t *testing.T) {
	db := newTestDB(t)
	seedScopeCatalogs(t, db)
	seedRankingRows(t, db)
	u := createUser(t, db, "boss")
	super := createRole(t, db, "super_admin", model.RoleLevelSuperAdmin, model.StatusActive)
	assignRole(t, db, u.ID, super.ID)

	names, err := AllowedServers(db, u.ID)

	assert.NoError(t, err)
	// 排行数据两张表里出现过的区服名并集
	assert.Equal(t, []string{"Server-A", "Server-B", "Server-D"}, names)
}

func TestAllowedServersStaff(t *testing.T) {
	db := newTestDB(t)
	seedScopeCatalogs(t, db)
	seedRankingRows(t, db)
	u := createUser(t, db, "worker")
	staff := createRole(t, db, "staff", model.RoleLevelStaff, model.StatusActive)
	assignRole(t, db, u.ID, staff.ID)
	require.NoError(t, db.Create(&model.StaffPermission{
		UserID:    u.ID,
		ServerIDs: datatypes.JSON(`[2]`), // seedScopeCatalogs 里 id 2 是 Server-B
	}).Error)

	names, err := AllowedServers(db, u.ID)

	assert.NoError(t, err)
	assert.Equal(t, []string{"Server-B"}, names)

	// 白名单之外的排行数据一行都不可见
	var rows []model.RankedPlayer
	require.NoError(t, db.Where("server_name IN (?)", names).Find(&rows).Error)
	assert.Len(t, rows, 1)
	assert.Equal(t, "Server-B", rows[0].ServerName)

	var outside []model.RankedPlayer
	require.NoError(t, db.Where("server_name IN (?)", []string{}).Find(&outside).Error)
	assert.Empty(t, outside)
}

func TestAllowedServersFailClosed(t *testing.T) {
	db := newTestDB(t)
	seedScopeCatalogs(t, db)
	seedRankingRows(t, db)
	u := createUser(t, db, "worker")
	staff := createRole(t, db, "staff", model.RoleLevelStaff, model.StatusActive)
	assignRole(t, db, u.ID, staff.ID)

	// 没有任何授权行：空名单，不是全量
	names, err := AllowedServers(db, u.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{}, names)

	// 授权指向停用区服：同样拿不到
	require.NoError(t, db.Create(&model.StaffPermission{
		UserID:    u.ID,
		ServerIDs: datatypes.JSON(`[3]`),
	}).Error)
	names, err = AllowedServers(db, u.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{}, names)
}

func TestUserMenus(t *testing.T) {
	db := newTestDB(t)
	parent := model.Menu{Name: "仪表盘", Code: "dashboard", Sort: 1, Status: model.StatusActive}
	require.NoError(t, db.Create(&parent).Error)
	sub := model.Menu{Name: "排行榜", Code: "ranking", Sort: 1, Status: model.StatusActive, ParentID: &parent.ID}
	require.NoError(t, db.Create(&sub).Error)
	hidden := model.Menu{Name: "系统", Code: "system", Sort: 2, Status: model.StatusActive}
	require.NoError(t, db.Create(&hidden).Error)

	u := createUser(t, db, "worker")
	staff := createRole(t, db, "staff", model.RoleLevelStaff, model.StatusActive)
	assignRole(t, db, u.ID, staff.ID)
	require.NoError(t, db.Create(&model.StaffPermission{
		UserID:  u.ID,
		MenuIDs: datatypes.JSON(`[2]`),
	}).Error)

	tree, err := UserMenus(db, u.ID)

	assert.NoError(t, err)
	assert.Len(t, tree, 1)
	assert.Equal(t, "dashboard", tree[0].Code)
	assert.Len(t, tree[0].Children, 1)
	assert.Equal(t, "ranking", tree[0].Children[0].Code)
}

func TestResolveScopeDataStaff(t *testing.T) {
	db := newTestDB(t)
	seedScopeCatalogs(t, db)
	u := createUser(t, db, "worker")
	staff := createRole(t, db, "staff", model.RoleLevelStaff, model.StatusActive)
	assignRole(t, db, u.ID, staff.ID)
	require.NoError(t, db.Create(&model.StaffPermission{
		UserID:       u.ID,
		MenuIDs:      datatypes.JSON(`[2]`),
		ServerIDs:    datatypes.JSON(`[1]`),
		OperationIDs: datatypes.JSON(`[1]`),
	}).Error)

	resp, err := ResolveScopeData(db, u.ID)

	assert.NoError(t, err)
	assert.Equal(t, "staff", resp.Role.Code)
	assert.False(t, resp.Permissions.IsFullAccess)
	assert.Len(t, resp.Permissions.Menus, 2) // 仪表盘 + 排行榜
	assert.Len(t, resp.Permissions.Servers, 1)
	assert.Equal(t, "Server-A", resp.Permissions.Servers[0].Name)
	assert.Len(t, resp.Permissions.Operations, 1)
}
