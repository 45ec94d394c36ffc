package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/pkg/utils"
	"github.com/gmboard/gmboard/service/rbac"
	"github.com/gmboard/gmboard/service/singleton"
)

// Get staff permission
// @Summary Get the scoped grant of a staff member
// @Security BearerAuth
// @Schemes
// @Description 没配置过返回空数组，不报错
// @Tags auth required
// @Param id path uint true "User ID"
// @Produce json
// @Success 200 {object} model.CommonResponse[model.StaffPermissionResponse]
// @Router /staff-permission/{id} [get]
func getStaffPermission(c *gin.Context) (*model.StaffPermissionResponse, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	id, err := parseID(c)
	if err != nil {
		return nil, err
	}

	var sp model.StaffPermission
	err = singleton.DB.First(&sp, "user_id = ?", id).Error
	if err == gorm.ErrRecordNotFound {
		return &model.StaffPermissionResponse{
			MenuIDs:      []uint64{},
			ServerIDs:    []uint64{},
			OperationIDs: []uint64{},
		}, nil
	}
	if err != nil {
		return nil, newGormError("%v", err)
	}

	return &model.StaffPermissionResponse{
		MenuIDs:      sp.DecodeMenuIDs(),
		ServerIDs:    sp.DecodeServerIDs(),
		OperationIDs: sp.DecodeOperationIDs(),
	}, nil
}

// Set staff permission
// @Summary Replace the scoped grant of a staff member
// @Security BearerAuth
// @Schemes
// @Description 整行覆盖。管理层角色不走员工授权，直接拒绝配置。
// @Tags auth required
// @Accept json
// @Param id path uint true "User ID"
// @param request body model.StaffPermissionForm true "Staff Permission Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /staff-permission/{id} [post]
func setStaffPermission(c *gin.Context) (any, error) {
	admin, err := requirePrivileged(c)
	if err != nil {
		return nil, err
	}

	id, err := parseID(c)
	if err != nil {
		return nil, err
	}

	var target model.User
	if err := singleton.DB.First(&target, id).Error; err != nil {
		return nil, errors.New("user not found")
	}

	role, err := rbac.UserRole(singleton.DB, id)
	if err != nil {
		return nil, newGormError("%v", err)
	}
	if role != nil && role.IsPrivileged() {
		return nil, errors.New("target user already has full access")
	}

	var form model.StaffPermissionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		return nil, err
	}
	if form.MenuIDs == nil {
		form.MenuIDs = []uint64{}
	}
	if form.ServerIDs == nil {
		form.ServerIDs = []uint64{}
	}
	if form.OperationIDs == nil {
		form.OperationIDs = []uint64{}
	}

	menuIDs, err := utils.Json.Marshal(form.MenuIDs)
	if err != nil {
		return nil, err
	}
	serverIDs, err := utils.Json.Marshal(form.ServerIDs)
	if err != nil {
		return nil, err
	}
	operationIDs, err := utils.Json.Marshal(form.OperationIDs)
	if err != nil {
		return nil, err
	}

	sp := model.StaffPermission{
		UserID:       id,
		MenuIDs:      datatypes.JSON(menuIDs),
		ServerIDs:    datatypes.JSON(serverIDs),
		OperationIDs: datatypes.JSON(operationIDs),
		CreatedBy:    admin.ID,
	}
	err = singleton.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"menu_ids", "server_ids", "operation_ids", "created_by", "updated_at"}),
	}).Create(&sp).Error
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Menu catalog
// @Summary Active menus for the grant picker
// @Security BearerAuth
// @Schemes
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[[]model.Menu]
// @Router /catalog/menu [get]
func catalogMenu(c *gin.Context) ([]*model.Menu, error) {
	var menus []*model.Menu
	if err := singleton.DB.Where("status = ?", model.StatusActive).
		Order("sort, id").Find(&menus).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return menus, nil
}

// Server catalog
// @Summary Active game servers for the grant picker
// @Security BearerAuth
// @Schemes
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[[]model.GameServer]
// @Router /catalog/server [get]
func catalogServer(c *gin.Context) ([]*model.GameServer, error) {
	var servers []*model.GameServer
	if err := singleton.DB.Where("status = ?", model.StatusActive).
		Order("sort, id").Find(&servers).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return servers, nil
}

// Operation catalog
// @Summary Operation permissions for the grant picker
// @Security BearerAuth
// @Schemes
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[[]model.OperationPermission]
// @Router /catalog/operation [get]
func catalogOperation(c *gin.Context) ([]*model.OperationPermission, error) {
	var ops []*model.OperationPermission
	if err := singleton.DB.Order("id").Find(&ops).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return ops, nil
}

// Get user permission
// @Summary Role and resolved scope of a user
// @Security BearerAuth
// @Schemes
// @Description 查自己随便查，查别人要管理权限
// @Tags auth required
// @Param id path uint true "User ID"
// @Produce json
// @Success 200 {object} model.CommonResponse[model.UserPermissionResponse]
// @Router /user-permission/{id} [get]
func getUserPermission(c *gin.Context) (*model.UserPermissionResponse, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}

	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	if id != user.ID {
		if _, err := requirePrivileged(c); err != nil {
			return nil, err
		}
	}

	resp, err := rbac.ResolveScopeData(singleton.DB, id)
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return resp, nil
}
