package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/service/singleton"
)

// List role
// @Summary List role
// @Security BearerAuth
// @Schemes
// @Description List role
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[[]model.Role]
// @Router /role [get]
func listRole(c *gin.Context) ([]*model.Role, error) {
	var roles []*model.Role
	if err := singleton.DB.Order("level, sort, id").Find(&roles).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return roles, nil
}

// Create role
// @Summary Create role
// @Security BearerAuth
// @Schemes
// @Description Create role
// @Tags auth required
// @Accept json
// @param request body model.RoleForm true "Role Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[uint64]
// @Router /role [post]
func createRole(c *gin.Context) (uint64, error) {
	if _, err := requirePrivileged(c); err != nil {
		return 0, err
	}

	var rf model.RoleForm
	if err := c.ShouldBindJSON(&rf); err != nil {
		return 0, err
	}
	if rf.Name == "" || rf.Code == "" {
		return 0, errors.New("name and code can't be empty")
	}
	if rf.Level < model.RoleLevelSuperAdmin || rf.Level > model.RoleLevelStaff {
		return 0, errors.New("invalid role level")
	}

	r := model.Role{
		Name:        rf.Name,
		Code:        rf.Code,
		Level:       rf.Level,
		Description: rf.Description,
		Status:      rf.Status,
		Sort:        rf.Sort,
	}
	if r.Status == "" {
		r.Status = model.StatusActive
	}
	if err := singleton.DB.Create(&r).Error; err != nil {
		return 0, newGormError("%v", err)
	}
	return r.ID, nil
}

// Edit role
// @Summary Edit role
// @Security BearerAuth
// @Schemes
// @Description Edit role
// @Tags auth required
// @Accept json
// @Param id path uint true "Role ID"
// @param request body model.RoleForm true "Role Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /role/{id} [patch]
func updateRole(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	var rf model.RoleForm
	if err := c.ShouldBindJSON(&rf); err != nil {
		return nil, err
	}

	var r model.Role
	if err := singleton.DB.First(&r, id).Error; err != nil {
		return nil, errors.New("role not found")
	}

	r.Name = rf.Name
	r.Code = rf.Code
	if rf.Level != 0 {
		if rf.Level < model.RoleLevelSuperAdmin || rf.Level > model.RoleLevelStaff {
			return nil, errors.New("invalid role level")
		}
		r.Level = rf.Level
	}
	r.Description = rf.Description
	if rf.Status != "" {
		r.Status = rf.Status
	}
	r.Sort = rf.Sort

	if err := singleton.DB.Save(&r).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Batch delete roles
// @Summary Batch delete roles
// @Security BearerAuth
// @Schemes
// @Description 连带清掉角色的权限绑定与用户绑定
// @Tags auth required
// @Accept json
// @param request body []uint64 true "id list"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /batch-delete/role [post]
func batchDeleteRole(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	var ids []uint64
	if err := c.ShouldBindJSON(&ids); err != nil {
		return nil, err
	}

	err := singleton.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&model.Role{}, "id IN (?)", ids).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Delete(&model.RolePermission{}, "role_id IN (?)", ids).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.UserRole{}, "role_id IN (?)", ids).Error
	})
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// List role permissions
// @Summary List permissions bound to a role
// @Security BearerAuth
// @Schemes
// @Tags auth required
// @Param id path uint true "Role ID"
// @Produce json
// @Success 200 {object} model.CommonResponse[[]uint64]
// @Router /role/{id}/permission [get]
func listRolePermission(c *gin.Context) ([]uint64, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}

	var permIDs []uint64
	if err := singleton.DB.Model(&model.RolePermission{}).
		Where("role_id = ?", id).
		Order("permission_id").
		Pluck("permission_id", &permIDs).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	if permIDs == nil {
		permIDs = []uint64{}
	}
	return permIDs, nil
}

// Set role permissions
// @Summary Replace the permission bindings of a role
// @Security BearerAuth
// @Schemes
// @Description 整体覆盖，不做增量
// @Tags auth required
// @Param id path uint true "Role ID"
// @param request body model.RolePermissionForm true "Permission IDs"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /role/{id}/permission [post]
func setRolePermission(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	var form model.RolePermissionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		return nil, err
	}

	var role model.Role
	if err := singleton.DB.First(&role, id).Error; err != nil {
		return nil, errors.New("role not found")
	}

	err = singleton.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&model.RolePermission{}, "role_id = ?", id).Error; err != nil {
			return err
		}
		for _, pid := range form.PermissionIDs {
			if err := tx.Create(&model.RolePermission{RoleID: id, PermissionID: pid}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Assign role
// @Summary Assign a role to a user
// @Security BearerAuth
// @Schemes
// @Description 一人一角色，重复分配覆盖旧绑定
// @Tags auth required
// @Accept json
// @param request body model.UserRoleForm true "User Role Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /user-role [post]
func assignUserRole(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	var form model.UserRoleForm
	if err := c.ShouldBindJSON(&form); err != nil {
		return nil, err
	}

	var user model.User
	if err := singleton.DB.First(&user, form.UserID).Error; err != nil {
		return nil, errors.New("user not found")
	}
	var role model.Role
	if err := singleton.DB.First(&role, form.RoleID).Error; err != nil {
		return nil, errors.New("role not found")
	}

	err := singleton.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&model.UserRole{}, "user_id = ?", form.UserID).Error; err != nil {
			return err
		}
		return tx.Create(&model.UserRole{UserID: form.UserID, RoleID: form.RoleID}).Error
	})
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Get user role
// @Summary Get the role of a user
// @Security BearerAuth
// @Schemes
// @Tags auth required
// @Param id path uint true "User ID"
// @Produce json
// @Success 200 {object} model.CommonResponse[model.Role]
// @Router /user-role/{id} [get]
func getUserRole(c *gin.Context) (*model.Role, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}

	var role model.Role
	err = singleton.DB.Model(&model.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", id).
		Order("roles.level ASC").
		First(&role).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return &role, nil
}

// Remove user role
// @Summary Remove the role binding of a user
// @Security BearerAuth
// @Schemes
// @Tags auth required
// @Param id path uint true "User ID"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /user-role/{id} [delete]
func removeUserRole(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	if err := singleton.DB.Unscoped().Delete(&model.UserRole{}, "user_id = ?", id).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}
