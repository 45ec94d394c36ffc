package controller

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/service/singleton"
)

// List permission
// @Summary List permission
// @Security BearerAuth
// @Schemes
// @Description 平铺列表，树形用 /permission/tree
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[[]model.Permission]
// @Router /permission [get]
func listPermission(c *gin.Context) ([]*model.Permission, error) {
	var perms []*model.Permission
	if err := singleton.DB.Order("sort, id").Find(&perms).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return perms, nil
}

// Permission tree
// @Summary Permission tree
// @Security BearerAuth
// @Schemes
// @Description 生效权限按 parent_id 组装成树
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[[]model.Permission]
// @Router /permission/tree [get]
func permissionTree(c *gin.Context) ([]*model.Permission, error) {
	var perms []*model.Permission
	if err := singleton.DB.Where("status = ?", model.StatusActive).Find(&perms).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return model.BuildTree(perms), nil
}

func validatePermissionType(t string) error {
	switch t {
	case model.PermissionTypeMenu, model.PermissionTypeButton, model.PermissionTypeAPI:
		return nil
	}
	return errors.New("invalid permission type")
}

// Create permission
// @Summary Create permission
// @Security BearerAuth
// @Schemes
// @Description 父节点必须存在
// @Tags auth required
// @Accept json
// @param request body model.PermissionForm true "Permission Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[uint64]
// @Router /permission [post]
func createPermission(c *gin.Context) (uint64, error) {
	if _, err := requirePrivileged(c); err != nil {
		return 0, err
	}

	var pf model.PermissionForm
	if err := c.ShouldBindJSON(&pf); err != nil {
		return 0, err
	}
	if pf.Name == "" || pf.Code == "" {
		return 0, errors.New("name and code can't be empty")
	}
	if err := validatePermissionType(pf.Type); err != nil {
		return 0, err
	}
	if pf.ParentID != nil {
		var parent model.Permission
		if err := singleton.DB.First(&parent, *pf.ParentID).Error; err != nil {
			return 0, errors.New("parent permission not found")
		}
	}

	p := model.Permission{
		Name:        pf.Name,
		Code:        pf.Code,
		Type:        pf.Type,
		ParentID:    pf.ParentID,
		Path:        pf.Path,
		Component:   pf.Component,
		Icon:        pf.Icon,
		Sort:        pf.Sort,
		Status:      pf.Status,
		Description: pf.Description,
	}
	if p.Status == "" {
		p.Status = model.StatusActive
	}
	if err := singleton.DB.Create(&p).Error; err != nil {
		return 0, newGormError("%v", err)
	}
	return p.ID, nil
}

// Edit permission
// @Summary Edit permission
// @Security BearerAuth
// @Schemes
// @Description 改父节点时校验不成环
// @Tags auth required
// @Accept json
// @Param id path uint true "Permission ID"
// @param request body model.PermissionForm true "Permission Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /permission/{id} [patch]
func updatePermission(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	var pf model.PermissionForm
	if err := c.ShouldBindJSON(&pf); err != nil {
		return nil, err
	}

	var p model.Permission
	if err := singleton.DB.First(&p, id).Error; err != nil {
		return nil, errors.New("permission not found")
	}

	if pf.ParentID != nil {
		if *pf.ParentID == id {
			return nil, model.ErrParentCycle
		}
		var parent model.Permission
		if err := singleton.DB.First(&parent, *pf.ParentID).Error; err != nil {
			return nil, errors.New("parent permission not found")
		}
		var all []*model.Permission
		if err := singleton.DB.Find(&all).Error; err != nil {
			return nil, newGormError("%v", err)
		}
		if err := model.CheckParentCycle(all, id, *pf.ParentID); err != nil {
			return nil, err
		}
	}

	p.Name = pf.Name
	p.Code = pf.Code
	if pf.Type != "" {
		if err := validatePermissionType(pf.Type); err != nil {
			return nil, err
		}
		p.Type = pf.Type
	}
	p.ParentID = pf.ParentID
	p.Path = pf.Path
	p.Component = pf.Component
	p.Icon = pf.Icon
	p.Sort = pf.Sort
	if pf.Status != "" {
		p.Status = pf.Status
	}
	p.Description = pf.Description

	if err := singleton.DB.Save(&p).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Batch delete permissions
// @Summary Batch delete permissions
// @Security BearerAuth
// @Schemes
// @Description 子节点挂着时拒绝，连带清掉角色绑定
// @Tags auth required
// @Accept json
// @param request body []uint64 true "id list"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /batch-delete/permission [post]
func batchDeletePermission(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	var ids []uint64
	if err := c.ShouldBindJSON(&ids); err != nil {
		return nil, err
	}

	var childCount int64
	if err := singleton.DB.Model(&model.Permission{}).
		Where("parent_id IN (?) AND id NOT IN (?)", ids, ids).
		Count(&childCount).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	if childCount > 0 {
		return nil, errors.New("permission still has children")
	}

	err := singleton.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&model.Permission{}, "id IN (?)", ids).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.RolePermission{}, "permission_id IN (?)", ids).Error
	})
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}
