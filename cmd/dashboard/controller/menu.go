package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/service/rbac"
	"github.com/gmboard/gmboard/service/singleton"
)

// Menu tree
// @Summary Full menu tree
// @Security BearerAuth
// @Schemes
// @Description 全量生效菜单树，配置员工授权时用
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[[]model.Menu]
// @Router /menu [get]
func listMenu(c *gin.Context) ([]*model.Menu, error) {
	var menus []*model.Menu
	if err := singleton.DB.Where("status = ?", model.StatusActive).Find(&menus).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return model.BuildTree(menus), nil
}

// User menu tree
// @Summary Menu tree visible to the caller
// @Security BearerAuth
// @Schemes
// @Description 按授权范围过滤后的菜单树，仪表盘永远可见
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[[]model.Menu]
// @Router /user-menu [get]
func userMenu(c *gin.Context) ([]*model.Menu, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	menus, err := rbac.UserMenus(singleton.DB, user.ID)
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return menus, nil
}

// Create menu
// @Summary Create menu
// @Security BearerAuth
// @Schemes
// @Tags auth required
// @Accept json
// @param request body model.MenuForm true "Menu Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[uint64]
// @Router /menu [post]
func createMenu(c *gin.Context) (uint64, error) {
	if _, err := requirePrivileged(c); err != nil {
		return 0, err
	}

	var mf model.MenuForm
	if err := c.ShouldBindJSON(&mf); err != nil {
		return 0, err
	}
	if mf.Name == "" || mf.Code == "" {
		return 0, errors.New("name and code can't be empty")
	}
	if mf.ParentID != nil {
		var parent model.Menu
		if err := singleton.DB.First(&parent, *mf.ParentID).Error; err != nil {
			return 0, errors.New("parent menu not found")
		}
	}

	m := model.Menu{
		Name:      mf.Name,
		Code:      mf.Code,
		Path:      mf.Path,
		Component: mf.Component,
		Icon:      mf.Icon,
		ParentID:  mf.ParentID,
		Sort:      mf.Sort,
		Status:    mf.Status,
	}
	if m.Status == "" {
		m.Status = model.StatusActive
	}
	if err := singleton.DB.Create(&m).Error; err != nil {
		return 0, newGormError("%v", err)
	}
	return m.ID, nil
}

// Edit menu
// @Summary Edit menu
// @Security BearerAuth
// @Schemes
// @Description 改父节点时校验不成环
// @Tags auth required
// @Accept json
// @Param id path uint true "Menu ID"
// @param request body model.MenuForm true "Menu Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /menu/{id} [patch]
func updateMenu(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	var mf model.MenuForm
	if err := c.ShouldBindJSON(&mf); err != nil {
		return nil, err
	}

	var m model.Menu
	if err := singleton.DB.First(&m, id).Error; err != nil {
		return nil, errors.New("menu not found")
	}

	if mf.ParentID != nil {
		if *mf.ParentID == id {
			return nil, model.ErrParentCycle
		}
		var parent model.Menu
		if err := singleton.DB.First(&parent, *mf.ParentID).Error; err != nil {
			return nil, errors.New("parent menu not found")
		}
		var all []*model.Menu
		if err := singleton.DB.Find(&all).Error; err != nil {
			return nil, newGormError("%v", err)
		}
		if err := model.CheckParentCycle(all, id, *mf.ParentID); err != nil {
			return nil, err
		}
	}

	m.Name = mf.Name
	m.Code = mf.Code
	m.Path = mf.Path
	m.Component = mf.Component
	m.Icon = mf.Icon
	m.ParentID = mf.ParentID
	m.Sort = mf.Sort
	if mf.Status != "" {
		m.Status = mf.Status
	}

	if err := singleton.DB.Save(&m).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Delete menu
// @Summary Delete menu
// @Security BearerAuth
// @Schemes
// @Description 还有子菜单时拒绝删除
// @Tags auth required
// @Param id path uint true "Menu ID"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /menu/{id} [delete]
func deleteMenu(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	if id == model.DashboardMenuID {
		return nil, errors.New("dashboard menu can't be deleted")
	}

	var childCount int64
	if err := singleton.DB.Model(&model.Menu{}).
		Where("parent_id = ?", id).
		Count(&childCount).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	if childCount > 0 {
		return nil, errors.New("menu still has children")
	}

	if err := singleton.DB.Unscoped().Delete(&model.Menu{}, id).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}
