package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/service/rbac"
	"github.com/gmboard/gmboard/service/singleton"
)

// List game servers
// @Summary List game servers
// @Security BearerAuth
// @Schemes
// @Description 分页，可按名称模糊与状态过滤
// @Tags auth required
// @Param page query int false "page"
// @Param page_size query int false "page size"
// @Param keyword query string false "name keyword"
// @Param status query string false "status filter"
// @Produce json
// @Success 200 {object} model.CommonResponse[model.Paginated[model.GameServer]]
// @Router /server [get]
func listServer(c *gin.Context) (*model.Paginated[*model.GameServer], error) {
	page, pageSize := pagination(c)

	query := singleton.DB.Model(&model.GameServer{})
	if keyword := c.Query("keyword"); keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, newGormError("%v", err)
	}

	var servers []*model.GameServer
	if err := query.Order("sort, id").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&servers).Error; err != nil {
		return nil, newGormError("%v", err)
	}

	p := model.NewPaginated(servers, page, pageSize, total)
	return &p, nil
}

// User servers
// @Summary Game servers visible to the caller
// @Security BearerAuth
// @Schemes
// @Description 授权范围内的区服名单，员工没授权就是空
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[[]string]
// @Router /user-server [get]
func userServer(c *gin.Context) ([]string, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	names, err := rbac.AllowedServers(singleton.DB, user.ID)
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return names, nil
}

// Create game server
// @Summary Create game server
// @Security BearerAuth
// @Schemes
// @Tags auth required
// @Accept json
// @param request body model.GameServerForm true "Game Server Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[uint64]
// @Router /server [post]
func createServer(c *gin.Context) (uint64, error) {
	if _, err := requirePrivileged(c); err != nil {
		return 0, err
	}

	var sf model.GameServerForm
	if err := c.ShouldBindJSON(&sf); err != nil {
		return 0, err
	}
	if sf.Name == "" {
		return 0, errors.New("name can't be empty")
	}

	s := model.GameServer{
		Name:        sf.Name,
		Code:        sf.Code,
		Region:      sf.Region,
		Status:      sf.Status,
		Sort:        sf.Sort,
		Description: sf.Description,
		MaxPlayers:  sf.MaxPlayers,
	}
	if s.Status == "" {
		s.Status = model.StatusActive
	}
	if err := singleton.DB.Create(&s).Error; err != nil {
		return 0, newGormError("%v", err)
	}
	return s.ID, nil
}

// Edit game server
// @Summary Edit game server
// @Security BearerAuth
// @Schemes
// @Tags auth required
// @Accept json
// @Param id path uint true "Server ID"
// @param request body model.GameServerForm true "Game Server Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /server/{id} [patch]
func updateServer(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	var sf model.GameServerForm
	if err := c.ShouldBindJSON(&sf); err != nil {
		return nil, err
	}

	var s model.GameServer
	if err := singleton.DB.First(&s, id).Error; err != nil {
		return nil, errors.New("server not found")
	}

	s.Name = sf.Name
	s.Code = sf.Code
	s.Region = sf.Region
	if sf.Status != "" {
		s.Status = sf.Status
	}
	s.Sort = sf.Sort
	s.Description = sf.Description
	s.MaxPlayers = sf.MaxPlayers

	if err := singleton.DB.Save(&s).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Batch delete game servers
// @Summary Batch delete game servers
// @Security BearerAuth
// @Schemes
// @Tags auth required
// @Accept json
// @param request body []uint64 true "id list"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /batch-delete/server [post]
func batchDeleteServer(c *gin.Context) (any, error) {
	if _, err := requirePrivileged(c); err != nil {
		return nil, err
	}

	var ids []uint64
	if err := c.ShouldBindJSON(&ids); err != nil {
		return nil, err
	}
	if err := singleton.DB.Unscoped().Delete(&model.GameServer{}, "id IN (?)", ids).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}
