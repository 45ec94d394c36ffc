package controller

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/service/rbac"
	"github.com/gmboard/gmboard/service/singleton"
)

// callerAllowedServers 调用者的区服白名单。空名单必须整页空结果，
// 绝不能摊开成全量查询。
func callerAllowedServers(c *gin.Context) ([]string, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	allow, err := rbac.AllowedServers(singleton.DB, user.ID)
	if err != nil {
		return nil, newGormError("%v", err)
	}
	return allow, nil
}

// intersectServerFilter 前端传入的区服过滤条件与白名单求交集
func intersectServerFilter(allow []string, filter string) []string {
	if filter == "" {
		return allow
	}
	for _, name := range allow {
		if name == filter {
			return []string{filter}
		}
	}
	return []string{}
}

// List ranked players
// @Summary Paged player ranking
// @Security BearerAuth
// @Schemes
// @Description 按战力降序，名次是过滤后的全表名次
// @Tags auth required
// @Param page query int false "page"
// @Param page_size query int false "page size"
// @Param keyword query string false "role name keyword"
// @Param server_name query string false "server filter"
// @Produce json
// @Success 200 {object} model.CommonResponse[model.Paginated[model.RankedPlayerItem]]
// @Router /ranking/player [get]
func listRankedPlayer(c *gin.Context) (*model.Paginated[*model.RankedPlayerItem], error) {
	page, pageSize := pagination(c)

	allow, err := callerAllowedServers(c)
	if err != nil {
		return nil, err
	}
	allow = intersectServerFilter(allow, c.Query("server_name"))
	if len(allow) == 0 {
		p := model.NewPaginated([]*model.RankedPlayerItem{}, page, pageSize, 0)
		return &p, nil
	}

	query := singleton.DB.Model(&model.RankedPlayer{}).Where("server_name IN (?)", allow)
	if keyword := c.Query("keyword"); keyword != "" {
		query = query.Where("role_name LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, newGormError("%v", err)
	}

	var players []*model.RankedPlayer
	if err := query.Order("combat_power DESC, id").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&players).Error; err != nil {
		return nil, newGormError("%v", err)
	}

	items := make([]*model.RankedPlayerItem, 0, len(players))
	for i, p := range players {
		items = append(items, &model.RankedPlayerItem{
			RankedPlayer: *p,
			Ranking:      int64((page-1)*pageSize + i + 1),
		})
	}
	paged := model.NewPaginated(items, page, pageSize, total)
	return &paged, nil
}

// List ranked guilds
// @Summary Paged guild ranking
// @Security BearerAuth
// @Schemes
// @Description 按公会战力降序
// @Tags auth required
// @Param page query int false "page"
// @Param page_size query int false "page size"
// @Param keyword query string false "guild name keyword"
// @Param server_name query string false "server filter"
// @Produce json
// @Success 200 {object} model.CommonResponse[model.Paginated[model.RankedGuildItem]]
// @Router /ranking/guild [get]
func listRankedGuild(c *gin.Context) (*model.Paginated[*model.RankedGuildItem], error) {
	page, pageSize := pagination(c)

	allow, err := callerAllowedServers(c)
	if err != nil {
		return nil, err
	}
	allow = intersectServerFilter(allow, c.Query("server_name"))
	if len(allow) == 0 {
		p := model.NewPaginated([]*model.RankedGuildItem{}, page, pageSize, 0)
		return &p, nil
	}

	query := singleton.DB.Model(&model.RankedGuild{}).Where("server_name IN (?)", allow)
	if keyword := c.Query("keyword"); keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, newGormError("%v", err)
	}

	var guilds []*model.RankedGuild
	if err := query.Order("power DESC, id").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&guilds).Error; err != nil {
		return nil, newGormError("%v", err)
	}

	items := make([]*model.RankedGuildItem, 0, len(guilds))
	for i, g := range guilds {
		items = append(items, &model.RankedGuildItem{
			RankedGuild: *g,
			Ranking:     int64((page-1)*pageSize + i + 1),
		})
	}
	paged := model.NewPaginated(items, page, pageSize, total)
	return &paged, nil
}

// Edit ranked player
// @Summary Edit a player ranking row
// @Security BearerAuth
// @Schemes
// @Description 只能改白名单区服内的数据
// @Tags auth required
// @Accept json
// @Param id path uint true "Row ID"
// @param request body model.RankedPlayerForm true "Ranked Player Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /ranking/player/{id} [patch]
func updateRankedPlayer(c *gin.Context) (any, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	var form model.RankedPlayerForm
	if err := c.ShouldBindJSON(&form); err != nil {
		return nil, err
	}

	var p model.RankedPlayer
	if err := singleton.DB.First(&p, id).Error; err != nil {
		return nil, errors.New("ranking row not found")
	}

	allow, err := callerAllowedServers(c)
	if err != nil {
		return nil, err
	}
	if !containsString(allow, p.ServerName) {
		return nil, errForbidden
	}
	if form.ServerName != "" && !containsString(allow, form.ServerName) {
		return nil, errForbidden
	}

	if form.RoleName != "" {
		p.RoleName = form.RoleName
	}
	if form.Profession != "" {
		p.Profession = form.Profession
	}
	if form.CombatPower != nil {
		p.CombatPower = *form.CombatPower
	}
	if form.ServerName != "" {
		p.ServerName = form.ServerName
	}

	if err := singleton.DB.Save(&p).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Edit ranked guild
// @Summary Edit a guild ranking row
// @Security BearerAuth
// @Schemes
// @Description 只能改白名单区服内的数据
// @Tags auth required
// @Accept json
// @Param id path uint true "Row ID"
// @param request body model.RankedGuildForm true "Ranked Guild Form"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /ranking/guild/{id} [patch]
func updateRankedGuild(c *gin.Context) (any, error) {
	id, err := parseID(c)
	if err != nil {
		return nil, err
	}
	var form model.RankedGuildForm
	if err := c.ShouldBindJSON(&form); err != nil {
		return nil, err
	}

	var g model.RankedGuild
	if err := singleton.DB.First(&g, id).Error; err != nil {
		return nil, errors.New("ranking row not found")
	}

	allow, err := callerAllowedServers(c)
	if err != nil {
		return nil, err
	}
	if !containsString(allow, g.ServerName) {
		return nil, errForbidden
	}
	if form.ServerName != "" && !containsString(allow, form.ServerName) {
		return nil, errForbidden
	}

	if form.Name != "" {
		g.Name = form.Name
	}
	if form.Power != nil {
		g.Power = *form.Power
	}
	if form.ServerName != "" {
		g.ServerName = form.ServerName
	}
	if form.MasterName != "" {
		g.MasterName = form.MasterName
	}

	if err := singleton.DB.Save(&g).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Batch delete ranked players
// @Summary Batch delete player ranking rows
// @Security BearerAuth
// @Schemes
// @Description 白名单之外的行直接拒绝整批
// @Tags auth required
// @Accept json
// @param request body []uint64 true "id list"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /batch-delete/ranking/player [post]
func batchDeleteRankedPlayer(c *gin.Context) (any, error) {
	var ids []uint64
	if err := c.ShouldBindJSON(&ids); err != nil {
		return nil, err
	}

	allow, err := callerAllowedServers(c)
	if err != nil {
		return nil, err
	}

	var rows []model.RankedPlayer
	if err := singleton.DB.Find(&rows, "id IN (?)", ids).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	for _, row := range rows {
		if !containsString(allow, row.ServerName) {
			return nil, errForbidden
		}
	}

	if err := singleton.DB.Unscoped().Delete(&model.RankedPlayer{}, "id IN (?)", ids).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

// Batch delete ranked guilds
// @Summary Batch delete guild ranking rows
// @Security BearerAuth
// @Schemes
// @Description 白名单之外的行直接拒绝整批
// @Tags auth required
// @Accept json
// @param request body []uint64 true "id list"
// @Produce json
// @Success 200 {object} model.CommonResponse[any]
// @Router /batch-delete/ranking/guild [post]
func batchDeleteRankedGuild(c *gin.Context) (any, error) {
	var ids []uint64
	if err := c.ShouldBindJSON(&ids); err != nil {
		return nil, err
	}

	allow, err := callerAllowedServers(c)
	if err != nil {
		return nil, err
	}

	var rows []model.RankedGuild
	if err := singleton.DB.Find(&rows, "id IN (?)", ids).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	for _, row := range rows {
		if !containsString(allow, row.ServerName) {
			return nil, errForbidden
		}
	}

	if err := singleton.DB.Unscoped().Delete(&model.RankedGuild{}, "id IN (?)", ids).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	return nil, nil
}

const rankingStatsCacheTTL = time.Minute

// Ranking stats
// @Summary Aggregates over the caller's visible ranking data
// @Security BearerAuth
// @Schemes
// @Description 短 TTL 缓存，按白名单区分缓存键
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[model.RankingStats]
// @Router /ranking/stats [get]
func rankingStats(c *gin.Context) (*model.RankingStats, error) {
	allow, err := callerAllowedServers(c)
	if err != nil {
		return nil, err
	}

	cacheKey := "ranking/stats/" + strings.Join(allow, ",")
	if cached, ok := singleton.Cache.Get(cacheKey); ok {
		return cached.(*model.RankingStats), nil
	}

	stats := &model.RankingStats{
		PlayersPerServer: map[string]int64{},
		GuildsPerServer:  map[string]int64{},
	}
	if len(allow) == 0 {
		return stats, nil
	}

	if err := singleton.DB.Model(&model.RankedPlayer{}).
		Where("server_name IN (?)", allow).
		Count(&stats.TotalPlayers).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	if err := singleton.DB.Model(&model.RankedGuild{}).
		Where("server_name IN (?)", allow).
		Count(&stats.TotalGuilds).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	stats.TotalServers = int64(len(allow))
	if err := singleton.DB.Model(&model.RankedPlayer{}).
		Where("server_name IN (?)", allow).
		Distinct("profession").
		Count(&stats.TotalProfessions).Error; err != nil {
		return nil, newGormError("%v", err)
	}

	// 空表时 MAX 是 NULL，COALESCE 落回 0
	if err := singleton.DB.Model(&model.RankedPlayer{}).
		Where("server_name IN (?)", allow).
		Select("COALESCE(MAX(combat_power), 0)").
		Scan(&stats.MaxCombatPower).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	if err := singleton.DB.Model(&model.RankedGuild{}).
		Where("server_name IN (?)", allow).
		Select("COALESCE(MAX(power), 0)").
		Scan(&stats.MaxGuildPower).Error; err != nil {
		return nil, newGormError("%v", err)
	}

	type serverCount struct {
		ServerName string
		Count      int64
	}
	var perServer []serverCount
	if err := singleton.DB.Model(&model.RankedPlayer{}).
		Where("server_name IN (?)", allow).
		Select("server_name, COUNT(*) AS count").
		Group("server_name").
		Scan(&perServer).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	for _, sc := range perServer {
		stats.PlayersPerServer[sc.ServerName] = sc.Count
	}
	perServer = perServer[:0]
	if err := singleton.DB.Model(&model.RankedGuild{}).
		Where("server_name IN (?)", allow).
		Select("server_name, COUNT(*) AS count").
		Group("server_name").
		Scan(&perServer).Error; err != nil {
		return nil, newGormError("%v", err)
	}
	for _, sc := range perServer {
		stats.GuildsPerServer[sc.ServerName] = sc.Count
	}

	singleton.Cache.Set(cacheKey, stats, rankingStatsCacheTTL)
	return stats, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
