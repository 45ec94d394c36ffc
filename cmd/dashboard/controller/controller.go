package controller

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/pkg/mygin"
	"github.com/gmboard/gmboard/service/rbac"
	"github.com/gmboard/gmboard/service/singleton"
)

// ServeWeb 组装路由，返回交给 graceful 托管的 http.Server
func ServeWeb() (*http.Server, error) {
	gin.SetMode(gin.ReleaseMode)
	if singleton.Conf.Debug {
		gin.SetMode(gin.DebugMode)
	}
	r := gin.Default()
	r.Use(mygin.RealIP, mygin.Waf)
	r.Use(mygin.CORS())
	if singleton.Conf.Debug {
		pprof.Register(r)
	}
	if err := routers(r); err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:    singleton.Conf.Listen,
		Handler: r,
	}, nil
}

func routers(r *gin.Engine) error {
	authMiddleware, err := jwt.New(initParams())
	if err != nil {
		return err
	}

	api := r.Group("api/v1")
	api.POST("/login", authMiddleware.LoginHandler)
	api.POST("/register", commonHandler(registerUser))

	auth := api.Group("", tokenGuard(authMiddleware), authMiddleware.MiddlewareFunc())
	auth.GET("/refresh-token", authMiddleware.RefreshHandler)

	auth.GET("/profile", commonHandler(getProfile))
	auth.POST("/profile", commonHandler(updateProfile))

	auth.GET("/user", commonHandler(listUser))
	auth.POST("/user", commonHandler(createUser))
	auth.POST("/batch-delete/user", commonHandler(batchDeleteUser))

	auth.GET("/role", commonHandler(listRole))
	auth.POST("/role", commonHandler(createRole))
	auth.PATCH("/role/:id", commonHandler(updateRole))
	auth.POST("/batch-delete/role", commonHandler(batchDeleteRole))
	auth.GET("/role/:id/permission", commonHandler(listRolePermission))
	auth.POST("/role/:id/permission", commonHandler(setRolePermission))

	auth.POST("/user-role", commonHandler(assignUserRole))
	auth.GET("/user-role/:id", commonHandler(getUserRole))
	auth.DELETE("/user-role/:id", commonHandler(removeUserRole))

	auth.GET("/permission", commonHandler(listPermission))
	auth.GET("/permission/tree", commonHandler(permissionTree))
	auth.POST("/permission", commonHandler(createPermission))
	auth.PATCH("/permission/:id", commonHandler(updatePermission))
	auth.POST("/batch-delete/permission", commonHandler(batchDeletePermission))

	auth.GET("/menu", commonHandler(listMenu))
	auth.GET("/user-menu", commonHandler(userMenu))
	auth.POST("/menu", commonHandler(createMenu))
	auth.PATCH("/menu/:id", commonHandler(updateMenu))
	auth.DELETE("/menu/:id", commonHandler(deleteMenu))

	auth.GET("/server", commonHandler(listServer))
	auth.GET("/user-server", commonHandler(userServer))
	auth.POST("/server", commonHandler(createServer))
	auth.PATCH("/server/:id", commonHandler(updateServer))
	auth.POST("/batch-delete/server", commonHandler(batchDeleteServer))

	auth.GET("/staff-permission/:id", commonHandler(getStaffPermission))
	auth.POST("/staff-permission/:id", commonHandler(setStaffPermission))
	auth.GET("/catalog/menu", commonHandler(catalogMenu))
	auth.GET("/catalog/server", commonHandler(catalogServer))
	auth.GET("/catalog/operation", commonHandler(catalogOperation))
	auth.GET("/user-permission/:id", commonHandler(getUserPermission))

	auth.GET("/ranking/player", commonHandler(listRankedPlayer))
	auth.GET("/ranking/guild", commonHandler(listRankedGuild))
	auth.GET("/ranking/stats", commonHandler(rankingStats))
	auth.PATCH("/ranking/player/:id", commonHandler(updateRankedPlayer))
	auth.PATCH("/ranking/guild/:id", commonHandler(updateRankedGuild))
	auth.POST("/batch-delete/ranking/player", commonHandler(batchDeleteRankedPlayer))
	auth.POST("/batch-delete/ranking/guild", commonHandler(batchDeleteRankedGuild))

	return nil
}

type handlerFunc[T any] func(c *gin.Context) (T, error)

func commonHandler[T any](handler handlerFunc[T]) func(*gin.Context) {
	return func(c *gin.Context) {
		handle(c, handler)
	}
}

func handle[T any](c *gin.Context, handler handlerFunc[T]) {
	data, err := handler(c)
	if err == nil {
		c.JSON(http.StatusOK, model.CommonResponse[T]{
			Success: true,
			Data:    data,
		})
		return
	}
	var gErr *gormError
	if errors.As(err, &gErr) {
		// 存储层细节不外漏
		log.Printf("GMB>> gorm error: %v", err)
		c.JSON(http.StatusOK, newErrorResponse(errors.New("database error")))
		return
	}
	c.JSON(http.StatusOK, newErrorResponse(err))
}

func newErrorResponse(err error) model.CommonResponse[any] {
	return model.CommonResponse[any]{
		Success: false,
		Error:   err.Error(),
	}
}

type gormError struct {
	msg string
}

func newGormError(format string, args ...interface{}) error {
	return &gormError{
		msg: fmt.Sprintf(format, args...),
	}
}

func (e *gormError) Error() string {
	return e.msg
}

var errUnauthorized = errors.New("unauthorized")
var errForbidden = errors.New("permission denied")

// currentUser 取 JWT 中间件写入上下文的已认证用户
func currentUser(c *gin.Context) (*model.User, error) {
	u, ok := c.Get(model.CtxKeyAuthorizedUser)
	if !ok {
		return nil, errUnauthorized
	}
	user, ok := u.(*model.User)
	if !ok {
		return nil, errUnauthorized
	}
	return user, nil
}

// requirePrivileged 管理操作只对 level ≤ 2 的角色开放
func requirePrivileged(c *gin.Context) (*model.User, error) {
	user, err := currentUser(c)
	if err != nil {
		return nil, err
	}
	role, err := rbac.UserRole(singleton.DB, user.ID)
	if err != nil {
		return nil, newGormError("%v", err)
	}
	if role == nil || !role.IsPrivileged() {
		return nil, errForbidden
	}
	return user, nil
}

func parseID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.Query("page_size"))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
