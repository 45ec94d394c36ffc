// Package mygin 共用的 gin 中间件
package mygin

import (
	"net/http"
	"net/netip"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/service/singleton"
)

// RealIP 解析请求来源地址写入上下文，封禁与登录审计都以它为准。
// 配置了 RealIPHeader 时走反代传来的头，否则直接取对端地址。
func RealIP(c *gin.Context) {
	if singleton.Conf.RealIPHeader == "" {
		c.Set(model.CtxKeyRealIPStr, c.RemoteIP())
		c.Next()
		return
	}

	val := c.Request.Header.Get(singleton.Conf.RealIPHeader)
	if val == "" {
		c.AbortWithStatusJSON(http.StatusOK, model.CommonResponse[any]{Success: false, Error: "real ip header not found"})
		return
	}
	ip, err := netip.ParseAddr(val)
	if err != nil {
		// 某些代理会带端口
		addrPort, err2 := netip.ParseAddrPort(val)
		if err2 != nil {
			c.AbortWithStatusJSON(http.StatusOK, model.CommonResponse[any]{Success: false, Error: err.Error()})
			return
		}
		ip = addrPort.Addr()
	}
	c.Set(model.CtxKeyRealIPStr, ip.String())
	c.Next()
}

// Waf 命中封禁名单的来源直接拒绝
func Waf(c *gin.Context) {
	realipAddr := c.GetString(model.CtxKeyRealIPStr)
	if realipAddr == "" {
		c.Next()
		return
	}
	if err := model.CheckIP(singleton.DB, realipAddr); err != nil {
		ShowBlockMessage(c, err)
		return
	}
	c.Next()
}

// ShowBlockMessage 封禁响应，403 带原因
func ShowBlockMessage(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusForbidden, model.CommonResponse[any]{
		Success: false,
		Error:   err.Error(),
	})
}

// CORS 后台前端跨域访问
func CORS() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowHeaders = append(config.AllowHeaders, "Authorization")
	return cors.New(config)
}
