package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"
	jwtv4 "github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/pkg/mygin"
	"github.com/gmboard/gmboard/pkg/utils"
	"github.com/gmboard/gmboard/service/singleton"
)

func initParams() *jwt.GinJWTMiddleware {
	return &jwt.GinJWTMiddleware{
		Realm:       singleton.Conf.SiteName,
		Key:         []byte(singleton.Conf.JWTSecretKey),
		CookieName:  "gmb-jwt",
		SendCookie:  true,
		Timeout:     time.Hour,
		MaxRefresh:  time.Hour,
		IdentityKey: model.CtxKeyAuthorizedUser,
		PayloadFunc: payloadFunc(),

		IdentityHandler: identityHandler(),
		Authenticator:   authenticator(),
		Authorizator:    authorizator(),
		Unauthorized:    unauthorized(),
		TokenLookup:     "header: Authorization, query: token, cookie: gmb-jwt",
		TokenHeadName:   "Bearer",
		TimeFunc:        time.Now,

		LoginResponse: func(c *gin.Context, code int, token string, expire time.Time) {
			c.JSON(http.StatusOK, model.CommonResponse[model.LoginResponse]{
				Success: true,
				Data: model.LoginResponse{
					Token:  token,
					Expire: expire.Format(time.RFC3339),
				},
			})
		},
		RefreshResponse: refreshResponse,
	}
}

func payloadFunc() func(data interface{}) jwt.MapClaims {
	return func(data interface{}) jwt.MapClaims {
		if v, ok := data.(string); ok {
			return jwt.MapClaims{
				model.CtxKeyAuthorizedUser: v,
			}
		}
		return jwt.MapClaims{}
	}
}

func identityHandler() func(c *gin.Context) interface{} {
	return func(c *gin.Context) interface{} {
		claims := jwt.ExtractClaims(c)
		userId, ok := claims[model.CtxKeyAuthorizedUser].(string)
		if !ok {
			return nil
		}
		var user model.User
		if err := singleton.DB.First(&user, userId).Error; err != nil {
			return nil
		}
		return &user
	}
}

// User Login
// @Summary user login
// @Schemes
// @Description user login
// @Accept json
// @param loginRequest body model.LoginRequest true "Login Request"
// @Produce json
// @Success 200 {object} model.CommonResponse[model.LoginResponse]
// @Router /login [post]
func authenticator() func(c *gin.Context) (interface{}, error) {
	return func(c *gin.Context) (interface{}, error) {
		var loginVals model.LoginRequest
		if err := c.ShouldBind(&loginVals); err != nil {
			return "", jwt.ErrMissingLoginValues
		}

		var user model.User
		if err := singleton.DB.Where("username = ?", loginVals.Username).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				model.BlockIP(singleton.DB, c.GetString(model.CtxKeyRealIPStr), model.WAFBlockReasonTypeLoginFail)
			}
			return nil, jwt.ErrFailedAuthentication
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginVals.Password)); err != nil {
			model.BlockIP(singleton.DB, c.GetString(model.CtxKeyRealIPStr), model.WAFBlockReasonTypeLoginFail)
			return nil, jwt.ErrFailedAuthentication
		}

		if !user.IsActive() {
			return nil, jwt.ErrFailedAuthentication
		}

		model.ClearIP(singleton.DB, c.GetString(model.CtxKeyRealIPStr))

		now := time.Now()
		singleton.DB.Model(&user).Update("last_login_at", &now)

		return utils.Itoa(user.ID), nil
	}
}

func authorizator() func(data interface{}, c *gin.Context) bool {
	return func(data interface{}, c *gin.Context) bool {
		_, ok := data.(*model.User)
		return ok
	}
}

func unauthorized() func(c *gin.Context, code int, message string) {
	return func(c *gin.Context, code int, message string) {
		c.JSON(http.StatusOK, model.CommonResponse[any]{
			Success: false,
			Error:   "ApiErrorUnauthorized",
		})
	}
}

// tokenGuard 伪造凭证计入 WAF 累计，验证通过则解除累计。
// 没带凭证和单纯过期的令牌不算伪造；认证与拒绝本身仍由
// 后续的 gin-jwt 中间件完成。
func tokenGuard(mw *jwt.GinJWTMiddleware) func(c *gin.Context) {
	return func(c *gin.Context) {
		claims, err := mw.GetClaimsFromJWT(c)
		if err != nil {
			if isForgedTokenError(err) {
				if blockErr := model.BlockIP(singleton.DB, c.GetString(model.CtxKeyRealIPStr), model.WAFBlockReasonTypeBruteForceToken); blockErr != nil {
					mygin.ShowBlockMessage(c, blockErr)
					return
				}
			}
			c.Next()
			return
		}

		switch v := claims["exp"].(type) {
		case nil:
			c.Next()
			return
		case float64:
			if int64(v) < mw.TimeFunc().Unix() {
				c.Next()
				return
			}
		case json.Number:
			n, err := v.Int64()
			if err != nil {
				c.Next()
				return
			}
			if n < mw.TimeFunc().Unix() {
				c.Next()
				return
			}
		default:
			c.Next()
			return
		}

		c.Set("JWT_PAYLOAD", claims)
		if identity := mw.IdentityHandler(c); identity != nil {
			model.ClearIP(singleton.DB, c.GetString(model.CtxKeyRealIPStr))
		} else {
			// 签名合法但身份不存在，像是在爆破用户 id
			if err := model.BlockIP(singleton.DB, c.GetString(model.CtxKeyRealIPStr), model.WAFBlockReasonTypeBruteForceToken); err != nil {
				mygin.ShowBlockMessage(c, err)
				return
			}
		}
		c.Next()
	}
}

func isForgedTokenError(err error) bool {
	switch err {
	case jwt.ErrEmptyAuthHeader, jwt.ErrInvalidAuthHeader,
		jwt.ErrEmptyQueryToken, jwt.ErrEmptyCookieToken:
		return false
	}
	var vErr *jwtv4.ValidationError
	if errors.As(err, &vErr) && vErr.Errors&jwtv4.ValidationErrorExpired != 0 {
		return false
	}
	return true
}

// Refresh token
// @Summary Refresh token
// @Security BearerAuth
// @Schemes
// @Description Refresh token
// @Tags auth required
// @Produce json
// @Success 200 {object} model.CommonResponse[model.LoginResponse]
// @Router /refresh-token [get]
func refreshResponse(c *gin.Context, code int, token string, expire time.Time) {
	c.JSON(http.StatusOK, model.CommonResponse[model.LoginResponse]{
		Success: true,
		Data: model.LoginResponse{
			Token:  token,
			Expire: expire.Format(time.RFC3339),
		},
	})
}
