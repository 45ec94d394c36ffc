package controller

import (
	"net/http/httptest"
	"testing"
	"time"

	jwt "github.com/appleboy/gin-jwt/v2"
	"github.com/gin-gonic/gin"
	jwtv4 "github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/gmboard/gmboard/model"
	"github.com/gmboard/gmboard/pkg/utils"
	"github.com/gmboard/gmboard/service/singleton"
)

const testJWTSecret = "token-guard-test-secret"

func newAuthTestMiddleware(t *testing.T) *jwt.GinJWTMiddleware {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.WAF{}))
	singleton.DB = db
	singleton.Conf = &model.Config{
		SiteName:     "GMBoard",
		JWTSecretKey: testJWTSecret,
	}

	mw, err := jwt.New(initParams())
	require.NoError(t, err)
	return mw
}

func runTokenGuard(mw *jwt.GinJWTMiddleware, token string) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/api/v1/user", nil)
	if token != "" {
		c.Request.Header.Set("Authorization", "Bearer "+token)
	}
	c.Set(model.CtxKeyRealIPStr, "203.0.113.9")
	tokenGuard(mw)(c)
}

func wafRowCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, singleton.DB.Model(&model.WAF{}).Count(&count).Error)
	return count
}

func signTestToken(t *testing.T, identity string, exp time.Time) string {
	t.Helper()
	token := jwtv4.NewWithClaims(jwtv4.SigningMethodHS256, jwtv4.MapClaims{
		model.CtxKeyAuthorizedUser: identity,
		"exp":                      exp.Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return signed
}

func TestTokenGuardBlocksForgedToken(t *testing.T) {
	mw := newAuthTestMiddleware(t)

	runTokenGuard(mw, "not-a-jwt-at-all")

	assert.EqualValues(t, 1, wafRowCount(t))
	var w model.WAF
	require.NoError(t, singleton.DB.First(&w).Error)
	assert.Equal(t, model.WAFBlockReasonTypeBruteForceToken, w.LastBlockReason)
	assert.EqualValues(t, 1, w.Count)

	// 再来一次，累计递增
	runTokenGuard(mw, "still-not-a-jwt")
	require.NoError(t, singleton.DB.First(&w).Error)
	assert.EqualValues(t, 2, w.Count)
}

func TestTokenGuardIgnoresMissingToken(t *testing.T) {
	mw := newAuthTestMiddleware(t)

	runTokenGuard(mw, "")

	assert.EqualValues(t, 0, wafRowCount(t))
}

func TestTokenGuardIgnoresExpiredToken(t *testing.T) {
	mw := newAuthTestMiddleware(t)

	// 签名合法但已过期，不算伪造
	runTokenGuard(mw, signTestToken(t, "1", time.Now().Add(-time.Hour)))

	assert.EqualValues(t, 0, wafRowCount(t))
}

func TestTokenGuardBlocksUnknownIdentity(t *testing.T) {
	mw := newAuthTestMiddleware(t)

	// 签名合法、未过期，但用户不存在：像在爆破用户 id
	runTokenGuard(mw, signTestToken(t, "999", time.Now().Add(time.Hour)))

	assert.EqualValues(t, 1, wafRowCount(t))
	var w model.WAF
	require.NoError(t, singleton.DB.First(&w).Error)
	assert.Equal(t, model.WAFBlockReasonTypeBruteForceToken, w.LastBlockReason)
}

func TestTokenGuardClearsCounterOnValidToken(t *testing.T) {
	mw := newAuthTestMiddleware(t)

	u := model.User{Username: "worker", Email: "worker@x", Status: model.StatusActive}
	require.NoError(t, singleton.DB.Create(&u).Error)

	// 先积累一次失败
	runTokenGuard(mw, "not-a-jwt-at-all")
	require.EqualValues(t, 1, wafRowCount(t))

	runTokenGuard(mw, signTestToken(t, utils.Itoa(u.ID), time.Now().Add(time.Hour)))

	assert.EqualValues(t, 0, wafRowCount(t))
}
