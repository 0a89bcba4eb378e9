package middlewares

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tagmind/app/models/user"
	"tagmind/app/repositories"
	"tagmind/pkg/auth"
	"tagmind/pkg/config"
	"tagmind/pkg/database/dbtest"
	"tagmind/pkg/hash"
	"tagmind/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func serve(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCorsPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Cors(), SecurityHeaders())
	r.GET("/v1/diaries", func(c *gin.Context) { c.Status(http.StatusOK) })

	// 预检请求没有对应路由，也要返回 204
	w := serve(r, http.MethodOptions, "/v1/diaries", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "PATCH")

	w = serve(r, http.MethodGet, "/v1/diaries", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestLimitPerRouteInMemory(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.Set("app.env", "local")
	t.Cleanup(func() { config.Set("app.env", "testing") })

	r := gin.New()
	r.GET("/limited-twice", LimitPerRoute("2-H"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/limited-other", LimitPerRoute("2-H"), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodGet, "/limited-twice", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-RateLimit-Limit"))
	}
	w := serve(r, http.MethodGet, "/limited-twice", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// 不同路由分别计数
	w = serve(r, http.MethodGet, "/limited-other", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLimitDisabledWhenTesting(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.Set("app.env", "testing")

	r := gin.New()
	r.GET("/limited-testing", LimitIP("1-H"), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(r, http.MethodGet, "/limited-testing", "").Code)
	}
}

func TestAuthJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash.Cost = bcrypt.MinCost
	config.Set("jwt.secret", "middleware-test-secret")
	dbtest.Setup(t)

	u := &user.User{Email: "mw@example.com", Password: "password123"}
	require.NoError(t, repositories.NewUserRepository().Create(context.Background(), u))

	r := gin.New()
	r.GET("/me", AuthJWT(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": auth.CurrentUID(c), "email": auth.CurrentUser(c).Email})
	})

	pair, err := jwt.NewJWT().IssuePair(u.ID)
	require.NoError(t, err)

	w := serve(r, http.MethodGet, "/me", pair.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "mw@example.com")

	w = serve(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))

	w = serve(r, http.MethodGet, "/me", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(r, http.MethodGet, "/me", pair.RefreshToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 用户已删除
	ghost, err := jwt.NewJWT().IssuePair(u.ID + 100)
	require.NoError(t, err)
	w = serve(r, http.MethodGet, "/me", ghost.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "找不到对应用户")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
