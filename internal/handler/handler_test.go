package handler_test

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/user/reelist/internal/config"
	"github.com/user/reelist/internal/handler"
	"github.com/user/reelist/internal/model"
	"github.com/user/reelist/internal/repository"
	"github.com/user/reelist/internal/router"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	gob.Register(model.SessionUser{})
}

// testServer 测试用服务器，直接走真实路由和中间件
type testServer struct {
	engine *gin.Engine
	repos  *repository.Repositories
	cfg    *config.Config
}

// newTestServer 搭建测试服务器，tmdbBaseURL 传 httptest 桩服务地址，
// 不测目录代理时传空串即可
func newTestServer(t *testing.T, tmdbBaseURL string) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// 内存库限制单连接，避免连接池各自拿到独立的空库
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.Migrate(db))

	cfg := &config.Config{
		AppSecret:   "test-secret",
		JWTExpiry:   time.Hour,
		SiteName:    "Reelist",
		SiteUrl:     "http://localhost:5000",
		TMDBToken:   "test-tmdb-token",
		TMDBBaseURL: tmdbBaseURL,
	}

	repos := repository.NewRepositories(db)
	h := handler.NewHandler(repos, cfg)

	r := gin.New()
	store := cookie.NewStore([]byte("test-session-secret"))
	r.Use(sessions.Sessions("reelist_session", store))
	router.RegisterRoutes(r, h)

	return &testServer{engine: r, repos: repos, cfg: cfg}
}

// do 发送 JSON 请求，token 非空时附加 Bearer 头
func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

// register 注册一个用户并返回其 Token
func (s *testServer) register(t *testing.T, username, email, password string) string {
	t.Helper()

	w := s.do(t, http.MethodPost, "/auth/register", gin.H{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// decodeJSON 解析响应体
func decodeJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}
